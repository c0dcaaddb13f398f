package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("request_id", "req-1"); c.Next() })
	r.GET("/ok", func(c *gin.Context) { Success(c, 0, map[string]string{"a": "b"}, "fine", nil) })
	r.GET("/bad", func(c *gin.Context) { Error[any](c, 0, "nope", map[string]string{"q": "is required"}) })
	r.GET("/abort", func(c *gin.Context) {
		Abort(c, http.StatusUnauthorized, "no")
		assert.True(t, c.IsAborted())
	})

	tests := []struct {
		target  string
		status  int
		success bool
		message string
	}{
		{"/ok", http.StatusOK, true, "fine"},
		{"/bad", http.StatusBadRequest, false, "nope"},
		{"/abort", http.StatusUnauthorized, false, "no"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

		require.Equal(t, tt.status, w.Code, tt.target)
		var env map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, tt.success, env["success"], tt.target)
		assert.Equal(t, tt.message, env["message"], tt.target)
		assert.Equal(t, "req-1", env["request_id"], tt.target)
		assert.Equal(t, float64(tt.status), env["status"], tt.target)
	}
}
