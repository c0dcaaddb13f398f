package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/iterate-backend/internal/application"
	"github.com/oksasatya/iterate-backend/internal/interface/middleware"
	"github.com/oksasatya/iterate-backend/pkg/helpers"
	"github.com/oksasatya/iterate-backend/pkg/response"
	"github.com/oksasatya/iterate-backend/pkg/validation"
)

// UserHandler serves the signed-in user routes.
type UserHandler struct {
	Svc    *application.UserQueryService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserQueryService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type searchUsersQuery struct {
	Q    string `form:"q" binding:"required,max=100"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.Svc.GetByClerkID(c.Request.Context(), c.GetString(middleware.CtxClerkIDKey))
	if errors.Is(err, application.ErrUserNotFound) {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	if err != nil {
		helpers.LogError(h.Logger, "get current user failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
		response.Error[any](c, http.StatusInternalServerError, "failed to load user", nil)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "profile", nil)
}

func (h *UserHandler) Search(c *gin.Context) {
	var q searchUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	users, err := h.Svc.SearchUsers(c.Request.Context(), q.Q, q.Size)
	if err != nil {
		helpers.LogError(h.Logger, "search users failed", err, logrus.Fields{"request_id": c.GetString("request_id"), "q": q.Q})
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, toUserResponses(users), "users", map[string]any{"count": len(users)})
}
