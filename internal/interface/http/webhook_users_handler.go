package handlers

import (
	"encoding/json"
	"errors"
	"expvar"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/iterate-backend/internal/application"
	"github.com/oksasatya/iterate-backend/internal/domain/apperror"
	"github.com/oksasatya/iterate-backend/internal/domain/entity"
	"github.com/oksasatya/iterate-backend/pkg/helpers"
	"github.com/oksasatya/iterate-backend/pkg/response"
	"github.com/oksasatya/iterate-backend/pkg/validation"
)

const (
	HeaderSvixID        = "svix-id"
	HeaderSvixTimestamp = "svix-timestamp"
	HeaderSvixSignature = "svix-signature"

	maxWebhookBody = 1 << 20
)

var (
	webhookReceived = expvar.NewInt("webhook_users_received")
	webhookSaved    = expvar.NewInt("webhook_users_saved")
	webhookRejected = expvar.NewInt("webhook_users_rejected")
)

// WebhookUsersHandler receives user lifecycle webhooks from Clerk.
type WebhookUsersHandler struct {
	Verify *application.VerifySvixSignatureUseCase
	Save   *application.SaveUsersUseCase
	Events *application.UserEventPublisher
	Logger *logrus.Logger
}

func NewWebhookUsersHandler(verify *application.VerifySvixSignatureUseCase, save *application.SaveUsersUseCase, events *application.UserEventPublisher, logger *logrus.Logger) *WebhookUsersHandler {
	return &WebhookUsersHandler{Verify: verify, Save: save, Events: events, Logger: logger}
}

// SaveUser verifies the delivery, stores the user and answers with the stored record.
func (h *WebhookUsersHandler) SaveUser(c *gin.Context) {
	webhookReceived.Add(1)

	headers := entity.WebhookHeaders{
		MessageID: strings.TrimSpace(c.GetHeader(HeaderSvixID)),
		Timestamp: strings.TrimSpace(c.GetHeader(HeaderSvixTimestamp)),
		Signature: strings.TrimSpace(c.GetHeader(HeaderSvixSignature)),
	}
	fields := logrus.Fields{
		"request_id": c.GetString("request_id"),
		"svix_id":    headers.MessageID,
	}
	if !headers.Complete() {
		h.reject(c, apperror.MissingHeaders(), nil, fields)
		return
	}

	rawBody, err := readBody(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			webhookRejected.Add(1)
			helpers.LogWarn(h.Logger, "webhook body too large", err, fields)
			response.Error[any](c, http.StatusRequestEntityTooLarge, "payload too large", nil)
			return
		}
		h.reject(c, apperror.ValidationFailed("payload", "unreadable body"), nil, fields)
		return
	}

	if err := h.Verify.Execute(entity.WebhookEnvelope{Headers: headers, RawBody: rawBody}); err != nil {
		h.reject(c, err, nil, fields)
		return
	}

	var payload webhookUserPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		h.reject(c, apperror.ValidationFailed("payload", "invalid json"), validation.ToDetails(err), fields)
		return
	}
	if err := validation.Struct(&payload); err != nil {
		h.reject(c, apperror.ValidationFailed("payload", "invalid payload"), validation.ToDetails(err), fields)
		return
	}
	cmd, err := payload.toCommand()
	if err != nil {
		h.reject(c, err, nil, fields)
		return
	}
	fields["clerk_id"] = cmd.ClerkID.String()
	fields["type"] = payload.Type

	ctx := c.Request.Context()
	user, err := h.Save.Execute(ctx, cmd)
	if err != nil {
		h.reject(c, err, nil, fields)
		return
	}
	_ = h.Events.Publish(ctx, payload.Type, user, payload.Data.primaryEmail())

	webhookSaved.Add(1)
	helpers.LogInfo(h.Logger, "user saved successfully", fields)
	c.JSON(http.StatusCreated, toUserResponse(user))
}

func readBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	return io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
}

// reject logs err at a level matching its kind and writes the error envelope.
func (h *WebhookUsersHandler) reject(c *gin.Context, err error, details map[string]string, fields logrus.Fields) {
	webhookRejected.Add(1)
	status := statusFor(err)

	var appErr *apperror.AppError
	if details == nil && errors.As(err, &appErr) && appErr.Field != "" {
		details = map[string]string{appErr.Field: appErr.Message}
	}

	switch {
	case errors.Is(err, apperror.ErrMissingHeaders):
		helpers.LogError(h.Logger, apperror.MissingHeadersMessage, nil, fields)
	case status >= http.StatusInternalServerError:
		helpers.LogError(h.Logger, "webhook processing failed", err, fields)
	default:
		helpers.LogWarn(h.Logger, "webhook rejected", err, fields)
	}

	var payload interface{}
	if details != nil {
		payload = details
	}
	response.Error[any](c, status, clientMessage(err), payload)
}
