package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/domain/models"
	"github.com/mamadbah2/tillbook/internal/service/notify"
)

// NotificationHandler lets operators push a message by hand.
type NotificationHandler struct {
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewNotificationHandler constructs the HTTP handler adapter.
func NewNotificationHandler(notifier notify.Notifier, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, logger: orNop(logger)}
}

// Send delivers a manual message, to the manager unless "to" is set.
func (h *NotificationHandler) Send(c *gin.Context) {
	var req models.OutboundMessageRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	err := h.notifier.Send(c.Request.Context(), req)
	switch {
	case err == nil:
		c.Status(http.StatusAccepted)
	case errors.Is(err, notify.ErrDisabled), models.KindOf(err) == models.KindValidation:
		respondError(c, h.logger, err)
	default:
		h.logger.Error("failed sending outbound", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
	}
}
