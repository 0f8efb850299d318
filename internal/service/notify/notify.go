// Package notify delivers operator notifications such as closing summaries
// and low-stock alerts.
package notify

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/tillbook/internal/config"
	"github.com/mamadbah2/tillbook/internal/domain/models"
	client "github.com/mamadbah2/tillbook/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// ErrDisabled is returned for manual messages when no channel is configured.
var ErrDisabled = &models.Error{Kind: models.KindConflict, Message: "notifications are not configured"}

// Notifier sends plain-text messages.
type Notifier interface {
	// Notify messages the manager.
	Notify(ctx context.Context, message string) error
	// Send messages an explicit recipient, or the manager when req.To is
	// empty.
	Send(ctx context.Context, req models.OutboundMessageRequest) error
}

// WhatsAppNotifier sends through the WhatsApp Cloud API.
type WhatsAppNotifier struct {
	client    client.Client
	managerID string
	logger    *zap.Logger
}

// NewWhatsAppNotifier wires a WhatsApp notifier addressed to the manager.
func NewWhatsAppNotifier(cfg config.WhatsAppConfig, c client.Client, logger *zap.Logger) *WhatsAppNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppNotifier{client: c, managerID: cfg.ManagerID, logger: logger}
}

// Notify messages the manager.
func (n *WhatsAppNotifier) Notify(ctx context.Context, message string) error {
	return n.Send(ctx, models.OutboundMessageRequest{Message: message})
}

// Send messages req.To, defaulting to the manager.
func (n *WhatsAppNotifier) Send(ctx context.Context, req models.OutboundMessageRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		return models.Validationf("message is required")
	}
	to := strings.TrimSpace(req.To)
	if to == "" {
		to = n.managerID
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := n.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:   to,
		Body: req.Message,
	})
	if err != nil {
		return err
	}

	n.logger.Info("notification sent", zap.String("to", to), zap.String("message_id", resp.MessageID()))
	return nil
}

// Nop drops every notification. Manual messages fail with ErrDisabled.
type Nop struct {
	Logger *zap.Logger
}

// Notify logs the message at debug level.
func (n Nop) Notify(_ context.Context, message string) error {
	if n.Logger != nil {
		n.Logger.Debug("notification dropped", zap.Int("length", len(message)))
	}
	return nil
}

// Send always fails with ErrDisabled.
func (Nop) Send(context.Context, models.OutboundMessageRequest) error {
	return ErrDisabled
}

// New picks the WhatsApp notifier when it is configured and Nop otherwise.
func New(cfg config.WhatsAppConfig, logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled() {
		logger.Info("whatsapp notifications disabled")
		return Nop{Logger: logger}
	}
	return NewWhatsAppNotifier(cfg, client.NewClient(cfg), logger)
}
