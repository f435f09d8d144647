package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/fotosexpress/portal/internal/config"
	"github.com/fotosexpress/portal/internal/domain"
	"github.com/fotosexpress/portal/internal/events"
)

// MessageKind selects the canned WhatsApp text sent to a client.
type MessageKind string

const (
	MessageDelivery MessageKind = "delivery"
	MessageService  MessageKind = "service"
)

const instagramURL = "https://www.instagram.com/fotosexpresspr"

// WhatsAppLink builds a click-to-chat link with a prefilled message for the client.
func WhatsAppLink(phone, name string, kind MessageKind) string {
	var message string
	switch kind {
	case MessageDelivery:
		message = fmt.Sprintf("¡Hola %s! Tus fotos ya están listas en Fotos Express. "+
			"Puedes descargarlas ingresando tu número de teléfono en nuestro portal. "+
			"Muchas gracias, puedes seguirnos en Instagram: %s", name, instagramURL)
	default:
		message = fmt.Sprintf("¡Hola %s! Recibimos tu solicitud de servicio en Fotos Express. "+
			"¿Podemos hablar sobre los detalles?", name)
	}
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + domain.NormalizePhone(phone) + "?text=" + text
}

// NotificationService turns domain events into outbound notifications.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{logger: logger, cfg: cfg}
}

// RegisterHandlers subscribes the notification handlers on d.
func (n *NotificationService) RegisterHandlers(d events.Dispatcher) {
	if d == nil {
		return
	}
	d.Subscribe(events.EventPhotosDelivered, n.handlePhotosDelivered)
	d.Subscribe(events.EventStaffApproved, n.handleStaffApproved)
	d.Subscribe(events.EventServiceRequestCreated, n.handleServiceRequestCreated)
}

func (n *NotificationService) handlePhotosDelivered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PhotosDeliveredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("PhotosDelivered",
		zap.String("client_id", event.SubjectID),
		zap.Int("photos", payload.PhotoCount),
		zap.String("whatsapp", WhatsAppLink(payload.Telefono, payload.Nombre, MessageDelivery)))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStaffApproved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StaffApprovedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("StaffApproved",
		zap.String("application_id", event.SubjectID),
		zap.String("staff_id", payload.StaffID))
	n.sendEmailNotificationStub(ctx, payload.Email, "Activa tu cuenta de Fotos Express", payload.ActivationLink)
	return nil
}

func (n *NotificationService) handleServiceRequestCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ServiceRequestCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("ServiceRequestCreated",
		zap.String("service_id", event.SubjectID),
		zap.String("tipo", payload.Tipo),
		zap.String("whatsapp", WhatsAppLink(payload.Telefono, payload.Nombre, MessageService)))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, to, subject, body string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
