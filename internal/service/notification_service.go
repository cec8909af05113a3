package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"learnpulse-be/internal/model"
	"learnpulse-be/internal/pkg/logger"
	"learnpulse-be/internal/repository"
	"learnpulse-be/pkg/events"
	pktNats "learnpulse-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
	Broadcast(notification model.Notification)
	PushSync(userID uuid.UUID, kind string)
}

// Events that should also trigger a cross-device refetch push.
var syncKinds = map[string]string{
	"PREFERENCES_SAVED": "preferences",
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start attaches the durable worker to the event stream.
func (s *NotificationService) Start() {
	if err := s.subscriber.Subscribe(pktNats.SubjectWildcard, "notif-service-worker", s.handleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to "+pktNats.SubjectWildcard, nil)
}

// payloadUserID extracts and parses the owning user from an event payload.
func payloadUserID(event events.Event) (uuid.UUID, bool) {
	uidStr, ok := event.Payload()["user_id"].(string)
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(uidStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects carry the "events." prefix; registry codes are bare.
	typeCode := strings.TrimPrefix(event.EventType(), pktNats.SubjectPrefix)

	// Sync pushes are independent of the notification registry: other open
	// sessions of the same user refetch even when no inbox entry is written.
	if kind, ok := syncKinds[typeCode]; ok && s.delivery != nil {
		if userID, ok := payloadUserID(event); ok {
			s.delivery.PushSync(userID, kind)
		}
	}

	config, err := s.repo.GetNotificationTypeByCode(ctx, typeCode)
	if err != nil {
		s.logger.Warn("NotificationService", fmt.Sprintf("Config not found for code: '%s'", typeCode), map[string]interface{}{"error": err.Error()})
		return nil
	}
	if !config.IsActive {
		return nil
	}

	// Broadcast types are push-only; nothing is written to per-user inboxes.
	if config.TargetType == "BROADCAST" {
		if s.delivery != nil {
			s.delivery.Broadcast(s.buildNotification(uuid.Nil, config, event))
		}
		return nil
	}

	// SELF targeting: the owning user comes from the event payload.
	userID, ok := payloadUserID(event)
	if !ok {
		s.logger.Warn("NotificationService", fmt.Sprintf("Missing or invalid user_id in payload for event %s", typeCode), nil)
		return nil
	}

	notif := s.buildNotification(userID, config, event)
	if err := s.repo.CreateNotification(ctx, &notif); err != nil {
		s.logger.Error("NotificationService", fmt.Sprintf("Error saving notification for user %s", userID), map[string]interface{}{"error": err})
		return err // NATS will redeliver
	}

	if s.delivery != nil {
		s.delivery.Send(userID, notif)
	}
	return nil
}

// renderTemplate substitutes {key} placeholders from the payload.
func renderTemplate(template string, payload map[string]interface{}) string {
	msg := template
	for k, v := range payload {
		msg = strings.ReplaceAll(msg, "{"+k+"}", fmt.Sprintf("%v", v))
	}
	return msg
}

func (s *NotificationService) buildNotification(userID uuid.UUID, config *model.NotificationType, event events.Event) model.Notification {
	payload := event.Payload()

	entityType, _ := payload["entity_type"].(string)
	var entityID *uuid.UUID
	if eidStr, ok := payload["entity_id"].(string); ok {
		if eid, err := uuid.Parse(eidStr); err == nil {
			entityID = &eid
		}
	}

	// The payload rides along as metadata, plus an action_url for deep
	// linking when the event points at a concrete entity.
	metaMap := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		metaMap[k] = v
	}
	if entityType != "" && entityID != nil {
		metaMap["action_url"] = fmt.Sprintf("/%ss/%s", entityType, entityID.String())
	}
	metaJSON, _ := json.Marshal(metaMap)

	return model.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		TypeCode:   config.Code,
		Title:      config.DisplayName,
		Message:    renderTemplate(config.Template, payload),
		Metadata:   datatypes.JSON(metaJSON),
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
		IsRead:     false,
	}
}

// Inbox accessors used by the HTTP handler.

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
