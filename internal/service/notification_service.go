package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/goroutine"
	"github.com/workmatch/workmatch-backend/internal/logger"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
)

// События, рассылаемые доменными сервисами.
const (
	EventApplicationCreated = "application.created"
	EventApplicationStatus  = "application.status_changed"
	EventInterviewScheduled = "interview.scheduled"
	EventContractCreated    = "contract.created"
	EventContractSigned     = "contract.signed"
	EventContractActive     = "contract.active"
	EventMilestoneStatus    = "milestone.status_changed"
	EventTrackingApproved   = "tracking.approved"
	EventFeedbackReceived   = "feedback.received"
	EventDisputeOpened      = "dispute.opened"
	EventDisputeResolved    = "dispute.resolved"
)

// Notifier интерфейс, через который доменные сервисы шлют уведомления.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event string, data interface{})
}

// NotificationRepository описывает хранилище уведомлений.
type NotificationRepository interface {
	Create(ctx context.Context, userID uuid.UUID, event string, data interface{}) (*models.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Notification, pagination.Pagination, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
}

// Broadcaster доставляет событие подключённым клиентам (WebSocket hub).
type Broadcaster interface {
	BroadcastToUser(userID uuid.UUID, event string, data interface{})
}

// NotificationService сохраняет уведомления и рассылает их в реальном времени.
type NotificationService struct {
	repo NotificationRepository
	hub  Broadcaster
}

// NewNotificationService создаёт сервис уведомлений. hub может быть nil (тесты).
func NewNotificationService(repo NotificationRepository, hub Broadcaster) *NotificationService {
	return &NotificationService{repo: repo, hub: hub}
}

// Notify сохраняет уведомление и асинхронно пушит его в WebSocket.
// Ошибки не возвращаются: уведомление не должно ломать доменную операцию.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, event string, data interface{}) {
	n, err := s.repo.Create(ctx, userID, event, data)
	if err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"user_id": userID,
			"event":   event,
			"error":   err.Error(),
		}).Warn("notification service: не удалось сохранить уведомление")
		return
	}

	if s.hub != nil {
		goroutine.SafeGo(func() {
			s.hub.BroadcastToUser(userID, event, n)
		})
	}
}

// List возвращает страницу уведомлений пользователя.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Notification, pagination.Pagination, error) {
	return s.repo.ListByUser(ctx, userID, page, limit)
}

// CountUnread возвращает число непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkAsRead отмечает уведомление пользователя прочитанным.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

// MarkAllAsRead отмечает все уведомления пользователя прочитанными.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
