package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
)

// InterviewRepository описывает зависимости InterviewService от хранилища.
type InterviewRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ScheduleInterview(ctx context.Context, i *models.Interview, status string) error
	GetInterviewByID(ctx context.Context, id uuid.UUID) (*models.Interview, error)
	CompleteInterview(ctx context.Context, id uuid.UUID, rating *int, notes *string) error
}

// InterviewService содержит бизнес-логику собеседований по откликам.
type InterviewService struct {
	repo     InterviewRepository
	missions MissionGetter
	notifier Notifier
}

// NewInterviewService создаёт сервис собеседований.
func NewInterviewService(repo InterviewRepository, missions MissionGetter, notifier Notifier) *InterviewService {
	return &InterviewService{repo: repo, missions: missions, notifier: notifier}
}

// Schedule назначает собеседование по отклику в статусе SHORTLISTED
// и переводит отклик в INTERVIEW_SCHEDULED.
func (s *InterviewService) Schedule(ctx context.Context, applicationID, companyID uuid.UUID, req *dto.ScheduleInterviewRequest) (*models.Interview, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.ScheduledAt.Before(time.Now()) {
		return nil, apperror.Validation("scheduled_at", "время собеседования должно быть в будущем")
	}

	a, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, apperror.ErrApplicationNotFound
	}

	mission, err := s.missions.GetByID(ctx, a.MissionID)
	if err != nil {
		return nil, apperror.ErrMissionNotFound
	}
	if mission.CompanyID != companyID {
		return nil, apperror.ErrForbidden
	}

	if !models.CanTransition(models.ApplicationTransitions, a.Status, models.ApplicationStatusInterviewScheduled) {
		return nil, apperror.New(apperror.ErrCodeConflict, "собеседование назначается только по отклику из шортлиста")
	}

	i := &models.Interview{
		ApplicationID: applicationID,
		ScheduledAt:   req.ScheduledAt,
		DurationMin:   req.DurationMin,
		MeetingLink:   req.MeetingLink,
	}
	// Собеседование и смена статуса отклика записываются одной транзакцией.
	if err := s.repo.ScheduleInterview(ctx, i, models.ApplicationStatusInterviewScheduled); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, a.FreelancerID, EventInterviewScheduled, map[string]interface{}{
		"interview_id":   i.ID,
		"application_id": applicationID,
		"scheduled_at":   req.ScheduledAt,
	})

	return i, nil
}

// Get возвращает собеседование фрилансеру отклика, компании миссии
// или администратору.
func (s *InterviewService) Get(ctx context.Context, id, viewerID uuid.UUID, viewerRole string) (*models.Interview, error) {
	i, err := s.repo.GetInterviewByID(ctx, id)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "собеседование не найдено")
	}

	if viewerRole != models.RoleAdmin {
		a, err := s.repo.GetByID(ctx, i.ApplicationID)
		if err != nil {
			return nil, apperror.ErrApplicationNotFound
		}
		if a.FreelancerID != viewerID {
			mission, err := s.missions.GetByID(ctx, a.MissionID)
			if err != nil || mission.CompanyID != viewerID {
				return nil, apperror.ErrForbidden
			}
		}
	}

	return i, nil
}

// Complete завершает собеседование. Завершённое собеседование
// терминально: повторное завершение отклоняется.
func (s *InterviewService) Complete(ctx context.Context, id, companyID uuid.UUID, req *dto.CompleteInterviewRequest) (*models.Interview, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	i, err := s.repo.GetInterviewByID(ctx, id)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "собеседование не найдено")
	}
	if i.Completed {
		return nil, apperror.New(apperror.ErrCodeConflict, "собеседование уже завершено")
	}

	a, err := s.repo.GetByID(ctx, i.ApplicationID)
	if err != nil {
		return nil, apperror.ErrApplicationNotFound
	}
	mission, err := s.missions.GetByID(ctx, a.MissionID)
	if err != nil {
		return nil, apperror.ErrMissionNotFound
	}
	if mission.CompanyID != companyID {
		return nil, apperror.ErrForbidden
	}

	if err := s.repo.CompleteInterview(ctx, id, req.Rating, req.Notes); err != nil {
		return nil, err
	}

	if models.CanTransition(models.ApplicationTransitions, a.Status, models.ApplicationStatusInterviewCompleted) {
		if err := s.repo.UpdateStatus(ctx, a.ID, models.ApplicationStatusInterviewCompleted); err != nil {
			return nil, err
		}
	}

	i.Completed = true
	i.Rating = req.Rating
	i.Notes = req.Notes
	return i, nil
}
