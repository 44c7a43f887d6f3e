package models

// UserRole константы ролей пользователей
const (
	RoleAdmin     = "ADMIN"
	RoleFreelance = "FREELANCE"
	RoleCompany   = "COMPANY"
)

// MissionStatus константы статусов миссий
const (
	MissionStatusDraft     = "DRAFT"
	MissionStatusPublished = "PUBLISHED"
	MissionStatusCompleted = "COMPLETED"
	MissionStatusCancelled = "CANCELLED"
)

// ApplicationStatus константы статусов откликов
const (
	ApplicationStatusPending            = "PENDING"
	ApplicationStatusShortlisted        = "SHORTLISTED"
	ApplicationStatusRejected           = "REJECTED"
	ApplicationStatusAccepted           = "ACCEPTED"
	ApplicationStatusInterviewScheduled = "INTERVIEW_SCHEDULED"
	ApplicationStatusInterviewCompleted = "INTERVIEW_COMPLETED"
)

// ContractStatus константы статусов контрактов
const (
	ContractStatusDraft             = "DRAFT"
	ContractStatusPendingSignatures = "PENDING_SIGNATURES"
	ContractStatusActive            = "ACTIVE"
	ContractStatusCompleted         = "COMPLETED"
	ContractStatusTerminated        = "TERMINATED"
)

// MilestoneStatus константы статусов вех
const (
	MilestoneStatusPending   = "PENDING"
	MilestoneStatusSubmitted = "SUBMITTED"
	MilestoneStatusApproved  = "APPROVED"
	MilestoneStatusPaid      = "PAID"
)

// DisputeStatus константы статусов споров
const (
	DisputeStatusOpen     = "OPEN"
	DisputeStatusInReview = "IN_REVIEW"
	DisputeStatusResolved = "RESOLVED"
	DisputeStatusClosed   = "CLOSED"
)

// AvailabilityStatus константы доступности фрилансера
const (
	AvailabilityAvailable   = "AVAILABLE"
	AvailabilityBusy        = "BUSY"
	AvailabilityUnavailable = "UNAVAILABLE"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleAdmin:     {},
	RoleFreelance: {},
	RoleCompany:   {},
}

// ValidMissionStatuses список валидных статусов миссий
var ValidMissionStatuses = map[string]struct{}{
	MissionStatusDraft:     {},
	MissionStatusPublished: {},
	MissionStatusCompleted: {},
	MissionStatusCancelled: {},
}

// ValidDisputeStatuses список валидных статусов споров
var ValidDisputeStatuses = map[string]struct{}{
	DisputeStatusOpen:     {},
	DisputeStatusInReview: {},
	DisputeStatusResolved: {},
	DisputeStatusClosed:   {},
}

// ApplicationTransitions допустимые переходы статусов отклика.
// Машина состояний движется только вперёд, обратных переходов нет.
var ApplicationTransitions = map[string][]string{
	ApplicationStatusPending:            {ApplicationStatusShortlisted, ApplicationStatusRejected},
	ApplicationStatusShortlisted:        {ApplicationStatusInterviewScheduled, ApplicationStatusAccepted, ApplicationStatusRejected},
	ApplicationStatusInterviewScheduled: {ApplicationStatusInterviewCompleted, ApplicationStatusRejected},
	ApplicationStatusInterviewCompleted: {ApplicationStatusAccepted, ApplicationStatusRejected},
	ApplicationStatusAccepted:           {},
	ApplicationStatusRejected:           {},
}

// MilestoneTransitions допустимые переходы статусов вехи (только вперёд).
var MilestoneTransitions = map[string][]string{
	MilestoneStatusPending:   {MilestoneStatusSubmitted},
	MilestoneStatusSubmitted: {MilestoneStatusApproved},
	MilestoneStatusApproved:  {MilestoneStatusPaid},
	MilestoneStatusPaid:      {},
}

// DisputeTransitions допустимые переходы статусов спора.
var DisputeTransitions = map[string][]string{
	DisputeStatusOpen:     {DisputeStatusInReview, DisputeStatusResolved, DisputeStatusClosed},
	DisputeStatusInReview: {DisputeStatusResolved, DisputeStatusClosed},
	DisputeStatusResolved: {DisputeStatusClosed},
	DisputeStatusClosed:   {},
}

// CanTransition проверяет допустимость перехода по таблице переходов.
func CanTransition(table map[string][]string, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}
