package api

import "github.com/BenInbound/survey-app-v2-sub000/internal/models"

// Store is the persistence collaborator for the platform. Assessments have
// whole-record read/write semantics (upsert replaces the full record);
// participant responses are append-only.
type Store interface {
	GetAssessment(id string) (*models.Assessment, error)
	SaveAssessment(a *models.Assessment) error
	DeleteAssessment(id string) error
	ListAssessmentsByConsultant(consultantID string) ([]*models.Assessment, error)
	ListAllAssessments() ([]*models.Assessment, error)

	AddParticipantResponse(r *models.ParticipantResponse) error
	// ListParticipantResponses filters by role when role is non-empty.
	ListParticipantResponses(assessmentID string, role models.ParticipantRole) ([]*models.ParticipantResponse, error)
	ListResponsesByParticipant(participantID string) ([]*models.ParticipantResponse, error)
	DeleteParticipantData(participantID string) (int, error)

	AddConsultant(c *models.Consultant) error
	FindConsultantByEmail(email string) (*models.Consultant, error)

	AddAudit(e models.AuditEntry)
	ListAudit() []models.AuditEntry

	AddLegalBasisEvent(e models.LegalBasisEvent) error
	ListLegalBasisEvents(assessmentID string) ([]models.LegalBasisEvent, error)
}

var _ Store = (*memoryStore)(nil)
