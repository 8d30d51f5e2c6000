package services

import (
	"time"

	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
)

type PrivacyStore interface {
	ListResponsesByParticipant(participantID string) ([]*models.ParticipantResponse, error)
	DeleteParticipantData(participantID string) (int, error)
	AddAudit(entry models.AuditEntry)
}

// PrivacyService implements the data-subject operations behind the GDPR
// pages: export everything stored for a participant, or erase it.
type PrivacyService struct {
	store      PrivacyStore
	aggregates *AssessmentService
	now        func() time.Time
}

func NewPrivacyService(store PrivacyStore, aggregates *AssessmentService) *PrivacyService {
	return &PrivacyService{
		store:      store,
		aggregates: aggregates,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ExportParticipantData returns every stored response for a participant.
func (s *PrivacyService) ExportParticipantData(participantID string) ([]*models.ParticipantResponse, error) {
	if participantID == "" {
		return nil, NewInvalidError("participant id required")
	}
	responses, err := s.store.ListResponsesByParticipant(participantID)
	if err != nil {
		return nil, err
	}
	if len(responses) == 0 {
		return nil, NewNotFoundError("no data stored for participant")
	}
	return responses, nil
}

// DeleteParticipantData erases a participant's responses and recomputes the
// aggregates of every assessment the data contributed to, so derived views
// never reference erased answers.
func (s *PrivacyService) DeleteParticipantData(participantID string) (int, error) {
	if participantID == "" {
		return 0, NewInvalidError("participant id required")
	}
	responses, err := s.store.ListResponsesByParticipant(participantID)
	if err != nil {
		return 0, err
	}
	if len(responses) == 0 {
		return 0, NewNotFoundError("no data stored for participant")
	}
	touched := map[string]struct{}{}
	for _, r := range responses {
		touched[r.AssessmentID] = struct{}{}
	}
	removed, err := s.store.DeleteParticipantData(participantID)
	if err != nil {
		return 0, err
	}
	for assessmentID := range touched {
		if err := s.aggregates.UpdateAggregatedData(assessmentID); err != nil {
			return removed, err
		}
	}
	s.store.AddAudit(models.AuditEntry{Time: s.now(), Actor: "participant", Action: "erase_data", Target: participantID})
	return removed, nil
}
