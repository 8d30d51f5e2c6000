package api

import (
	"sort"
	"strings"
	"sync"

	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
)

// memoryStore keeps the full platform state in process. It backs tests and
// small single-node deployments; production uses the sqlite store, which
// implements the same Store interface.
type memoryStore struct {
	mu                 sync.RWMutex
	assessments        map[string]*models.Assessment
	responses          []*models.ParticipantResponse
	consultantsByEmail map[string]*models.Consultant
	audit              []models.AuditEntry
	legalBasis         []models.LegalBasisEvent
}

func NewMemoryStore() Store { return newMemoryStore() }

func newMemoryStore() *memoryStore {
	return &memoryStore{
		assessments:        map[string]*models.Assessment{},
		responses:          []*models.ParticipantResponse{},
		consultantsByEmail: map[string]*models.Consultant{},
	}
}

func (s *memoryStore) GetAssessment(id string) (*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assessments[id], nil
}

func (s *memoryStore) SaveAssessment(a *models.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessments[a.ID] = a
	return nil
}

func (s *memoryStore) DeleteAssessment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assessments, id)
	// Responses for the assessment go with it.
	nr := make([]*models.ParticipantResponse, 0, len(s.responses))
	for _, r := range s.responses {
		if r.AssessmentID != id {
			nr = append(nr, r)
		}
	}
	s.responses = nr
	return nil
}

func (s *memoryStore) ListAssessmentsByConsultant(consultantID string) ([]*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Assessment{}
	for _, a := range s.assessments {
		if a.ConsultantID == consultantID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) ListAllAssessments() ([]*models.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Assessment, 0, len(s.assessments))
	for _, a := range s.assessments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) AddParticipantResponse(r *models.ParticipantResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, r)
	return nil
}

func (s *memoryStore) ListParticipantResponses(assessmentID string, role models.ParticipantRole) ([]*models.ParticipantResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ParticipantResponse, 0, len(s.responses))
	for _, r := range s.responses {
		if r.AssessmentID != assessmentID {
			continue
		}
		if role != "" && r.Role != role {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *memoryStore) ListResponsesByParticipant(participantID string) ([]*models.ParticipantResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.ParticipantResponse{}
	for _, r := range s.responses {
		if r.ParticipantID == participantID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memoryStore) DeleteParticipantData(participantID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	nr := make([]*models.ParticipantResponse, 0, len(s.responses))
	for _, r := range s.responses {
		if r.ParticipantID == participantID {
			removed++
			continue
		}
		nr = append(nr, r)
	}
	s.responses = nr
	return removed, nil
}

func (s *memoryStore) AddConsultant(c *models.Consultant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consultantsByEmail[strings.ToLower(c.Email)] = c
	return nil
}

func (s *memoryStore) FindConsultantByEmail(email string) (*models.Consultant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.consultantsByEmail[strings.ToLower(email)], nil
}

func (s *memoryStore) AddAudit(e models.AuditEntry) {
	s.mu.Lock()
	s.audit = append(s.audit, e)
	s.mu.Unlock()
}

func (s *memoryStore) ListAudit() []models.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}

func (s *memoryStore) AddLegalBasisEvent(e models.LegalBasisEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legalBasis = append(s.legalBasis, e)
	return nil
}

func (s *memoryStore) ListLegalBasisEvents(assessmentID string) ([]models.LegalBasisEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.LegalBasisEvent{}
	for _, e := range s.legalBasis {
		if e.AssessmentID == assessmentID {
			out = append(out, e)
		}
	}
	return out, nil
}
