package services

import (
	"sync"
	"time"

	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
)

// Recognized GDPR processing bases for survey data.
const (
	BasisConsent            = "consent"
	BasisLegitimateInterest = "legitimate_interest"
	BasisContract           = "contract"
)

type LegalBasisStore interface {
	AddLegalBasisEvent(e models.LegalBasisEvent) error
	ListLegalBasisEvents(assessmentID string) ([]models.LegalBasisEvent, error)
}

// LegalBasisTracker records the processing basis for every personal-data
// event. It is an explicitly constructed, application-scoped instance rather
// than process-global state, and offers Reset as a teardown hook for tests.
type LegalBasisTracker struct {
	mu    sync.Mutex
	store LegalBasisStore
	now   func() time.Time
}

func NewLegalBasisTracker(store LegalBasisStore) *LegalBasisTracker {
	return &LegalBasisTracker{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Record appends one legal-basis event. An unknown basis is rejected before
// any write.
func (t *LegalBasisTracker) Record(assessmentID, subject, basis, action, note string) error {
	switch basis {
	case BasisConsent, BasisLegitimateInterest, BasisContract:
	default:
		return NewInvalidError("unknown legal basis: " + basis)
	}
	if assessmentID == "" {
		return NewInvalidError("assessment id required")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.AddLegalBasisEvent(models.LegalBasisEvent{
		Time:         t.now(),
		AssessmentID: assessmentID,
		Subject:      subject,
		Basis:        basis,
		Action:       action,
		Note:         note,
	})
}

// Events returns the recorded history for an assessment.
func (t *LegalBasisTracker) Events(assessmentID string) ([]models.LegalBasisEvent, error) {
	if assessmentID == "" {
		return nil, NewInvalidError("assessment id required")
	}
	return t.store.ListLegalBasisEvents(assessmentID)
}

// Reset swaps the backing store, clearing tracker state between tests.
func (t *LegalBasisTracker) Reset(store LegalBasisStore) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.store = store
}
