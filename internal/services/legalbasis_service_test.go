package services

import (
	"testing"
	"time"

	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
)

type stubLegalBasisStore struct {
	events []models.LegalBasisEvent
}

func (s *stubLegalBasisStore) AddLegalBasisEvent(e models.LegalBasisEvent) error {
	s.events = append(s.events, e)
	return nil
}

func (s *stubLegalBasisStore) ListLegalBasisEvents(assessmentID string) ([]models.LegalBasisEvent, error) {
	out := []models.LegalBasisEvent{}
	for _, e := range s.events {
		if e.AssessmentID == assessmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestLegalBasisRecordAndEvents(t *testing.T) {
	store := &stubLegalBasisStore{}
	tracker := NewLegalBasisTracker(store)
	tracker.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	if err := tracker.Record("a1", "p1", BasisConsent, "response_submitted", ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := tracker.Record("a2", "p2", BasisLegitimateInterest, "aggregate_view", ""); err != nil {
		t.Fatalf("Record: %v", err)
	}

	events, err := tracker.Events("a1")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 1 || events[0].Basis != BasisConsent || events[0].Subject != "p1" {
		t.Fatalf("events = %+v, want single consent event for p1", events)
	}
}

func TestLegalBasisRejectsUnknownBasis(t *testing.T) {
	store := &stubLegalBasisStore{}
	tracker := NewLegalBasisTracker(store)

	err := tracker.Record("a1", "p1", "curiosity", "peek", "")
	if errCode(err) != ErrorInvalid {
		t.Fatalf("unknown basis: got %v, want invalid", err)
	}
	if len(store.events) != 0 {
		t.Fatalf("events = %+v, want nothing written on rejection", store.events)
	}
	if err := tracker.Record("", "p1", BasisConsent, "x", ""); errCode(err) != ErrorInvalid {
		t.Fatalf("empty assessment id: got %v, want invalid", err)
	}
}

func TestLegalBasisReset(t *testing.T) {
	first := &stubLegalBasisStore{}
	tracker := NewLegalBasisTracker(first)
	if err := tracker.Record("a1", "p1", BasisContract, "engagement_signed", ""); err != nil {
		t.Fatalf("Record: %v", err)
	}

	second := &stubLegalBasisStore{}
	tracker.Reset(second)
	events, err := tracker.Events("a1")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("events after reset = %+v, want empty", events)
	}
	if len(first.events) != 1 {
		t.Fatalf("original store lost events: %+v", first.events)
	}
}
