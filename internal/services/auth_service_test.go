package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
)

type stubAuthStore struct {
	consultants map[string]*models.Consultant
}

func (s *stubAuthStore) FindConsultantByEmail(email string) (*models.Consultant, error) {
	return s.consultants[email], nil
}

func (s *stubAuthStore) AddConsultant(c *models.Consultant) error {
	s.consultants[c.Email] = c
	return nil
}

func newTestAuthService(store *stubAuthStore) *AuthService {
	svc := NewAuthService(store, func(consultantID, email string, ttl time.Duration) (string, error) {
		return fmt.Sprintf("token-%s-%s", consultantID, email), nil
	})
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	counter := 0
	svc.idGen = func(prefix string, n int) string {
		counter++
		return fmt.Sprintf("%s%0*d", prefix, n, counter)
	}
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	store := &stubAuthStore{consultants: map[string]*models.Consultant{}}
	svc := newTestAuthService(store)

	res, err := svc.Register("jane@example.com", "secret123", "Jane")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.ConsultantID == "" || !strings.HasPrefix(res.Token, "token-") {
		t.Fatalf("result = %+v, want id and token", res)
	}
	stored := store.consultants["jane@example.com"]
	if stored == nil {
		t.Fatal("consultant not persisted")
	}
	if err := bcrypt.CompareHashAndPassword(stored.PassHash, []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}

	login, err := svc.Login("jane@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.ConsultantID != res.ConsultantID {
		t.Fatalf("login id = %s, want %s", login.ConsultantID, res.ConsultantID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := &stubAuthStore{consultants: map[string]*models.Consultant{}}
	svc := newTestAuthService(store)

	if _, err := svc.Register("jane@example.com", "secret123", "Jane"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register("jane@example.com", "other", "Jane Again")
	if errCode(err) != ErrorConflict {
		t.Fatalf("duplicate register: got %v, want conflict", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(&stubAuthStore{consultants: map[string]*models.Consultant{}})
	if _, err := svc.Register("", "secret", "x"); errCode(err) != ErrorInvalid {
		t.Fatalf("empty email: got %v, want invalid", err)
	}
	if _, err := svc.Register("jane@example.com", "  ", "x"); errCode(err) != ErrorInvalid {
		t.Fatalf("blank password: got %v, want invalid", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := &stubAuthStore{consultants: map[string]*models.Consultant{}}
	svc := newTestAuthService(store)
	if _, err := svc.Register("jane@example.com", "secret123", "Jane"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login("jane@example.com", "wrong"); errCode(err) != ErrorUnauthorized {
		t.Fatalf("wrong password: got %v, want unauthorized", err)
	}
	// Unknown email gets the same answer as a wrong password.
	if _, err := svc.Login("nobody@example.com", "secret123"); errCode(err) != ErrorUnauthorized {
		t.Fatalf("unknown email: got %v, want unauthorized", err)
	}
}
