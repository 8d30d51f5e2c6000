package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/BenInbound/survey-app-v2-sub000/internal/middleware"
	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
	"github.com/BenInbound/survey-app-v2-sub000/internal/services"
)

type Router struct {
	store       Store
	auth        *services.AuthService
	assessments *services.AssessmentService
	privacy     *services.PrivacyService
	legalBasis  *services.LegalBasisTracker
}

func NewRouter(store Store) *Router {
	assessments := services.NewAssessmentService(store)
	return &Router{
		store:       store,
		auth:        services.NewAuthService(store, middleware.SignToken),
		assessments: assessments,
		privacy:     services.NewPrivacyService(store, assessments),
		legalBasis:  services.NewLegalBasisTracker(store),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", rt.handleRegister)     // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)           // POST
	mux.HandleFunc("/api/assessments", rt.handleAssessments)    // GET list, POST create
	mux.HandleFunc("/api/assessments/", rt.handleAssessmentScoped)
	mux.HandleFunc("/api/codes/validate", rt.handleValidateCode) // POST
	mux.HandleFunc("/api/surveys/", rt.handleSurveyScoped)       // GET {code}/questions
	mux.HandleFunc("/api/responses", rt.handleSubmitResponse)    // POST
	mux.HandleFunc("/api/privacy/export", rt.handlePrivacyExport)
	mux.HandleFunc("/api/privacy/data", rt.handlePrivacyDelete)
	mux.HandleFunc("/api/audit", rt.handleAudit) // GET
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusBadRequest
		switch se.Code {
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorConflict:
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": se.Message})
		return
	}
	log.Printf("api: internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func (rt *Router) consultantID(w http.ResponseWriter, r *http.Request) (string, bool) {
	cid, ok := middleware.ConsultantIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return "", false
	}
	return cid, true
}

// POST /api/auth/register
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Register(req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": res.Token, "consultant_id": res.ConsultantID})
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": res.Token, "consultant_id": res.ConsultantID})
}

// GET/POST /api/assessments
func (rt *Router) handleAssessments(w http.ResponseWriter, r *http.Request) {
	cid, ok := rt.consultantID(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		list, err := rt.assessments.ListAssessments(cid)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		var req struct {
			OrganizationName string   `json:"organization_name"`
			Departments      []string `json:"departments"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		a, err := rt.assessments.CreateAssessment(cid, req.OrganizationName, req.Departments)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAssessmentScoped dispatches /api/assessments/{id}[/...] operations.
func (rt *Router) handleAssessmentScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/assessments/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]
	cid, ok := rt.consultantID(w, r)
	if !ok {
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			a, err := rt.assessments.GetAssessment(cid, id)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, a)
		case http.MethodDelete:
			if err := rt.assessments.DeleteAssessment(cid, id); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch parts[1] {
	case "departments":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		dept, err := rt.assessments.AddDepartment(cid, id, req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dept)
	case "codes":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := rt.assessments.RegenerateDepartmentAccessCodes(cid, id); err != nil {
			writeError(w, err)
			return
		}
		a, err := rt.assessments.GetAssessment(cid, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a.Departments)
	case "access-code":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		code, err := rt.assessments.RegenerateAccessCode(cid, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_code": code})
	case "status":
		if r.Method != http.MethodPut && r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Status models.AssessmentStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := rt.assessments.UpdateAssessmentStatus(cid, id, req.Status); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	case "summary":
		a, err := rt.assessments.GetAssessment(cid, id)
		if err != nil {
			writeError(w, err)
			return
		}
		responses, err := rt.store.ListParticipantResponses(id, "")
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, services.BuildHealthSummary(a, responses))
	case "export":
		rt.handleExport(w, r, cid, id)
	case "legal-basis":
		if _, err := rt.assessments.GetAssessment(cid, id); err != nil {
			writeError(w, err)
			return
		}
		events, err := rt.legalBasis.Events(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	default:
		http.NotFound(w, r)
	}
}

// GET /api/assessments/{id}/export?format=gaps|responses
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request, cid, id string) {
	a, err := rt.assessments.GetAssessment(cid, id)
	if err != nil {
		writeError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "gaps"
	}
	var b []byte
	var name string
	switch format {
	case "gaps":
		b, err = services.ExportDepartmentGapsCSV(a.DepartmentData)
		name = "gaps.csv"
	case "responses":
		responses, lerr := rt.store.ListParticipantResponses(id, "")
		if lerr != nil {
			writeError(w, lerr)
			return
		}
		b, err = services.ExportResponsesLongCSV(responses)
		name = "responses.csv"
	default:
		http.Error(w, "unsupported format", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+name)
	_, _ = w.Write(b)
}

// POST /api/codes/validate (public): survey entry checks a typed code.
func (rt *Router) handleValidateCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, err := rt.assessments.ValidateAccessCode(req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// GET /api/surveys/{code}/questions (public): resolves a code to its survey.
func (rt *Router) handleSurveyScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/surveys/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[1] != "questions" {
		http.NotFound(w, r)
		return
	}
	v, err := rt.assessments.ValidateAccessCode(parts[0])
	if err != nil {
		writeError(w, err)
		return
	}
	if !v.Valid {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid or expired access code"})
		return
	}
	a, err := rt.store.GetAssessment(v.AssessmentID)
	if err != nil || a == nil {
		writeError(w, services.NewNotFoundError("assessment not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"assessment_id":     a.ID,
		"organization_name": a.OrganizationName,
		"role":              v.Role,
		"department_id":     v.DepartmentID,
		"questions":         a.Questions,
	})
}

// POST /api/responses (public): a participant submits their answers under a
// valid access code.
func (rt *Router) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Code          string                 `json:"code"`
		SurveyID      string                 `json:"survey_id"`
		ParticipantID string                 `json:"participant_id"`
		Department    string                 `json:"department"`
		Role          models.ParticipantRole `json:"role"`
		Answers       []models.Answer        `json:"answers"`
		CurrentIndex  int                    `json:"current_index"`
		Completed     bool                   `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, err := rt.assessments.ValidateAccessCode(req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	if !v.Valid {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid or expired access code"})
		return
	}

	role := v.Role
	if role == "" {
		// Legacy codes carry no role; the client supplies it.
		role = req.Role
	}
	tag := req.Department
	if tag == "" {
		tag = v.DepartmentID
	}
	resp := &models.ParticipantResponse{
		SurveyID:      req.SurveyID,
		ParticipantID: req.ParticipantID,
		DepartmentTag: tag,
		Answers:       req.Answers,
		CurrentIndex:  req.CurrentIndex,
		Role:          role,
		StartedAt:     time.Now().UTC(),
	}
	if req.Completed {
		now := time.Now().UTC()
		resp.CompletedAt = &now
	}
	if err := rt.assessments.AddParticipantResponse(v.AssessmentID, resp); err != nil {
		writeError(w, err)
		return
	}
	if err := rt.legalBasis.Record(v.AssessmentID, resp.ParticipantID, services.BasisConsent, "response_submitted", string(role)); err != nil {
		log.Printf("api: record legal basis: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "participant_id": resp.ParticipantID})
}

// GET /api/privacy/export?participant_id=...
func (rt *Router) handlePrivacyExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	responses, err := rt.privacy.ExportParticipantData(r.URL.Query().Get("participant_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, responses)
}

// DELETE /api/privacy/data?participant_id=...
func (rt *Router) handlePrivacyDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	removed, err := rt.privacy.DeleteParticipantData(r.URL.Query().Get("participant_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "removed": removed})
}

// GET /api/audit: consultant-visible action log.
func (rt *Router) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := rt.consultantID(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, rt.store.ListAudit())
}
