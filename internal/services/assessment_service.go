package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
)

// AssessmentStore abstracts the persistence operations the assessment
// workflow needs. The store has whole-record read/write semantics: the
// service reads the full assessment, recomputes, and writes it back.
type AssessmentStore interface {
	GetAssessment(id string) (*models.Assessment, error)
	SaveAssessment(a *models.Assessment) error
	DeleteAssessment(id string) error
	ListAssessmentsByConsultant(consultantID string) ([]*models.Assessment, error)
	ListAllAssessments() ([]*models.Assessment, error)
	AddParticipantResponse(r *models.ParticipantResponse) error
	ListParticipantResponses(assessmentID string, role models.ParticipantRole) ([]*models.ParticipantResponse, error)
	AddAudit(entry models.AuditEntry)
}

// AssessmentService is the only writer of persisted assessment state. Every
// new response triggers a full recompute of role and department aggregates;
// nothing is patched incrementally. Two concurrent writers on the same
// assessment can race (lost update); accepted limitation of the whole-record
// model, matching a request-per-action backend.
type AssessmentService struct {
	store AssessmentStore
	codes *CodeGenerator
	now   func() time.Time
	idGen func(prefix string, n int) string
}

// CodeValidation is the combined parse + lookup result for a typed code.
// Lookup misses produce Valid:false with an empty AssessmentID, never an
// error, so the survey entry flow can always render a response.
type CodeValidation struct {
	Valid        bool                   `json:"valid"`
	AssessmentID string                 `json:"assessment_id,omitempty"`
	Role         models.ParticipantRole `json:"role,omitempty"`
	DepartmentID string                 `json:"department_id,omitempty"`
	Legacy       bool                   `json:"legacy,omitempty"`
}

const legacyCodeTTL = 30 * 24 * time.Hour

var statusRank = map[models.AssessmentStatus]int{
	models.StatusCollecting: 0,
	models.StatusReady:      1,
	models.StatusLocked:     2,
}

func NewAssessmentService(store AssessmentStore) *AssessmentService {
	return &AssessmentService{
		store: store,
		codes: NewCodeGenerator(),
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func(prefix string, n int) string { return prefix + shortID(n) },
	}
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// CreateAssessment sets up a survey instance for an organization with the
// default question set, a legacy access code, and optional initial
// departments.
func (s *AssessmentService) CreateAssessment(consultantID, orgName string, departmentNames []string) (*models.Assessment, error) {
	if consultantID == "" {
		return nil, NewUnauthorizedError("unauthorized")
	}
	if strings.TrimSpace(orgName) == "" {
		return nil, NewInvalidError("Organization name is required")
	}
	now := s.now()
	expiration := now.Add(legacyCodeTTL)
	a := &models.Assessment{
		ID:               s.idGen("a", 11),
		OrganizationName: strings.TrimSpace(orgName),
		ConsultantID:     consultantID,
		Status:           models.StatusCollecting,
		CreatedAt:        now,
		AccessCode:       s.codes.LegacyCode(orgName),
		CodeExpiration:   &expiration,
		Questions:        DefaultQuestions(),
		Departments:      []models.Department{},
	}
	for _, name := range departmentNames {
		dept, err := s.buildDepartment(a, name)
		if err != nil {
			return nil, err
		}
		a.Departments = append(a.Departments, *dept)
	}
	if err := s.store.SaveAssessment(a); err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}
	s.store.AddAudit(models.AuditEntry{Time: now, Actor: consultantID, Action: "create_assessment", Target: a.ID, Note: a.OrganizationName})
	return a, nil
}

// GetAssessment loads an assessment and enforces consultant ownership.
func (s *AssessmentService) GetAssessment(consultantID, assessmentID string) (*models.Assessment, error) {
	a, err := s.store.GetAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NewNotFoundError("assessment not found")
	}
	if a.ConsultantID != consultantID {
		return nil, NewForbiddenError("forbidden")
	}
	return a, nil
}

// ListAssessments returns all assessments owned by the consultant.
func (s *AssessmentService) ListAssessments(consultantID string) ([]*models.Assessment, error) {
	if consultantID == "" {
		return nil, NewUnauthorizedError("unauthorized")
	}
	return s.store.ListAssessmentsByConsultant(consultantID)
}

// DeleteAssessment removes an assessment after an ownership check.
func (s *AssessmentService) DeleteAssessment(consultantID, assessmentID string) error {
	if _, err := s.GetAssessment(consultantID, assessmentID); err != nil {
		return err
	}
	if err := s.store.DeleteAssessment(assessmentID); err != nil {
		return err
	}
	s.store.AddAudit(models.AuditEntry{Time: s.now(), Actor: consultantID, Action: "delete_assessment", Target: assessmentID})
	return nil
}

// AddDepartment validates and appends a department, generating a fresh code
// pair. Validation happens before any write, so failures never leave partial
// state behind.
func (s *AssessmentService) AddDepartment(consultantID, assessmentID, name string) (*models.Department, error) {
	a, err := s.GetAssessment(consultantID, assessmentID)
	if err != nil {
		return nil, err
	}
	dept, err := s.buildDepartment(a, name)
	if err != nil {
		return nil, err
	}
	a.Departments = append(a.Departments, *dept)
	if err := s.store.SaveAssessment(a); err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}
	s.store.AddAudit(models.AuditEntry{Time: s.now(), Actor: consultantID, Action: "add_department", Target: assessmentID, Note: dept.ID})
	return dept, nil
}

func (s *AssessmentService) buildDepartment(a *models.Assessment, name string) (*models.Department, error) {
	if a.Status == models.StatusLocked {
		return nil, NewInvalidError("Cannot add department to locked assessment")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, NewInvalidError("Department name is required")
	}
	for _, existing := range a.Departments {
		if strings.EqualFold(existing.Name, trimmed) {
			return nil, NewConflictError(fmt.Sprintf("Department %q already exists in this assessment", trimmed))
		}
	}
	id := Slugify(trimmed)
	return &models.Department{
		ID:             id,
		Name:           trimmed,
		ManagementCode: s.codes.DepartmentCode(a.OrganizationName, models.RoleManagement, id),
		EmployeeCode:   s.codes.DepartmentCode(a.OrganizationName, models.RoleEmployee, id),
	}, nil
}

// AddParticipantResponse appends a submission and recomputes every derived
// aggregate for the assessment. Responses are immutable once appended.
func (s *AssessmentService) AddParticipantResponse(assessmentID string, resp *models.ParticipantResponse) error {
	if resp == nil {
		return NewInvalidError("response required")
	}
	if resp.Role != models.RoleManagement && resp.Role != models.RoleEmployee {
		return NewInvalidError("role must be management or employee")
	}
	a, err := s.store.GetAssessment(assessmentID)
	if err != nil {
		return err
	}
	if a == nil {
		return NewNotFoundError("assessment not found")
	}
	resp.AssessmentID = assessmentID
	if resp.ParticipantID == "" {
		resp.ParticipantID = s.idGen("p", 11)
	}
	if resp.StartedAt.IsZero() {
		resp.StartedAt = s.now()
	}
	if err := s.store.AddParticipantResponse(resp); err != nil {
		return fmt.Errorf("persist response: %w", err)
	}
	return s.UpdateAggregatedData(assessmentID)
}

// UpdateAggregatedData rebuilds role-level and department-level aggregates
// from the full response history and writes the whole assessment back. This
// is always a from-scratch recompute, never an incremental merge.
func (s *AssessmentService) UpdateAggregatedData(assessmentID string) error {
	a, err := s.store.GetAssessment(assessmentID)
	if err != nil {
		return err
	}
	if a == nil {
		return NewNotFoundError("assessment not found")
	}
	all, err := s.store.ListParticipantResponses(assessmentID, "")
	if err != nil {
		return fmt.Errorf("list responses: %w", err)
	}

	management := filterByRole(all, models.RoleManagement)
	employees := filterByRole(all, models.RoleEmployee)
	a.ManagementAggregates = AggregateResponses(management)
	a.EmployeeAggregates = AggregateResponses(employees)

	a.DepartmentData = make([]models.AggregatedDepartmentData, 0, len(a.Departments))
	for _, dept := range a.Departments {
		mgmt := filterByDepartment(management, dept.ID, a.Departments)
		emp := filterByDepartment(employees, dept.ID, a.Departments)
		mgmtAgg := AggregateResponses(mgmt)
		empAgg := AggregateResponses(emp)
		a.DepartmentData = append(a.DepartmentData, models.AggregatedDepartmentData{
			DepartmentID:            dept.ID,
			DepartmentName:          dept.Name,
			Management:              mgmtAgg,
			Employee:                empAgg,
			ManagementResponseCount: len(mgmt),
			EmployeeResponseCount:   len(emp),
			Gaps:                    AnalyzeGaps(mgmtAgg, empAgg),
		})
	}
	if err := s.store.SaveAssessment(a); err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}
	return nil
}

func filterByRole(responses []*models.ParticipantResponse, role models.ParticipantRole) []*models.ParticipantResponse {
	out := make([]*models.ParticipantResponse, 0, len(responses))
	for _, r := range responses {
		if r.Role == role {
			out = append(out, r)
		}
	}
	return out
}

func filterByDepartment(responses []*models.ParticipantResponse, deptID string, departments []models.Department) []*models.ParticipantResponse {
	out := make([]*models.ParticipantResponse, 0, len(responses))
	for _, r := range responses {
		if m := MatchDepartment(r.DepartmentTag, departments); m.Department != nil && m.Department.ID == deptID {
			out = append(out, r)
		}
	}
	return out
}

// RegenerateAccessCode replaces the legacy code with a fresh one and extends
// its expiration. The timestampless legacy format can collide with the old
// value, so generation retries once to guarantee a different code.
func (s *AssessmentService) RegenerateAccessCode(consultantID, assessmentID string) (string, error) {
	a, err := s.GetAssessment(consultantID, assessmentID)
	if err != nil {
		return "", err
	}
	if a.Status == models.StatusLocked {
		return "", NewInvalidError("Cannot regenerate codes for locked assessment")
	}
	code := s.codes.LegacyCode(a.OrganizationName)
	if code == a.AccessCode {
		code = s.codes.LegacyCode(a.OrganizationName)
	}
	now := s.now()
	expiration := now.Add(legacyCodeTTL)
	a.AccessCode = code
	a.CodeExpiration = &expiration
	a.CodeRegeneratedAt = &now
	if err := s.store.SaveAssessment(a); err != nil {
		return "", fmt.Errorf("save assessment: %w", err)
	}
	s.store.AddAudit(models.AuditEntry{Time: now, Actor: consultantID, Action: "regenerate_access_code", Target: assessmentID})
	return code, nil
}

// RegenerateDepartmentAccessCodes rotates the code pair of every department.
// The millisecond suffix makes a repeat statistically negligible but not
// impossible, so each generation retries once when it matches the old value.
func (s *AssessmentService) RegenerateDepartmentAccessCodes(consultantID, assessmentID string) error {
	a, err := s.GetAssessment(consultantID, assessmentID)
	if err != nil {
		return err
	}
	if a.Status == models.StatusLocked {
		return NewInvalidError("Cannot regenerate codes for locked assessment")
	}
	for i := range a.Departments {
		dept := &a.Departments[i]
		dept.ManagementCode = s.regenerateCode(a.OrganizationName, models.RoleManagement, dept.ID, dept.ManagementCode)
		dept.EmployeeCode = s.regenerateCode(a.OrganizationName, models.RoleEmployee, dept.ID, dept.EmployeeCode)
	}
	if err := s.store.SaveAssessment(a); err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}
	s.store.AddAudit(models.AuditEntry{Time: s.now(), Actor: consultantID, Action: "regenerate_department_codes", Target: assessmentID})
	return nil
}

func (s *AssessmentService) regenerateCode(orgName string, role models.ParticipantRole, deptID, old string) string {
	code := s.codes.DepartmentCode(orgName, role, deptID)
	if code == old {
		code = s.codes.DepartmentCode(orgName, role, deptID)
	}
	return code
}

// UpdateAssessmentStatus advances the lifecycle. Transitions only move
// forward; locking also stamps LockedAt and expires the legacy code at that
// instant, so every later validation against this assessment fails.
func (s *AssessmentService) UpdateAssessmentStatus(consultantID, assessmentID string, status models.AssessmentStatus) error {
	rank, ok := statusRank[status]
	if !ok {
		return NewInvalidError("unknown assessment status")
	}
	a, err := s.GetAssessment(consultantID, assessmentID)
	if err != nil {
		return err
	}
	if rank < statusRank[a.Status] {
		return NewInvalidError(fmt.Sprintf("cannot move assessment from %s back to %s", a.Status, status))
	}
	now := s.now()
	a.Status = status
	if status == models.StatusLocked {
		a.LockedAt = &now
		a.CodeExpiration = &now
	}
	if err := s.store.SaveAssessment(a); err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}
	s.store.AddAudit(models.AuditEntry{Time: now, Actor: consultantID, Action: "update_status", Target: assessmentID, Note: string(status)})
	return nil
}

// LockAssessmentAndExpireCode is the terminal transition: no department may
// be added afterwards and all codes stop validating immediately.
func (s *AssessmentService) LockAssessmentAndExpireCode(consultantID, assessmentID string) error {
	return s.UpdateAssessmentStatus(consultantID, assessmentID, models.StatusLocked)
}

// ValidateAccessCode resolves a typed code to an assessment. The original
// typed code is compared against stored code strings, never the lossy
// reconstructed org name. A code is valid only while its assessment is
// unlocked and, for legacy codes, any stored expiration is in the future.
func (s *AssessmentService) ValidateAccessCode(code string) (*CodeValidation, error) {
	parsed := ParseAccessCode(code)
	if !parsed.Valid {
		return &CodeValidation{Valid: false}, nil
	}
	normalized := strings.ToUpper(strings.TrimSpace(code))
	assessments, err := s.store.ListAllAssessments()
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	for _, a := range assessments {
		for _, dept := range a.Departments {
			role, matched := matchDepartmentCode(normalized, dept)
			if !matched {
				continue
			}
			if a.Status == models.StatusLocked {
				return &CodeValidation{Valid: false}, nil
			}
			return &CodeValidation{Valid: true, AssessmentID: a.ID, Role: role, DepartmentID: dept.ID}, nil
		}
		if a.AccessCode != "" && normalized == strings.ToUpper(a.AccessCode) {
			if a.Status == models.StatusLocked {
				return &CodeValidation{Valid: false}, nil
			}
			if a.CodeExpiration != nil && !a.CodeExpiration.After(s.now()) {
				return &CodeValidation{Valid: false}, nil
			}
			return &CodeValidation{Valid: true, AssessmentID: a.ID, Legacy: true}, nil
		}
	}
	return &CodeValidation{Valid: false}, nil
}

func matchDepartmentCode(normalized string, dept models.Department) (models.ParticipantRole, bool) {
	switch normalized {
	case strings.ToUpper(dept.ManagementCode):
		return models.RoleManagement, dept.ManagementCode != ""
	case strings.ToUpper(dept.EmployeeCode):
		return models.RoleEmployee, dept.EmployeeCode != ""
	}
	return "", false
}
