package models

import "time"

// AssessmentStatus is the lifecycle state of an assessment. Transitions only
// move forward: collecting -> ready -> locked.
type AssessmentStatus string

const (
	StatusCollecting AssessmentStatus = "collecting"
	StatusReady      AssessmentStatus = "ready"
	StatusLocked     AssessmentStatus = "locked"
)

// ParticipantRole distinguishes the two survey populations being compared.
type ParticipantRole string

const (
	RoleManagement ParticipantRole = "management"
	RoleEmployee   ParticipantRole = "employee"
)

// Department is a named subdivision of the organization with its own pair of
// role-scoped access codes. ID is a URL-safe slug derived from Name.
type Department struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ManagementCode string `json:"management_code"`
	EmployeeCode   string `json:"employee_code"`
}

// Question is a Likert item shown to both populations.
type Question struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
	Order    int    `json:"order"`
}

// Answer holds one score for one question. Score is nil when the participant
// skipped the question.
type Answer struct {
	QuestionID string `json:"question_id"`
	Score      *int   `json:"score"`
}

// ParticipantResponse is a single participant submission. Records are
// append-only; a later submission by the same participant is a new record.
type ParticipantResponse struct {
	SurveyID      string `json:"survey_id"`
	ParticipantID string `json:"participant_id"`
	// DepartmentTag is free text as carried by the survey client. It may be a
	// department slug, a truncated code fragment, or a legacy value.
	DepartmentTag string          `json:"department_tag,omitempty"`
	Answers       []Answer        `json:"answers"`
	CurrentIndex  int             `json:"current_index"`
	StartedAt     time.Time       `json:"started_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	Role          ParticipantRole `json:"role"`
	AssessmentID  string          `json:"assessment_id"`
}

// CategoryAverage is the mean score for one question category.
type CategoryAverage struct {
	Category  string  `json:"category"`
	Average   float64 `json:"average"`
	Responses int     `json:"responses"`
}

// AggregatedResponses is derived from a response list and never stored as
// source-of-truth: it is recomputed from scratch on every write.
type AggregatedResponses struct {
	CategoryAverages []CategoryAverage `json:"category_averages"`
	OverallAverage   float64           `json:"overall_average"`
	ResponseCount    int               `json:"response_count"`
}

type GapDirection string

const (
	GapPositive GapDirection = "positive"
	GapNegative GapDirection = "negative"
	GapNeutral  GapDirection = "neutral"
)

type GapSignificance string

const (
	SignificanceHigh   GapSignificance = "high"
	SignificanceMedium GapSignificance = "medium"
	SignificanceLow    GapSignificance = "low"
)

// CategoryGap is the signed management-minus-employee difference for one
// category, with a coarse significance classification.
type CategoryGap struct {
	Category        string          `json:"category"`
	ManagementScore float64         `json:"management_score"`
	EmployeeScore   float64         `json:"employee_score"`
	Gap             float64         `json:"gap"`
	Direction       GapDirection    `json:"direction"`
	Significance    GapSignificance `json:"significance"`
}

// AggregatedDepartmentData is the per-department comparison view assembled on
// every new response.
type AggregatedDepartmentData struct {
	DepartmentID            string              `json:"department_id"`
	DepartmentName          string              `json:"department_name"`
	Management              AggregatedResponses `json:"management"`
	Employee                AggregatedResponses `json:"employee"`
	ManagementResponseCount int                 `json:"management_response_count"`
	EmployeeResponseCount   int                 `json:"employee_response_count"`
	Gaps                    []CategoryGap       `json:"gaps"`
}

// Assessment is one organization's survey instance, owned by the consultant
// who created it and mutated only through the assessment service.
type Assessment struct {
	ID               string           `json:"id"`
	OrganizationName string           `json:"organization_name"`
	ConsultantID     string           `json:"consultant_id"`
	Status           AssessmentStatus `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	LockedAt         *time.Time       `json:"locked_at,omitempty"`

	// AccessCode is the legacy organization-wide code, pre-dating
	// department-scoped codes. Kept for backward compatibility.
	AccessCode        string     `json:"access_code"`
	CodeExpiration    *time.Time `json:"code_expiration,omitempty"`
	CodeRegeneratedAt *time.Time `json:"code_regenerated_at,omitempty"`

	Departments []Department `json:"departments"`
	Questions   []Question   `json:"questions"`

	DepartmentData []AggregatedDepartmentData `json:"department_data"`
	// Legacy org-wide aggregates, retained alongside the department split.
	ManagementAggregates AggregatedResponses `json:"management_aggregates"`
	EmployeeAggregates   AggregatedResponses `json:"employee_aggregates"`
}

// Consultant is an authenticated platform user who owns assessments.
type Consultant struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditEntry records a mutating consultant action.
type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}

// LegalBasisEvent documents the GDPR processing basis under which personal
// data was collected or removed.
type LegalBasisEvent struct {
	Time         time.Time `json:"time"`
	AssessmentID string    `json:"assessment_id"`
	Subject      string    `json:"subject"`
	Basis        string    `json:"basis"`
	Action       string    `json:"action"`
	Note         string    `json:"note,omitempty"`
}
