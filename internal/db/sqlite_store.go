package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/BenInbound/survey-app-v2-sub000/internal/api"
	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
)

// SQLiteStore persists platform state in sqlite. Embedded documents
// (departments, questions, aggregates, answers) are stored as JSON columns:
// the assessment is read and written as a whole record, matching the
// object-store semantics the services are built on.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

var _ api.Store = (*SQLiteStore)(nil)

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON(data sql.NullString, v any) {
	if !data.Valid || strings.TrimSpace(data.String) == "" {
		return
	}
	if err := json.Unmarshal([]byte(data.String), v); err != nil {
		log.Printf("sqlite store: decode json column: %v", err)
	}
}

func (s *SQLiteStore) GetAssessment(id string) (*models.Assessment, error) {
	row := s.db.QueryRow(`SELECT id, organization_name, consultant_id, status, created_at, locked_at,
		access_code, code_expiration, code_regenerated_at,
		departments, questions, department_data, management_aggregates, employee_aggregates
		FROM assessments WHERE id = ?`, id)
	a, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (*models.Assessment, error) {
	var a models.Assessment
	var lockedAt, codeExpiration, codeRegeneratedAt sql.NullTime
	var accessCode, departments, questions, departmentData, mgmtAgg, empAgg sql.NullString
	if err := row.Scan(&a.ID, &a.OrganizationName, &a.ConsultantID, &a.Status, &a.CreatedAt, &lockedAt,
		&accessCode, &codeExpiration, &codeRegeneratedAt,
		&departments, &questions, &departmentData, &mgmtAgg, &empAgg); err != nil {
		return nil, err
	}
	a.AccessCode = accessCode.String
	a.LockedAt = fromNullTime(lockedAt)
	a.CodeExpiration = fromNullTime(codeExpiration)
	a.CodeRegeneratedAt = fromNullTime(codeRegeneratedAt)
	a.Departments = []models.Department{}
	decodeJSON(departments, &a.Departments)
	decodeJSON(questions, &a.Questions)
	decodeJSON(departmentData, &a.DepartmentData)
	decodeJSON(mgmtAgg, &a.ManagementAggregates)
	decodeJSON(empAgg, &a.EmployeeAggregates)
	return &a, nil
}

func (s *SQLiteStore) SaveAssessment(a *models.Assessment) error {
	departments, err := encodeJSON(a.Departments)
	if err != nil {
		return fmt.Errorf("encode departments: %w", err)
	}
	questions, err := encodeJSON(a.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	departmentData, err := encodeJSON(a.DepartmentData)
	if err != nil {
		return fmt.Errorf("encode department data: %w", err)
	}
	mgmtAgg, err := encodeJSON(a.ManagementAggregates)
	if err != nil {
		return fmt.Errorf("encode management aggregates: %w", err)
	}
	empAgg, err := encodeJSON(a.EmployeeAggregates)
	if err != nil {
		return fmt.Errorf("encode employee aggregates: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO assessments
		(id, organization_name, consultant_id, status, created_at, locked_at,
		 access_code, code_expiration, code_regenerated_at,
		 departments, questions, department_data, management_aggregates, employee_aggregates)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		 organization_name = excluded.organization_name,
		 status = excluded.status,
		 locked_at = excluded.locked_at,
		 access_code = excluded.access_code,
		 code_expiration = excluded.code_expiration,
		 code_regenerated_at = excluded.code_regenerated_at,
		 departments = excluded.departments,
		 questions = excluded.questions,
		 department_data = excluded.department_data,
		 management_aggregates = excluded.management_aggregates,
		 employee_aggregates = excluded.employee_aggregates`,
		a.ID, a.OrganizationName, a.ConsultantID, string(a.Status), a.CreatedAt, toNullTime(a.LockedAt),
		toNullString(a.AccessCode), toNullTime(a.CodeExpiration), toNullTime(a.CodeRegeneratedAt),
		departments, questions, departmentData, mgmtAgg, empAgg)
	if err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteAssessment(id string) error {
	if _, err := s.db.Exec(`DELETE FROM participant_responses WHERE assessment_id = ?`, id); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM assessments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAssessmentsByConsultant(consultantID string) ([]*models.Assessment, error) {
	return s.listAssessments(`SELECT id, organization_name, consultant_id, status, created_at, locked_at,
		access_code, code_expiration, code_regenerated_at,
		departments, questions, department_data, management_aggregates, employee_aggregates
		FROM assessments WHERE consultant_id = ? ORDER BY id`, consultantID)
}

func (s *SQLiteStore) ListAllAssessments() ([]*models.Assessment, error) {
	return s.listAssessments(`SELECT id, organization_name, consultant_id, status, created_at, locked_at,
		access_code, code_expiration, code_regenerated_at,
		departments, questions, department_data, management_aggregates, employee_aggregates
		FROM assessments ORDER BY id`)
}

func (s *SQLiteStore) listAssessments(query string, args ...any) ([]*models.Assessment, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()
	out := []*models.Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddParticipantResponse(r *models.ParticipantResponse) error {
	answers, err := encodeJSON(r.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO participant_responses
		(survey_id, participant_id, assessment_id, department_tag, role, answers, current_index, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		toNullString(r.SurveyID), r.ParticipantID, r.AssessmentID, toNullString(r.DepartmentTag),
		string(r.Role), answers, r.CurrentIndex, r.StartedAt, toNullTime(r.CompletedAt))
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListParticipantResponses(assessmentID string, role models.ParticipantRole) ([]*models.ParticipantResponse, error) {
	query := `SELECT survey_id, participant_id, assessment_id, department_tag, role, answers, current_index, started_at, completed_at
		FROM participant_responses WHERE assessment_id = ?`
	args := []any{assessmentID}
	if role != "" {
		query += ` AND role = ?`
		args = append(args, string(role))
	}
	query += ` ORDER BY id`
	return s.listResponses(query, args...)
}

func (s *SQLiteStore) ListResponsesByParticipant(participantID string) ([]*models.ParticipantResponse, error) {
	return s.listResponses(`SELECT survey_id, participant_id, assessment_id, department_tag, role, answers, current_index, started_at, completed_at
		FROM participant_responses WHERE participant_id = ? ORDER BY id`, participantID)
}

func (s *SQLiteStore) listResponses(query string, args ...any) ([]*models.ParticipantResponse, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()
	out := []*models.ParticipantResponse{}
	for rows.Next() {
		var r models.ParticipantResponse
		var surveyID, departmentTag, answers sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(&surveyID, &r.ParticipantID, &r.AssessmentID, &departmentTag, &r.Role,
			&answers, &r.CurrentIndex, &r.StartedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		r.SurveyID = surveyID.String
		r.DepartmentTag = departmentTag.String
		r.CompletedAt = fromNullTime(completedAt)
		decodeJSON(answers, &r.Answers)
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteParticipantData(participantID string) (int, error) {
	res, err := s.db.Exec(`DELETE FROM participant_responses WHERE participant_id = ?`, participantID)
	if err != nil {
		return 0, fmt.Errorf("delete participant data: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) AddConsultant(c *models.Consultant) error {
	_, err := s.db.Exec(`INSERT INTO consultants (id, email, name, pass_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, strings.ToLower(c.Email), toNullString(c.Name), c.PassHash, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert consultant: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindConsultantByEmail(email string) (*models.Consultant, error) {
	row := s.db.QueryRow(`SELECT id, email, name, pass_hash, created_at FROM consultants WHERE email = ?`, strings.ToLower(email))
	var c models.Consultant
	var name sql.NullString
	if err := row.Scan(&c.ID, &c.Email, &name, &c.PassHash, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find consultant: %w", err)
	}
	c.Name = name.String
	return &c, nil
}

func (s *SQLiteStore) AddAudit(e models.AuditEntry) {
	_, err := s.db.Exec(`INSERT INTO audit_log (time, actor, action, target, note) VALUES (?, ?, ?, ?, ?)`,
		e.Time, e.Actor, e.Action, e.Target, toNullString(e.Note))
	if err != nil {
		log.Printf("sqlite store: insert audit: %v", err)
	}
}

func (s *SQLiteStore) ListAudit() []models.AuditEntry {
	rows, err := s.db.Query(`SELECT time, actor, action, target, note FROM audit_log ORDER BY id`)
	if err != nil {
		log.Printf("sqlite store: list audit: %v", err)
		return nil
	}
	defer rows.Close()
	out := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		var note sql.NullString
		if err := rows.Scan(&e.Time, &e.Actor, &e.Action, &e.Target, &note); err != nil {
			log.Printf("sqlite store: scan audit: %v", err)
			return out
		}
		e.Note = note.String
		out = append(out, e)
	}
	return out
}

func (s *SQLiteStore) AddLegalBasisEvent(e models.LegalBasisEvent) error {
	_, err := s.db.Exec(`INSERT INTO legal_basis_events (time, assessment_id, subject, basis, action, note)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Time, e.AssessmentID, toNullString(e.Subject), e.Basis, e.Action, toNullString(e.Note))
	if err != nil {
		return fmt.Errorf("insert legal basis event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListLegalBasisEvents(assessmentID string) ([]models.LegalBasisEvent, error) {
	rows, err := s.db.Query(`SELECT time, assessment_id, subject, basis, action, note
		FROM legal_basis_events WHERE assessment_id = ? ORDER BY id`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list legal basis events: %w", err)
	}
	defer rows.Close()
	out := []models.LegalBasisEvent{}
	for rows.Next() {
		var e models.LegalBasisEvent
		var subject, note sql.NullString
		if err := rows.Scan(&e.Time, &e.AssessmentID, &subject, &e.Basis, &e.Action, &note); err != nil {
			return nil, fmt.Errorf("scan legal basis event: %w", err)
		}
		e.Subject = subject.String
		e.Note = note.String
		out = append(out, e)
	}
	return out, rows.Err()
}
