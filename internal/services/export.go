package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
)

// ExportResponsesLongCSV renders one row per answer in long format. Skipped
// answers keep an empty score cell so analysts can distinguish "skipped"
// from "scored zero".
func ExportResponsesLongCSV(responses []*models.ParticipantResponse) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"participant_id", "role", "department_tag", "question_id", "score", "completed_at"})
	for _, r := range responses {
		completed := ""
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format(time.RFC3339)
		}
		for _, ans := range r.Answers {
			score := ""
			if ans.Score != nil {
				score = strconv.Itoa(*ans.Score)
			}
			rec := []string{r.ParticipantID, string(r.Role), r.DepartmentTag, ans.QuestionID, score, completed}
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportDepartmentGapsCSV renders the per-department perception gaps, one row
// per (department, category).
func ExportDepartmentGapsCSV(data []models.AggregatedDepartmentData) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{
		"department_id", "department_name", "category",
		"management_avg", "employee_avg", "gap", "direction", "significance",
	})
	for _, dept := range data {
		for _, g := range dept.Gaps {
			rec := []string{
				dept.DepartmentID,
				dept.DepartmentName,
				g.Category,
				ftoa(g.ManagementScore),
				ftoa(g.EmployeeScore),
				ftoa(g.Gap),
				string(g.Direction),
				string(g.Significance),
			}
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
