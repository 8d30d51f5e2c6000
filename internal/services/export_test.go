package services

import (
	"strings"
	"testing"
	"time"

	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
)

func TestExportResponsesLongCSV(t *testing.T) {
	completed := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	responses := []*models.ParticipantResponse{
		{
			ParticipantID: "p1",
			Role:          models.RoleManagement,
			DepartmentTag: "sales",
			CompletedAt:   &completed,
			Answers: []models.Answer{
				{QuestionID: "vision-clarity", Score: intPtr(8)},
				{QuestionID: "empowerment", Score: nil}, // skipped, empty cell
			},
		},
		{
			ParticipantID: "p2",
			Role:          models.RoleEmployee,
			Answers:       []models.Answer{{QuestionID: "vision-clarity", Score: intPtr(5)}},
		},
	}

	out, err := ExportResponsesLongCSV(responses)
	if err != nil {
		t.Fatalf("ExportResponsesLongCSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	want := []string{
		"participant_id,role,department_tag,question_id,score,completed_at",
		"p1,management,sales,vision-clarity,8,2025-06-01T12:30:00Z",
		"p1,management,sales,empowerment,,2025-06-01T12:30:00Z",
		"p2,employee,,vision-clarity,5,",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %d rows", lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestExportDepartmentGapsCSV(t *testing.T) {
	data := []models.AggregatedDepartmentData{
		{
			DepartmentID:   "sales",
			DepartmentName: "Sales",
			Gaps: []models.CategoryGap{
				{
					Category:        "Vision & Strategy",
					ManagementScore: 8.5,
					EmployeeScore:   5,
					Gap:             3.5,
					Direction:       models.GapPositive,
					Significance:    models.SignificanceHigh,
				},
			},
		},
	}

	out, err := ExportDepartmentGapsCSV(data)
	if err != nil {
		t.Fatalf("ExportDepartmentGapsCSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q, want header plus one row", lines)
	}
	if lines[1] != `sales,Sales,Vision & Strategy,8.5,5,3.5,positive,high` {
		t.Fatalf("row = %q", lines[1])
	}
}

func TestExportEmptyInputsYieldHeaderOnly(t *testing.T) {
	out, err := ExportResponsesLongCSV(nil)
	if err != nil {
		t.Fatalf("ExportResponsesLongCSV: %v", err)
	}
	if got := strings.TrimRight(string(out), "\n"); got != "participant_id,role,department_tag,question_id,score,completed_at" {
		t.Fatalf("empty export = %q, want header only", got)
	}
}
