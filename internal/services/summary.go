package services

import (
	"sort"

	"github.com/BenInbound/survey-app-v2-sub000/internal/models"
)

// DepartmentRanking positions one department in the organizational health
// view. AlignmentScore is 10 minus the mean absolute perception gap, clamped
// to [0, 10]: smaller gaps mean better alignment.
type DepartmentRanking struct {
	DepartmentID   string  `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	AlignmentScore float64 `json:"alignment_score"`
	AverageAbsGap  float64 `json:"average_abs_gap"`
	TotalResponses int     `json:"total_responses"`
	Rank           int     `json:"rank"`
}

// HealthSummary is the consultant-facing rollup of an assessment: department
// rankings plus per-role response consistency. It is a pure transform of the
// stored aggregates and response history.
type HealthSummary struct {
	AssessmentID          string              `json:"assessment_id"`
	OverallAlignment      float64             `json:"overall_alignment"`
	Rankings              []DepartmentRanking `json:"rankings"`
	ManagementConsistency float64             `json:"management_consistency"`
	EmployeeConsistency   float64             `json:"employee_consistency"`
	TotalResponses        int                 `json:"total_responses"`
}

// BuildHealthSummary derives the organizational health view from an
// assessment's current aggregates and full response history.
func BuildHealthSummary(a *models.Assessment, responses []*models.ParticipantResponse) HealthSummary {
	summary := HealthSummary{AssessmentID: a.ID, TotalResponses: len(responses)}

	rankings := make([]DepartmentRanking, 0, len(a.DepartmentData))
	for _, dept := range a.DepartmentData {
		avgAbs := 0.0
		if len(dept.Gaps) > 0 {
			for _, g := range dept.Gaps {
				if g.Gap < 0 {
					avgAbs -= g.Gap
				} else {
					avgAbs += g.Gap
				}
			}
			avgAbs /= float64(len(dept.Gaps))
		}
		score := 10 - avgAbs
		if score < 0 {
			score = 0
		}
		rankings = append(rankings, DepartmentRanking{
			DepartmentID:   dept.DepartmentID,
			DepartmentName: dept.DepartmentName,
			AlignmentScore: score,
			AverageAbsGap:  avgAbs,
			TotalResponses: dept.ManagementResponseCount + dept.EmployeeResponseCount,
		})
	}
	sort.SliceStable(rankings, func(i, j int) bool { return rankings[i].AlignmentScore > rankings[j].AlignmentScore })
	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	summary.Rankings = rankings

	if len(rankings) > 0 {
		var total float64
		for _, r := range rankings {
			total += r.AlignmentScore
		}
		summary.OverallAlignment = total / float64(len(rankings))
	}

	questionIDs := make([]string, 0, len(a.Questions))
	for _, q := range a.Questions {
		questionIDs = append(questionIDs, q.ID)
	}
	summary.ManagementConsistency = ConsistencyAlpha(buildScoreMatrix(filterByRole(responses, models.RoleManagement), questionIDs))
	summary.EmployeeConsistency = ConsistencyAlpha(buildScoreMatrix(filterByRole(responses, models.RoleEmployee), questionIDs))
	return summary
}

// buildScoreMatrix shapes responses into [participants][questions], keeping
// only submissions that scored every question, which is what the consistency
// statistic requires.
func buildScoreMatrix(responses []*models.ParticipantResponse, questionIDs []string) [][]float64 {
	matrix := make([][]float64, 0, len(responses))
	for _, resp := range responses {
		scores := make(map[string]float64, len(resp.Answers))
		for _, ans := range resp.Answers {
			if ans.Score != nil {
				scores[ans.QuestionID] = float64(*ans.Score)
			}
		}
		row := make([]float64, 0, len(questionIDs))
		complete := true
		for _, id := range questionIDs {
			v, ok := scores[id]
			if !ok {
				complete = false
				break
			}
			row = append(row, v)
		}
		if complete {
			matrix = append(matrix, row)
		}
	}
	return matrix
}
