package services

import "github.com/BenInbound/survey-app-v2-sub000/internal/models"

// AnalyzeGaps compares management and employee aggregates category by
// category. Only categories present on the management side are emitted;
// employee-only categories are dropped (a known asymmetry). A category with
// no employee average contributes 0 to the gap, which can inflate gaps for
// categories the employee side has not answered yet. Preserved pending
// product sign-off.
func AnalyzeGaps(management, employee models.AggregatedResponses) []models.CategoryGap {
	employeeByCategory := make(map[string]float64, len(employee.CategoryAverages))
	for _, ca := range employee.CategoryAverages {
		employeeByCategory[ca.Category] = ca.Average
	}

	gaps := make([]models.CategoryGap, 0, len(management.CategoryAverages))
	for _, ca := range management.CategoryAverages {
		employeeAvg := employeeByCategory[ca.Category]
		gap := ca.Average - employeeAvg
		gaps = append(gaps, models.CategoryGap{
			Category:        ca.Category,
			ManagementScore: ca.Average,
			EmployeeScore:   employeeAvg,
			Gap:             gap,
			Direction:       gapDirection(gap),
			Significance:    gapSignificance(gap),
		})
	}
	return gaps
}

func gapDirection(gap float64) models.GapDirection {
	switch {
	case gap > 0:
		return models.GapPositive
	case gap < 0:
		return models.GapNegative
	default:
		return models.GapNeutral
	}
}

// gapSignificance classifies |gap|: >=2 high, >1 medium, otherwise low.
// Exact cutoffs; a gap of exactly 1.0 is low and exactly 2.0 is high.
func gapSignificance(gap float64) models.GapSignificance {
	abs := gap
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 2:
		return models.SignificanceHigh
	case abs > 1:
		return models.SignificanceMedium
	default:
		return models.SignificanceLow
	}
}
