package services

import "github.com/BenInbound/survey-app-v2-sub000/internal/models"

// AggregateResponses reduces participant submissions into per-category and
// overall averages. Skipped answers (nil score) are ignored, unmapped
// question ids land in the "Other" bucket, and averages are plain
// floating-point division with no rounding; rounding is a presentation
// concern. An empty input yields a zero-value aggregate, not an error.
//
// ResponseCount counts submissions, not individual answers.
func AggregateResponses(responses []*models.ParticipantResponse) models.AggregatedResponses {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := map[string]*bucket{}
	// Categories keep first-seen order for stable output.
	order := []string{}

	var totalSum float64
	var totalCount int
	for _, resp := range responses {
		for _, ans := range resp.Answers {
			if ans.Score == nil {
				continue
			}
			category := CategoryForQuestion(ans.QuestionID)
			b := buckets[category]
			if b == nil {
				b = &bucket{}
				buckets[category] = b
				order = append(order, category)
			}
			b.sum += float64(*ans.Score)
			b.count++
			totalSum += float64(*ans.Score)
			totalCount++
		}
	}

	out := models.AggregatedResponses{ResponseCount: len(responses)}
	for _, category := range order {
		b := buckets[category]
		out.CategoryAverages = append(out.CategoryAverages, models.CategoryAverage{
			Category:  category,
			Average:   b.sum / float64(b.count),
			Responses: b.count,
		})
	}
	if totalCount > 0 {
		out.OverallAverage = totalSum / float64(totalCount)
	}
	return out
}
