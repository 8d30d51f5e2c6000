package services

import "github.com/BenInbound/survey-app-v2-sub000/internal/models"

// categoryOther collects answers whose question id has no category mapping,
// so aggregation never halts on unexpected data.
const categoryOther = "Other"

// questionCategories maps question ids to reporting categories. Unmapped ids
// fall into the "Other" bucket.
var questionCategories = map[string]string{
	"vision-clarity":           "Vision & Strategy",
	"strategy-understanding":   "Vision & Strategy",
	"goal-alignment":           "Vision & Strategy",
	"communication-frequency":  "Communication",
	"communication-quality":    "Communication",
	"feedback-culture":         "Communication",
	"leadership-trust":         "Leadership",
	"decision-transparency":    "Leadership",
	"empowerment":              "Leadership",
	"resource-adequacy":        "Execution",
	"priority-clarity":         "Execution",
	"cross-team-collaboration": "Execution",
	"change-readiness":         "Adaptability",
	"innovation-support":       "Adaptability",
}

// CategoryForQuestion resolves the reporting category for a question id.
func CategoryForQuestion(questionID string) string {
	if c, ok := questionCategories[questionID]; ok {
		return c
	}
	return categoryOther
}

// DefaultQuestions returns the standard strategic-alignment question set used
// when a new assessment is created.
func DefaultQuestions() []models.Question {
	texts := []struct {
		id, text string
	}{
		{"vision-clarity", "Our company's vision is clear to me."},
		{"strategy-understanding", "I understand how our strategy translates into my daily work."},
		{"goal-alignment", "My team's goals are aligned with the company strategy."},
		{"communication-frequency", "Leadership communicates strategic changes in a timely manner."},
		{"communication-quality", "Strategic communication is clear and actionable."},
		{"feedback-culture", "I can raise concerns about strategic decisions without fear."},
		{"leadership-trust", "I trust leadership to make the right strategic choices."},
		{"decision-transparency", "I understand why strategic decisions are made."},
		{"empowerment", "I have the authority I need to act on our strategy."},
		{"resource-adequacy", "We have the resources required to execute our strategy."},
		{"priority-clarity", "I know which priorities matter most right now."},
		{"cross-team-collaboration", "Teams collaborate effectively on strategic initiatives."},
		{"change-readiness", "Our organization adapts quickly when strategy shifts."},
		{"innovation-support", "New ideas that support our strategy are encouraged."},
	}
	out := make([]models.Question, 0, len(texts))
	for i, q := range texts {
		out = append(out, models.Question{
			ID:       q.id,
			Text:     q.text,
			Category: CategoryForQuestion(q.id),
			Order:    i + 1,
		})
	}
	return out
}
