package quiz

import "github.com/drooschuck/funwithflag/internal/catalog"

// Visual categories for answer buttons.
const (
	CategoryNeutral   = "neutral"
	CategoryCorrect   = "correct"
	CategoryIncorrect = "incorrect"
	CategoryMuted     = "muted"
)

// OptionCategory classifies one answer button. While evaluation is pending
// every option is neutral; once settled the correct answer is highlighted
// whether or not it was picked, a wrong pick is marked incorrect, and the
// rest are muted.
func OptionCategory(evaluation Evaluation, option, selectedAnswer, correctAnswer string) string {
	switch {
	case evaluation == EvaluationPending:
		return CategoryNeutral
	case option == correctAnswer:
		return CategoryCorrect
	case option == selectedAnswer:
		return CategoryIncorrect
	default:
		return CategoryMuted
	}
}

// OptionViews builds the button list for a question. Buttons stop being
// interactive the moment evaluation settles.
func OptionViews(q catalog.Question, evaluation Evaluation, selectedAnswer string) []OptionView {
	interactive := evaluation == EvaluationPending
	views := make([]OptionView, 0, len(q.Options))
	for _, opt := range q.Options {
		views = append(views, OptionView{
			Label:       opt,
			Category:    OptionCategory(evaluation, opt, selectedAnswer, q.CorrectAnswer),
			Interactive: interactive,
		})
	}
	return views
}
