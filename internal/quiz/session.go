package quiz

import (
	"sync"
	"time"
)

// Evaluation classifies the outcome of the current question.
type Evaluation string

const (
	EvaluationPending   Evaluation = "pending"
	EvaluationCorrect   Evaluation = "correct"
	EvaluationIncorrect Evaluation = "incorrect"
)

// Session is the full mutable state of one playthrough. All mutation happens
// under mu, so click, timer, and provider events are serialized per session
// exactly like the single event loop the browser version relied on.
//
// epoch increments every time a question is entered (advance, restart, or
// discard). Scheduled advances and fun-facts requests capture the epoch at
// creation and are dropped on arrival when it no longer matches, so nothing
// stale can touch a later question.
//
// discarded flips once, under mu, before the session leaves the store. An
// event that fetched the session earlier sees the flag on arrival and treats
// the session as gone, so nothing mutates it or pushes a frame for it after
// removal.
type Session struct {
	ID string

	mu sync.Mutex

	currentIndex        int
	score               int
	selectedAnswer      string
	evaluation          Evaluation
	finished            bool
	supplementalText    string
	supplementalLoading bool

	epoch         uint64
	cancelAdvance func()
	lastActivity  time.Time
	discarded     bool
}

// OptionView is one answer button as the client should draw it.
type OptionView struct {
	Label       string `json:"label"`
	Category    string `json:"category"`
	Interactive bool   `json:"interactive"`
}

// QuestionView is the current question as exposed to the client. The correct
// answer is never shipped directly; once evaluation settles it is readable
// from the option categories.
type QuestionView struct {
	Image   string       `json:"image"`
	Options []OptionView `json:"options"`
}

// Snapshot is the presentation surface: everything a client needs to render
// the session after any state change. Question is null once the quiz is
// finished.
type Snapshot struct {
	SessionID           string        `json:"session_id"`
	CurrentIndex        int           `json:"current_index"`
	QuestionCount       int           `json:"question_count"`
	Question            *QuestionView `json:"question"`
	Score               int           `json:"score"`
	Evaluation          Evaluation    `json:"evaluation"`
	SelectedAnswer      string        `json:"selected_answer,omitempty"`
	Finished            bool          `json:"finished"`
	SupplementalText    string        `json:"supplemental_text,omitempty"`
	SupplementalLoading bool          `json:"supplemental_loading"`
}
