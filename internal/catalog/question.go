package catalog

// Question is one entry of the quiz: a flag image and four candidate answers.
// Records are immutable once loaded; the quiz core only ever reads them.
type Question struct {
	ImageURL      string   `json:"image"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}
