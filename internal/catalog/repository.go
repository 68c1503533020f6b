package catalog

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

const optionsPerQuestion = 4

// Repository holds the ordered question sequence for the lifetime of the
// process. Data integrity problems are configuration errors and surface here,
// at load time, never during play.
type Repository struct {
	questions []Question
}

// Load reads and validates the question catalog from a JSON file.
func Load(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read questions file %s", path)
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, errors.Wrapf(err, "parse questions file %s", path)
	}

	if err := validate(questions); err != nil {
		return nil, err
	}

	return &Repository{questions: questions}, nil
}

func validate(questions []Question) error {
	if len(questions) == 0 {
		return errors.New("question catalog is empty")
	}

	for i, q := range questions {
		if q.ImageURL == "" {
			return errors.Errorf("question %d: missing flag image", i)
		}
		if len(q.Options) != optionsPerQuestion {
			return errors.Errorf("question %d: expected %d options, got %d", i, optionsPerQuestion, len(q.Options))
		}

		seen := make(map[string]bool, len(q.Options))
		correctFound := false
		for _, opt := range q.Options {
			if opt == "" {
				return errors.Errorf("question %d: empty option", i)
			}
			if seen[opt] {
				return errors.Errorf("question %d: duplicate option %q", i, opt)
			}
			seen[opt] = true
			if opt == q.CorrectAnswer {
				correctFound = true
			}
		}
		if !correctFound {
			return errors.Errorf("question %d: correct answer %q is not among the options", i, q.CorrectAnswer)
		}
	}

	return nil
}

// Questions returns the ordered catalog. Callers must not modify it.
func (r *Repository) Questions() []Question {
	return r.questions
}

// Count reports the number of questions in the catalog.
func (r *Repository) Count() int {
	return len(r.questions)
}
