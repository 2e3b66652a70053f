package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"studenteval/evaluation"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/width"
)

var (
	ErrInput       = errors.New("input error")
	ErrNoSelection = errors.New("please select a record to delete")
)

// InputError carries the message shown to the user. It matches ErrInput.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Is(target error) bool {
	return target == ErrInput
}

// Input is a validated save request.
type Input struct {
	StudentName string `validate:"required"`
	evaluation.Scores
}

var validate = validator.New()

// ParseInput checks that the name is non-empty and every score is an
// integer. The name is kept exactly as typed; score ranges are not enforced.
func ParseInput(f Fields) (Input, error) {
	in := Input{StudentName: f.Name}
	if err := validate.Struct(in); err != nil {
		return Input{}, &InputError{Message: "Please enter the student's name."}
	}
	scores, err := ParseScores(f)
	if err != nil {
		return Input{}, err
	}
	in.Scores = scores
	return in, nil
}

// ParseScores reads the four score fields of f, ignoring the name.
func ParseScores(f Fields) (evaluation.Scores, error) {
	var out evaluation.Scores
	scores := []struct {
		name string
		raw  string
		dst  *int
	}{
		{"Attendance", f.Attendance, &out.Attendance},
		{"Classwork", f.Classwork, &out.Classwork},
		{"Socialization", f.Socialization, &out.Socialization},
		{"Neatness", f.Neatness, &out.Neatness},
	}
	for _, s := range scores {
		v, err := parseScore(s.raw)
		if err != nil {
			return evaluation.Scores{}, &InputError{Message: fmt.Sprintf("%s must be a whole number, got %q.", s.name, s.raw)}
		}
		*s.dst = v
	}
	return out, nil
}

// parseScore accepts surrounding whitespace, an optional sign and
// full-width digits.
func parseScore(raw string) (int, error) {
	folded := width.Narrow.String(strings.TrimSpace(raw))
	return strconv.Atoi(folded)
}
