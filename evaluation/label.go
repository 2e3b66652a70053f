package evaluation

import (
	"errors"
	"fmt"
)

// Label is one of the four ordered evaluation outcomes.
type Label string

const (
	NeedsImprovement Label = "Needs Improvement"
	Average          Label = "Average"
	Good             Label = "Good"
	Excellent        Label = "Excellent"
)

// DefaultLabel is assigned when there is nothing to train on yet.
const DefaultLabel = NeedsImprovement

var ErrUnknownLabel = errors.New("unknown evaluation label")

// ordering is load-bearing: the classifier trains on indexes into it.
var ordering = [...]Label{NeedsImprovement, Average, Good, Excellent}

// Labels returns the labels in ascending order.
func Labels() []Label {
	out := make([]Label, len(ordering))
	copy(out, ordering[:])
	return out
}

// Index returns the position of l in the fixed ordering, or -1.
func (l Label) Index() int {
	for i, candidate := range ordering {
		if candidate == l {
			return i
		}
	}
	return -1
}

func (l Label) Valid() bool {
	return l.Index() >= 0
}

func (l Label) String() string {
	return string(l)
}

// LabelAt maps a class index back to its label.
func LabelAt(idx int) (Label, error) {
	if idx < 0 || idx >= len(ordering) {
		return "", fmt.Errorf("%w: index %d", ErrUnknownLabel, idx)
	}
	return ordering[idx], nil
}

func ParseLabel(s string) (Label, error) {
	l := Label(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
	}
	return l, nil
}
