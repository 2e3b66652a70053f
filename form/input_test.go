package form

import (
	"testing"

	"studenteval/evaluation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputFoldsScoresKeepsName(t *testing.T) {
	in, err := ParseInput(Fields{
		Name:          "  Alice ",
		Attendance:    " 90 ",
		Classwork:     "+85",
		Socialization: "７０",
		Neatness:      "-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "  Alice ", in.StudentName)
	assert.Equal(t, evaluation.Scores{Attendance: 90, Classwork: 85, Socialization: 70, Neatness: -1}, in.Scores)
}

func TestParseInputErrorMessages(t *testing.T) {
	_, err := ParseInput(Fields{Attendance: "1", Classwork: "1", Socialization: "1", Neatness: "1"})
	require.Error(t, err)
	assert.Equal(t, "Please enter the student's name.", err.Error())

	_, err = ParseInput(Fields{Name: "A", Attendance: "1", Classwork: "x", Socialization: "1", Neatness: "1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInput)
	assert.Contains(t, err.Error(), "Classwork")
}

func TestParseInputAcceptsBlankName(t *testing.T) {
	in, err := ParseInput(Fields{Name: "   ", Attendance: "1", Classwork: "2", Socialization: "3", Neatness: "4"})
	require.NoError(t, err)
	assert.Equal(t, "   ", in.StudentName)
}

func TestStateAccessors(t *testing.T) {
	s := NewState()
	s.Set(FieldName, "Zoe")
	s.Set(FieldNeatness, "88")
	assert.Equal(t, "Zoe", s.Get(FieldName))
	assert.Equal(t, "88", s.Fields().Neatness)

	_, ok := s.Selected()
	assert.False(t, ok)
	s.Select(3)
	id, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)

	s.ClearSelection()
	s.ClearFields()
	_, ok = s.Selected()
	assert.False(t, ok)
	assert.Equal(t, Fields{}, s.Fields())
}
