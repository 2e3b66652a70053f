package ml

import (
	"testing"

	"studenteval/evaluation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id int64, a, c, s, n int, result evaluation.Label) evaluation.Record {
	return evaluation.Record{
		ID:          id,
		StudentName: "student",
		Scores:      evaluation.Scores{Attendance: a, Classwork: c, Socialization: s, Neatness: n},
		Result:      result,
	}
}

func TestTreeTrainerEmptyReturnsNil(t *testing.T) {
	trainer := NewTreeTrainer(0, nil)
	model, err := trainer.Train(nil)
	require.NoError(t, err)
	assert.Nil(t, model)
}

func TestTreeTrainerPredictsKnownLabels(t *testing.T) {
	records := []evaluation.Record{
		rec(1, 20, 25, 30, 20, evaluation.NeedsImprovement),
		rec(2, 50, 55, 45, 50, evaluation.Average),
		rec(3, 70, 75, 72, 68, evaluation.Good),
		rec(4, 95, 92, 90, 97, evaluation.Excellent),
	}
	model, err := NewTreeTrainer(0, nil).Train(records)
	require.NoError(t, err)
	require.NotNil(t, model)

	for _, r := range records {
		got, err := Predict(model, r.Scores)
		require.NoError(t, err)
		assert.Equal(t, r.Result, got)
	}

	got, err := Predict(model, evaluation.Scores{Attendance: 60, Classwork: 61, Socialization: 62, Neatness: 63})
	require.NoError(t, err)
	assert.Contains(t, evaluation.Labels(), got)
}

func TestTreeTrainerSkipsUnknownLabels(t *testing.T) {
	records := []evaluation.Record{
		rec(1, 10, 10, 10, 10, "Legacy"),
	}
	model, err := NewTreeTrainer(0, nil).Train(records)
	require.NoError(t, err)
	assert.Nil(t, model)

	records = append(records, rec(2, 90, 90, 90, 90, evaluation.Excellent))
	model, err = NewTreeTrainer(0, nil).Train(records)
	require.NoError(t, err)
	got, err := Predict(model, evaluation.Scores{})
	require.NoError(t, err)
	assert.Equal(t, evaluation.Excellent, got)
}

func TestBuildTrainingSet(t *testing.T) {
	features, labels, skipped := BuildTrainingSet([]evaluation.Record{
		rec(1, 1, 2, 3, 4, evaluation.Good),
		rec(2, 5, 6, 7, 8, "bogus"),
	})
	assert.Equal(t, [][]float64{{1, 2, 3, 4}}, features)
	assert.Equal(t, []int{2}, labels)
	assert.Equal(t, []int64{2}, skipped)
}

func TestPredictNilModel(t *testing.T) {
	_, err := Predict(nil, evaluation.Scores{})
	assert.Error(t, err)
}

type countingTrainer struct {
	calls int
	next  Trainer
}

func (c *countingTrainer) Train(records []evaluation.Record) (Classifier, error) {
	c.calls++
	return c.next.Train(records)
}

func TestCachedTrainerReusesFitForSameRecords(t *testing.T) {
	inner := &countingTrainer{next: NewTreeTrainer(0, nil)}
	cached, err := NewCachedTrainer(inner, 4)
	require.NoError(t, err)

	records := []evaluation.Record{
		rec(1, 20, 20, 20, 20, evaluation.NeedsImprovement),
		rec(2, 90, 90, 90, 90, evaluation.Excellent),
	}
	first, err := cached.Train(records)
	require.NoError(t, err)
	second, err := cached.Train(records)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, inner.calls)

	records = append(records, rec(3, 60, 60, 60, 60, evaluation.Good))
	_, err = cached.Train(records)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 2, cached.Len())
}

func TestCachedTrainerDoesNotCacheEmpty(t *testing.T) {
	inner := &countingTrainer{next: NewTreeTrainer(0, nil)}
	cached, err := NewCachedTrainer(inner, 0)
	require.NoError(t, err)

	model, err := cached.Train(nil)
	require.NoError(t, err)
	assert.Nil(t, model)
	assert.Zero(t, cached.Len())
}
