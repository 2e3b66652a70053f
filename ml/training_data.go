package ml

import (
	"studenteval/evaluation"
)

// BuildTrainingSet turns records into feature vectors and label indexes.
// Records whose result is not one of the fixed labels are left out and
// their identifiers returned so callers can report them.
func BuildTrainingSet(records []evaluation.Record) (features [][]float64, labels []int, skipped []int64) {
	features = make([][]float64, 0, len(records))
	labels = make([]int, 0, len(records))
	for _, rec := range records {
		idx := rec.Result.Index()
		if idx < 0 {
			skipped = append(skipped, rec.ID)
			continue
		}
		features = append(features, rec.Scores.Vector())
		labels = append(labels, idx)
	}
	return features, labels, skipped
}
