package ml

import "studenteval/evaluation"

// Classifier maps a feature vector to a class index and a confidence.
type Classifier interface {
	Predict(features []float64) (int, float64, error)
}

type MLModel interface {
	Classifier
	Train(features [][]float64, labels []int) error
	Save(path string) error
	Load(path string) error
}

// Trainer fits a classifier on the full record set. It returns a nil
// Classifier and no error when there is nothing usable to train on.
type Trainer interface {
	Train(records []evaluation.Record) (Classifier, error)
}
