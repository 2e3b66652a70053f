package ml

import (
	"errors"
	"fmt"
	"time"

	"studenteval/evaluation"

	"go.uber.org/zap"
)

// TreeTrainer fits a brand new DecisionTree on every call.
type TreeTrainer struct {
	maxDepth int
	logger   *zap.Logger
}

func NewTreeTrainer(maxDepth int, logger *zap.Logger) *TreeTrainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreeTrainer{maxDepth: maxDepth, logger: logger}
}

func (t *TreeTrainer) Train(records []evaluation.Record) (Classifier, error) {
	start := time.Now()
	features, labels, skipped := BuildTrainingSet(records)
	if len(skipped) > 0 {
		t.logger.Warn("skipping records with unknown evaluation result",
			zap.Int64s("ids", skipped))
	}
	if len(features) == 0 {
		return nil, nil
	}

	tree := NewDecisionTree(t.maxDepth)
	if err := tree.Train(features, labels); err != nil {
		return nil, fmt.Errorf("train decision tree: %w", err)
	}
	t.logger.Debug("classifier trained",
		zap.Int("samples", len(features)),
		zap.Int("nodes", tree.NodeCount()),
		zap.Int("depth", tree.Depth()),
		zap.Duration("elapsed", time.Since(start)))
	return tree, nil
}

// Predict applies a fitted classifier to one set of scores.
func Predict(model Classifier, scores evaluation.Scores) (evaluation.Label, error) {
	if model == nil {
		return "", errors.New("model not trained")
	}
	idx, _, err := model.Predict(scores.Vector())
	if err != nil {
		return "", err
	}
	return evaluation.LabelAt(idx)
}
