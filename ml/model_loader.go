package ml

import (
	"errors"
)

const ModelTypeDecisionTree = "decision_tree"

func LoadModel(modelType, path string) (MLModel, error) {
	switch modelType {
	case ModelTypeDecisionTree, "":
		model := &DecisionTree{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, errors.New("unsupported model type")
	}
}
