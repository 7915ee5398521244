// Package config holds the training hyperparameters, their JSON metadata
// representation and the process environment settings.
package config

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParams = errors.New("invalid training parameters")
	ErrSingleClass   = errors.New("training labels contain a single class")
)

const (
	MetricAUC     = "auc"
	MetricLogloss = "binary_logloss"
)

// Params is the full hyperparameter set used for a training run.
// Its JSON form is written next to the model for reproducibility.
type Params struct {
	Objective           string   `json:"objective"`
	Metric              []string `json:"metric"`
	ScalePosWeight      float64  `json:"scale_pos_weight"`
	MaxDepth            int      `json:"max_depth"`
	LearningRate        float64  `json:"learning_rate"`
	NumLeaves           int      `json:"num_leaves"`
	MinChildSamples     int      `json:"min_child_samples"`
	Subsample           float64  `json:"subsample"`
	ColsampleBytree     float64  `json:"colsample_bytree"`
	RandomState         int64    `json:"random_state"`
	Verbose             int      `json:"verbose"`
	NumBoostRound       int      `json:"num_boost_round"`
	EarlyStoppingRounds int      `json:"early_stopping_rounds"`
	LogPeriod           int      `json:"log_period"`
	MaxBin              int      `json:"max_bin"`
}

// DefaultParams returns the fixed configuration of the slow query
// classifier. ScalePosWeight must be filled in from the training data.
func DefaultParams() Params {
	return Params{
		Objective:           "binary",
		Metric:              []string{MetricAUC, MetricLogloss},
		ScalePosWeight:      1,
		MaxDepth:            6,
		LearningRate:        0.05,
		NumLeaves:           81,
		MinChildSamples:     20,
		Subsample:           0.8,
		ColsampleBytree:     0.8,
		RandomState:         42,
		Verbose:             -1,
		NumBoostRound:       200,
		EarlyStoppingRounds: 20,
		LogPeriod:           10,
		MaxBin:              255,
	}
}

func (p Params) Validate() error {
	if p.Objective != "binary" {
		return fmt.Errorf("%w: unsupported objective %q", ErrInvalidParams, p.Objective)
	}
	for _, m := range p.Metric {
		if m != MetricAUC && m != MetricLogloss {
			return fmt.Errorf("%w: unsupported metric %q", ErrInvalidParams, m)
		}
	}
	switch {
	case p.ScalePosWeight <= 0:
		return fmt.Errorf("%w: scale_pos_weight must be positive", ErrInvalidParams)
	case p.LearningRate <= 0:
		return fmt.Errorf("%w: learning_rate must be positive", ErrInvalidParams)
	case p.NumLeaves < 2:
		return fmt.Errorf("%w: num_leaves must be at least 2", ErrInvalidParams)
	case p.MinChildSamples < 1:
		return fmt.Errorf("%w: min_child_samples must be at least 1", ErrInvalidParams)
	case p.Subsample <= 0 || p.Subsample > 1:
		return fmt.Errorf("%w: subsample must be in (0, 1]", ErrInvalidParams)
	case p.ColsampleBytree <= 0 || p.ColsampleBytree > 1:
		return fmt.Errorf("%w: colsample_bytree must be in (0, 1]", ErrInvalidParams)
	case p.NumBoostRound < 1:
		return fmt.Errorf("%w: num_boost_round must be at least 1", ErrInvalidParams)
	case p.MaxBin < 2 || p.MaxBin > 256:
		return fmt.Errorf("%w: max_bin must be in [2, 256]", ErrInvalidParams)
	}
	return nil
}

// ScalePosWeight returns negatives/positives of the given labels.
func ScalePosWeight(labels []int) (float64, error) {
	var neg, pos int
	for _, v := range labels {
		if v == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, fmt.Errorf("%w (%d normal, %d slow)", ErrSingleClass, neg, pos)
	}
	return float64(neg) / float64(pos), nil
}
