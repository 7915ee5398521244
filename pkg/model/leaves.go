package model

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitryikh/leaves"
)

var _ Classifier = (*TextModel)(nil)

// TextModel is a LightGBM text model loaded for inference only.
type TextModel struct {
	ensemble *leaves.Ensemble
}

// LoadTextModel reads a LightGBM text model, gzip compressed if the path
// ends with .gz or .gzip.
func LoadTextModel(path string) (*TextModel, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".gzip") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}
	ens, err := leaves.LGEnsembleFromReader(bufio.NewReader(reader), true)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	return &TextModel{ensemble: ens}, nil
}

func (m *TextModel) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = m.ensemble.PredictSingle(x, 0)
	}
	return out
}

func (m *TextModel) NumTrees() int    { return m.ensemble.NEstimators() }
func (m *TextModel) NumFeatures() int { return m.ensemble.NFeatures() }
