package data

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

var ErrInvalidDataset = errors.New("invalid feature dataset")

// FeatureDataset holds pre-extracted query feature vectors and their
// labels (0 = normal, 1 = slow), aligned by index.
type FeatureDataset struct {
	Features [][]float64
	Label    []int
}

// rawDataset mirrors the msgpack map written by the feature exporter.
// Labels are decoded as floats so that both integer and float encodings
// pass through the strict check in validate.
type rawDataset struct {
	Features [][]float64 `msgpack:"features"`
	Label    []float64   `msgpack:"label"`
}

// LoadDataset reads a msgpack-encoded dataset from path.
func LoadDataset(path string) (*FeatureDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open features file: %w", err)
	}
	defer f.Close()
	ds, err := DecodeDataset(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to load features file %s: %w", path, err)
	}
	return ds, nil
}

// DecodeDataset decodes and validates a dataset from r.
func DecodeDataset(r io.Reader) (*FeatureDataset, error) {
	var raw rawDataset
	if err := msgpack.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDataset, err)
	}
	return raw.validate()
}

func (raw rawDataset) validate() (*FeatureDataset, error) {
	if len(raw.Features) == 0 {
		return nil, fmt.Errorf("%w: missing or empty key \"features\"", ErrInvalidDataset)
	}
	if len(raw.Label) == 0 {
		return nil, fmt.Errorf("%w: missing or empty key \"label\"", ErrInvalidDataset)
	}
	if len(raw.Features) != len(raw.Label) {
		return nil, fmt.Errorf(
			"%w: %d feature vectors but %d labels", ErrInvalidDataset, len(raw.Features), len(raw.Label))
	}
	dim := len(raw.Features[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-length feature vectors", ErrInvalidDataset)
	}
	labels := make([]int, len(raw.Label))
	for i, row := range raw.Features {
		if len(row) != dim {
			return nil, fmt.Errorf(
				"%w: sample %d has %d features, expected %d", ErrInvalidDataset, i, len(row), dim)
		}
		switch raw.Label[i] {
		case 0:
			labels[i] = 0
		case 1:
			labels[i] = 1
		default:
			return nil, fmt.Errorf("%w: sample %d has label %v, expected 0 or 1", ErrInvalidDataset, i, raw.Label[i])
		}
	}
	return &FeatureDataset{Features: raw.Features, Label: labels}, nil
}

// Save writes the dataset using the same msgpack layout LoadDataset expects.
func (ds *FeatureDataset) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save features to a file: %w", err)
	}
	defer file.Close()
	out := make(map[string]any)
	out["features"] = ds.Features
	out["label"] = ds.Label
	outData, err := msgpack.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}
	if _, err := file.Write(outData); err != nil {
		return fmt.Errorf("failed to save features to a file: %w", err)
	}
	return nil
}

func (ds *FeatureDataset) NumSamples() int {
	return len(ds.Features)
}

func (ds *FeatureDataset) NumFeatures() int {
	if len(ds.Features) == 0 {
		return 0
	}
	return len(ds.Features[0])
}

// ClassCounts returns the number of normal and slow samples.
func (ds *FeatureDataset) ClassCounts() (normal, slow int) {
	for _, v := range ds.Label {
		if v == 1 {
			slow++
		} else {
			normal++
		}
	}
	return
}

// PositiveRate returns the fraction of slow samples.
func (ds *FeatureDataset) PositiveRate() float64 {
	if len(ds.Label) == 0 {
		return math.NaN()
	}
	_, slow := ds.ClassCounts()
	return float64(slow) / float64(len(ds.Label))
}
