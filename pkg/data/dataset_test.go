package data

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func encode(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := msgpack.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestSaveLoadDataset(t *testing.T) {
	ds := &FeatureDataset{
		Features: [][]float64{{1, 2.5}, {math.NaN(), 0}, {3, -1}},
		Label:    []int{0, 1, 0},
	}
	path := filepath.Join(t.TempDir(), "features.msgpack")
	require.NoError(t, ds.Save(path))

	loaded, err := LoadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, ds.Label, loaded.Label)
	assert.Equal(t, 3, loaded.NumSamples())
	assert.Equal(t, 2, loaded.NumFeatures())
	assert.True(t, math.IsNaN(loaded.Features[1][0]))
	assert.Equal(t, 2.5, loaded.Features[0][1])
}

func TestDecodeDatasetNumericLabels(t *testing.T) {
	ds, err := DecodeDataset(encode(t, map[string]any{
		"features": [][]int{{1, 2}, {3, 4}},
		"label":    []float64{1, 0},
		"extra":    "ignored",
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, ds.Label)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, ds.Features)
}

func TestDecodeDatasetInvalid(t *testing.T) {
	cases := []struct {
		name string
		in   map[string]any
	}{
		{name: "missing features", in: map[string]any{"label": []int{0}}},
		{name: "missing label", in: map[string]any{"features": [][]float64{{1}}}},
		{name: "length mismatch", in: map[string]any{
			"features": [][]float64{{1}, {2}},
			"label":    []int{0},
		}},
		{name: "ragged rows", in: map[string]any{
			"features": [][]float64{{1, 2}, {2}},
			"label":    []int{0, 1},
		}},
		{name: "zero dimension", in: map[string]any{
			"features": [][]float64{{}, {}},
			"label":    []int{0, 1},
		}},
		{name: "non binary label", in: map[string]any{
			"features": [][]float64{{1}, {2}},
			"label":    []int{0, 2},
		}},
		{name: "fractional label", in: map[string]any{
			"features": [][]float64{{1}, {2}},
			"label":    []float64{0, 0.5},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeDataset(encode(t, tc.in))
			assert.ErrorIs(t, err, ErrInvalidDataset)
		})
	}
}

func TestDecodeDatasetGarbage(t *testing.T) {
	_, err := DecodeDataset(bytes.NewReader([]byte("not msgpack")))
	assert.ErrorIs(t, err, ErrInvalidDataset)
}

func TestLoadDatasetMissingFile(t *testing.T) {
	_, err := LoadDataset(filepath.Join(t.TempDir(), "nope.msgpack"))
	assert.Error(t, err)
}

func TestClassCounts(t *testing.T) {
	ds := &FeatureDataset{Features: make([][]float64, 4), Label: []int{0, 1, 0, 0}}
	normal, slow := ds.ClassCounts()
	assert.Equal(t, 3, normal)
	assert.Equal(t, 1, slow)
	assert.InDelta(t, 0.25, ds.PositiveRate(), 1e-12)
}

func TestSynthetic(t *testing.T) {
	a := Synthetic(500, 6, 0.1, 3)
	b := Synthetic(500, 6, 0.1, 3)
	assert.Equal(t, a, b)
	assert.Equal(t, 500, a.NumSamples())
	assert.Equal(t, 6, a.NumFeatures())

	_, slow := a.ClassCounts()
	assert.Greater(t, slow, 20)
	assert.Less(t, slow, 90)

	c := Synthetic(500, 6, 0.1, 4)
	assert.NotEqual(t, a.Features, c.Features)
}
