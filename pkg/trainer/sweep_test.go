package trainer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdSweep(t *testing.T) {
	yTrue := []int{0, 0, 1, 1}
	proba := []float64{0.2, 0.7, 0.6, 0.95}
	var progress bytes.Buffer
	rows, err := ThresholdSweep(context.Background(), yTrue, proba, &progress)
	require.NoError(t, err)
	require.Len(t, rows, 50)
	assert.NotEmpty(t, progress.String())

	assert.Equal(t, 0.5, rows[0].Vote)
	assert.Equal(t, 0.99, rows[49].Vote)
	assert.Equal(t, "0.50;0.67;1.00;0.80", rows[0].CSV())
	// at 0.65 only 0.7 and 0.95 pass
	assert.Equal(t, "0.65;0.50;0.50;0.50", rows[15].CSV())
	assert.Equal(t, "0.99;0.00;0.00;0.00", rows[49].CSV())
}

func TestThresholdSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ThresholdSweep(ctx, []int{0, 1}, []float64{0.1, 0.9}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweepCSV(t *testing.T) {
	csv := SweepCSV([]SweepRow{{Vote: 0.5, Precision: 1, Recall: 0.25, FBeta: 0.4}})
	assert.Equal(t, "vote;precision;recall;f-beta\n0.50;1.00;0.25;0.40\n", csv)
	assert.True(t, strings.HasPrefix(csv, sweepHeader))
}
