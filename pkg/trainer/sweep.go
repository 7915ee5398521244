package trainer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"

	"qperf/pkg/model"
)

const sweepHeader = "vote;precision;recall;f-beta"

// SweepRow holds the quality of the slow class at one vote threshold.
type SweepRow struct {
	Vote      float64
	Precision float64
	Recall    float64
	FBeta     float64
}

func (r SweepRow) CSV() string {
	return fmt.Sprintf("%.2f;%.2f;%.2f;%.2f", r.Vote, r.Precision, r.Recall, r.FBeta)
}

// ThresholdSweep evaluates thresholds 0.50, 0.51, ..., 0.99. Progress is
// drawn to progress (nothing is drawn when it is nil).
func ThresholdSweep(ctx context.Context, yTrue []int, proba []float64, progress io.Writer) ([]SweepRow, error) {
	if progress == nil {
		progress = io.Discard
	}
	const first, last = 50, 99
	bar := progressbar.NewOptions(
		last-first+1,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("testing the model"),
		progressbar.OptionShowCount(),
	)
	rows := make([]SweepRow, 0, last-first+1)
	for k := first; k <= last; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vote := float64(k) / 100
		pred := model.BinaryPredFromProba(proba, vote)
		prec, rec, _ := model.PrecisionRecallF1(yTrue, pred, 1)
		rows = append(rows, SweepRow{
			Vote:      vote,
			Precision: prec,
			Recall:    rec,
			FBeta:     model.FBeta(prec, rec, 1),
		})
		bar.Add(1)
	}
	bar.Finish()
	return rows, nil
}

// SweepCSV renders rows in the ';' separated layout read by the chart renderer.
func SweepCSV(rows []SweepRow) string {
	var csv strings.Builder
	csv.WriteString(sweepHeader + "\n")
	for _, r := range rows {
		csv.WriteString(r.CSV() + "\n")
	}
	return csv.String()
}

func WriteSweep(path string, rows []SweepRow) error {
	if err := os.WriteFile(path, []byte(SweepCSV(rows)), 0o644); err != nil {
		return fmt.Errorf("failed to save threshold sweep: %w", err)
	}
	return nil
}
