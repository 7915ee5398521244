package model

import (
	"fmt"
	"strings"
)

// ClassificationReport renders per-class precision, recall, F1 and support
// followed by accuracy, macro and weighted averages. Class i is labeled
// by names[i].
func ClassificationReport(yTrue, yPred []int, names []string, digits int) string {
	const lastHeading = "weighted avg"
	width := len(lastHeading)
	for _, n := range names {
		width = max(width, len(n))
	}
	width = max(width, digits)

	var b strings.Builder
	fmt.Fprintf(&b, "%*s ", width, "")
	for _, h := range []string{"precision", "recall", "f1-score", "support"} {
		fmt.Fprintf(&b, " %9s", h)
	}
	b.WriteString("\n\n")

	row := func(name string, p, r, f float64, support int) {
		fmt.Fprintf(&b, "%*s  %9.*f %9.*f %9.*f %9d\n", width, name, digits, p, digits, r, digits, f, support)
	}

	var macroP, macroR, macroF, wP, wR, wF float64
	total := len(yTrue)
	for c, name := range names {
		p, r, f := PrecisionRecallF1(yTrue, yPred, c)
		support := 0
		for _, y := range yTrue {
			if y == c {
				support++
			}
		}
		row(name, p, r, f, support)
		macroP += p
		macroR += r
		macroF += f
		w := float64(support)
		wP += p * w
		wR += r * w
		wF += f * w
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%*s  %9s %9s %9.*f %9d\n", width, "accuracy", "", "", digits, Accuracy(yTrue, yPred), total)
	k := float64(len(names))
	row("macro avg", macroP/k, macroR/k, macroF/k, total)
	if total > 0 {
		t := float64(total)
		row(lastHeading, wP/t, wR/t, wF/t, total)
	} else {
		row(lastHeading, 0, 0, 0, total)
	}
	return b.String()
}
