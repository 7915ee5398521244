package model

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// decision type of numerical splits: default left, missing type none
const numericalDecisionType = 2

// WriteText writes the first numIteration trees (all if numIteration <= 0)
// in the LightGBM v3 text model format. The init score is folded into the
// first tree, so the file predicts on its own.
func (g *GBDT) WriteText(w io.Writer, numIteration int) error {
	if len(g.Trees) == 0 {
		return errors.New("gbdt: model is not trained")
	}
	trees := g.Trees[:g.numTrees(numIteration)]
	blocks := make([]string, len(trees))
	sizes := make([]string, len(trees))
	for i, t := range trees {
		bias := 0.0
		if i == 0 {
			bias = g.InitScore
		}
		blocks[i] = treeBlock(i, t, bias)
		sizes[i] = strconv.Itoa(len(blocks[i]))
	}

	var sb strings.Builder
	sb.WriteString("tree\n")
	sb.WriteString("version=v3\n")
	sb.WriteString("num_class=1\n")
	sb.WriteString("num_tree_per_iteration=1\n")
	sb.WriteString("label_index=0\n")
	fmt.Fprintf(&sb, "max_feature_idx=%d\n", g.NumFeatures-1)
	fmt.Fprintf(&sb, "objective=%s sigmoid:1\n", g.loss().Name())
	names := make([]string, g.NumFeatures)
	infos := make([]string, g.NumFeatures)
	for j := range names {
		names[j] = columnName(j)
		infos[j] = "none"
		if j < len(g.mappers) {
			infos[j] = g.mappers[j].info()
		}
	}
	fmt.Fprintf(&sb, "feature_names=%s\n", strings.Join(names, " "))
	fmt.Fprintf(&sb, "feature_infos=%s\n", strings.Join(infos, " "))
	fmt.Fprintf(&sb, "tree_sizes=%s\n", strings.Join(sizes, " "))
	sb.WriteString("\n")
	for _, b := range blocks {
		sb.WriteString(b)
	}
	sb.WriteString("end of trees\n")

	sb.WriteString("\nfeature_importances:\n")
	splits := g.FeatureImportance(ImportanceSplit, len(trees))
	order := make([]int, 0, len(splits))
	for j, v := range splits {
		if v > 0 {
			order = append(order, j)
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return splits[order[a]] > splits[order[b]] })
	for _, j := range order {
		fmt.Fprintf(&sb, "%s=%d\n", columnName(j), int(splits[j]))
	}

	sb.WriteString("\nparameters:\n")
	for _, kv := range g.paramLines() {
		fmt.Fprintf(&sb, "[%s: %s]\n", kv[0], kv[1])
	}
	sb.WriteString("\nend of parameters\n")
	sb.WriteString("\npandas_categorical:null\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// SaveToFile writes the model up to the best iteration to path.
func (g *GBDT) SaveToFile(path string) error {
	var sb strings.Builder
	if err := g.WriteText(&sb, g.BestIteration); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	return nil
}

func (g *GBDT) paramLines() [][2]string {
	f := formatFloat
	return [][2]string{
		{"boosting", "gbdt"},
		{"objective", g.loss().Name()},
		{"metric", strings.Join(g.Metrics, ",")},
		{"num_iterations", strconv.Itoa(g.NumIterations)},
		{"learning_rate", f(g.LearningRate)},
		{"num_leaves", strconv.Itoa(g.NumLeaves)},
		{"max_depth", strconv.Itoa(depthParam(g.MaxDepth))},
		{"min_data_in_leaf", strconv.Itoa(g.MinDataInLeaf)},
		{"min_sum_hessian_in_leaf", f(g.MinSumHessian)},
		{"lambda_l2", f(g.LambdaL2)},
		{"bagging_fraction", f(g.BaggingFraction)},
		{"bagging_freq", strconv.Itoa(baggingFreq(g.BaggingFraction))},
		{"feature_fraction", f(g.FeatureFraction)},
		{"early_stopping_round", strconv.Itoa(g.EarlyStoppingRounds)},
		{"max_bin", strconv.Itoa(g.MaxBin)},
		{"scale_pos_weight", f(g.ScalePosWeight)},
		{"seed", strconv.FormatInt(g.RandomState, 10)},
		{"boost_from_average", "1"},
	}
}

func depthParam(d int) int {
	if d <= 0 {
		return -1
	}
	return d
}

func baggingFreq(frac float64) int {
	if frac < 1 {
		return 1
	}
	return 0
}

func columnName(j int) string {
	return "Column_" + strconv.Itoa(j)
}

func treeBlock(idx int, t *Tree, bias float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tree=%d\n", idx)
	fmt.Fprintf(&sb, "num_leaves=%d\n", t.NumLeaves)
	sb.WriteString("num_cat=0\n")
	decision := make([]int, len(t.SplitFeature))
	for i := range decision {
		decision[i] = numericalDecisionType
	}
	leafValue := addBias(t.LeafValue, bias)
	internalValue := addBias(t.InternalValue, bias)
	if t.NumLeaves <= 1 {
		for _, k := range []string{"split_feature", "split_gain", "threshold", "decision_type", "left_child", "right_child"} {
			sb.WriteString(k + "=\n")
		}
		fmt.Fprintf(&sb, "leaf_value=%s\n", joinFloats(leafValue[:1]))
		for _, k := range []string{"leaf_weight", "leaf_count", "internal_value", "internal_weight", "internal_count"} {
			sb.WriteString(k + "=\n")
		}
	} else {
		fmt.Fprintf(&sb, "split_feature=%s\n", joinInts(t.SplitFeature))
		fmt.Fprintf(&sb, "split_gain=%s\n", joinFloats(t.SplitGain))
		fmt.Fprintf(&sb, "threshold=%s\n", joinFloats(t.Threshold))
		fmt.Fprintf(&sb, "decision_type=%s\n", joinInts(decision))
		fmt.Fprintf(&sb, "left_child=%s\n", joinInts(t.LeftChild))
		fmt.Fprintf(&sb, "right_child=%s\n", joinInts(t.RightChild))
		fmt.Fprintf(&sb, "leaf_value=%s\n", joinFloats(leafValue))
		fmt.Fprintf(&sb, "leaf_weight=%s\n", joinFloats(t.LeafWeight))
		fmt.Fprintf(&sb, "leaf_count=%s\n", joinInts(t.LeafCount))
		fmt.Fprintf(&sb, "internal_value=%s\n", joinFloats(internalValue))
		fmt.Fprintf(&sb, "internal_weight=%s\n", joinFloats(t.InternalWeight))
		fmt.Fprintf(&sb, "internal_count=%s\n", joinInts(t.InternalCount))
	}
	sb.WriteString("is_linear=0\n")
	fmt.Fprintf(&sb, "shrinkage=%s\n", formatFloat(t.Shrinkage))
	sb.WriteString("\n\n")
	return sb.String()
}

func addBias(vals []float64, bias float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v + bias
	}
	return out
}

func joinFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, " ")
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
