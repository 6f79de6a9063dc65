package forest

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	apperrors "leagueforecast/internal/errors"
)

// TreeOptions are the growth limits of a single regression tree
type TreeOptions struct {
	// MaxDepth limits the depth; 0 means unlimited
	MaxDepth int
	// MinSamplesSplit is the smallest node that may be split
	MinSamplesSplit int
	// MinSamplesLeaf is the smallest allowed child
	MinSamplesLeaf int
	// MaxFeatures is the number of features drawn per split; 0 means all
	MaxFeatures int
	// RandomState seeds feature sampling
	RandomState int64
}

func (o TreeOptions) withDefaults() TreeOptions {
	if o.MinSamplesSplit < 2 {
		o.MinSamplesSplit = 2
	}
	if o.MinSamplesLeaf < 1 {
		o.MinSamplesLeaf = 1
	}
	return o
}

// node is a split or, when leaf is set, a constant prediction
type node struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *node
	right     *node
}

// Tree is a CART regressor using variance reduction
type Tree struct {
	opts        TreeOptions
	root        *node
	nFeatures   int
	importances []float64
}

// NewTree returns an unfitted tree
func NewTree(opts TreeOptions) *Tree {
	return &Tree{opts: opts.withDefaults()}
}

// Fit grows the tree on every row of X
func (t *Tree) Fit(X [][]float64, y []float64) error {
	if err := checkTraining(X, y); err != nil {
		return err
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.fit(X, y, idx, rand.New(rand.NewSource(t.opts.RandomState)))
	return nil
}

// fit grows the tree on the rows listed in idx, which may repeat
func (t *Tree) fit(X [][]float64, y []float64, idx []int, rng *rand.Rand) {
	t.nFeatures = len(X[0])
	t.importances = make([]float64, t.nFeatures)
	b := builder{tree: t, X: X, y: y, rng: rng}
	t.root = b.grow(idx, 0)
}

// Predict returns one prediction per row of X
func (t *Tree) Predict(X [][]float64) ([]float64, error) {
	if t.root == nil {
		return nil, apperrors.ErrNotFitted
	}
	out := make([]float64, len(X))
	for i, x := range X {
		if len(x) != t.nFeatures {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(x), t.nFeatures)
		}
		out[i] = t.predictOne(x)
	}
	return out, nil
}

func (t *Tree) predictOne(x []float64) float64 {
	n := t.root
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// Depth is the number of splits on the longest root to leaf path
func (t *Tree) Depth() int {
	var depth func(n *node) int
	depth = func(n *node) int {
		if n == nil || n.leaf {
			return 0
		}
		return 1 + max(depth(n.left), depth(n.right))
	}
	return depth(t.root)
}

// builder holds the state of one Fit call
type builder struct {
	tree *Tree
	X    [][]float64
	y    []float64
	rng  *rand.Rand
}

type split struct {
	feature   int
	threshold float64
	left      []int
	right     []int
	sse       float64
}

func (b *builder) grow(idx []int, depth int) *node {
	opts := b.tree.opts
	mean, sse := meanSSE(b.y, idx)
	leaf := &node{leaf: true, value: mean}

	if len(idx) < opts.MinSamplesSplit ||
		len(idx) < 2*opts.MinSamplesLeaf ||
		(opts.MaxDepth > 0 && depth >= opts.MaxDepth) ||
		sse <= 1e-12*float64(len(idx)) {
		return leaf
	}

	best, ok := b.bestSplit(idx, sse)
	if !ok {
		return leaf
	}
	b.tree.importances[best.feature] += sse - best.sse

	return &node{
		feature:   best.feature,
		threshold: best.threshold,
		left:      b.grow(best.left, depth+1),
		right:     b.grow(best.right, depth+1),
	}
}

// bestSplit scans the candidate features for the split with the lowest
// combined squared error. Ties keep the first candidate found.
func (b *builder) bestSplit(idx []int, parentSSE float64) (split, bool) {
	minLeaf := b.tree.opts.MinSamplesLeaf
	n := len(idx)

	best := split{sse: parentSSE}
	found := false
	sorted := make([]int, n)

	for _, f := range b.candidateFeatures() {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.X[sorted[i]][f] < b.X[sorted[j]][f]
		})

		var totalSum, totalSq float64
		for _, i := range sorted {
			totalSum += b.y[i]
			totalSq += b.y[i] * b.y[i]
		}

		var leftSum, leftSq float64
		for k := 0; k < n-1; k++ {
			v := b.y[sorted[k]]
			leftSum += v
			leftSq += v * v

			nl := k + 1
			nr := n - nl
			if nl < minLeaf || nr < minLeaf {
				continue
			}
			lo, hi := b.X[sorted[k]][f], b.X[sorted[k+1]][f]
			if lo == hi {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(nl)) + (rightSq - rightSum*rightSum/float64(nr))
			if sse < best.sse-1e-12 {
				best = split{feature: f, threshold: midpoint(lo, hi), sse: sse}
				best.left = append([]int(nil), sorted[:nl]...)
				best.right = append([]int(nil), sorted[nl:]...)
				found = true
			}
		}
	}
	return best, found
}

// candidateFeatures returns every feature, or a random MaxFeatures subset
func (b *builder) candidateFeatures() []int {
	p := b.tree.nFeatures
	k := b.tree.opts.MaxFeatures
	if k <= 0 || k >= p {
		all := make([]int, p)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := b.rng.Perm(p)[:k]
	sort.Ints(perm)
	return perm
}

// midpoint falls back to lo when rounding would put the threshold on hi
func midpoint(lo, hi float64) float64 {
	m := lo + (hi-lo)/2
	if m >= hi || math.IsInf(m, 0) {
		return lo
	}
	return m
}

func meanSSE(y []float64, idx []int) (mean, sse float64) {
	for _, i := range idx {
		mean += y[i]
	}
	mean /= float64(len(idx))
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	return mean, sse
}

func checkTraining(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return apperrors.ErrEmptyTrainingSet
	}
	if len(y) != len(X) {
		return fmt.Errorf("X has %d rows but y has %d", len(X), len(y))
	}
	p := len(X[0])
	if p == 0 {
		return errors.New("X has no features")
	}
	for i, row := range X {
		if len(row) != p {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), p)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("row %d feature %d is not finite", i, j)
			}
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return fmt.Errorf("target %d is not finite", i)
		}
	}
	return nil
}
