package forest

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	apperrors "leagueforecast/internal/errors"
)

// RandomForest is a bagged ensemble of regression trees
type RandomForest struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Bootstrap       bool
	RandomState     int64
	// Workers bounds concurrent tree fits; 0 means GOMAXPROCS
	Workers int

	trees []*Tree
}

// Option configures a RandomForest
type Option func(*RandomForest)

func WithNEstimators(n int) Option     { return func(rf *RandomForest) { rf.NEstimators = n } }
func WithMaxDepth(d int) Option        { return func(rf *RandomForest) { rf.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option { return func(rf *RandomForest) { rf.MinSamplesSplit = n } }
func WithMinSamplesLeaf(n int) Option  { return func(rf *RandomForest) { rf.MinSamplesLeaf = n } }
func WithMaxFeatures(k int) Option     { return func(rf *RandomForest) { rf.MaxFeatures = k } }
func WithBootstrap(b bool) Option      { return func(rf *RandomForest) { rf.Bootstrap = b } }
func WithRandomState(s int64) Option   { return func(rf *RandomForest) { rf.RandomState = s } }
func WithWorkers(n int) Option         { return func(rf *RandomForest) { rf.Workers = n } }

// New returns a forest with 1000 fully grown trees up to depth 25, seeded
// with 42, then applies opts
func New(opts ...Option) *RandomForest {
	rf := &RandomForest{
		NEstimators:     1000,
		MaxDepth:        25,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Bootstrap:       true,
		RandomState:     42,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

func (rf *RandomForest) workers() int {
	if rf.Workers > 0 {
		return rf.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (rf *RandomForest) treeOptions(idx int) TreeOptions {
	return TreeOptions{
		MaxDepth:        rf.MaxDepth,
		MinSamplesSplit: rf.MinSamplesSplit,
		MinSamplesLeaf:  rf.MinSamplesLeaf,
		MaxFeatures:     rf.MaxFeatures,
		RandomState:     rf.RandomState + int64(idx),
	}
}

// Fit trains NEstimators trees concurrently. Cancelling ctx stops the
// remaining fits and returns the context error.
func (rf *RandomForest) Fit(ctx context.Context, X [][]float64, y []float64) error {
	if err := checkTraining(X, y); err != nil {
		return err
	}
	if rf.NEstimators < 1 {
		return fmt.Errorf("forest needs at least one tree, got %d", rf.NEstimators)
	}

	n := len(X)
	trees := make([]*Tree, rf.NEstimators)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rf.workers())

	for i := 0; i < rf.NEstimators; i++ {
		if gctx.Err() != nil {
			break
		}
		idx := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(rf.RandomState + int64(idx)))

			sample := make([]int, n)
			for j := range sample {
				if rf.Bootstrap {
					sample[j] = rng.Intn(n)
				} else {
					sample[j] = j
				}
			}

			tree := NewTree(rf.treeOptions(idx))
			tree.fit(X, y, sample, rng)
			trees[idx] = tree
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	rf.trees = trees
	return nil
}

// Fitted reports whether Fit has completed
func (rf *RandomForest) Fitted() bool {
	return len(rf.trees) > 0
}

// Predict returns the mean of the trees' predictions for each row of X.
// Trees are summed in index order so the result is reproducible.
func (rf *RandomForest) Predict(ctx context.Context, X [][]float64) ([]float64, error) {
	if !rf.Fitted() {
		return nil, apperrors.ErrNotFitted
	}

	perTree := make([][]float64, len(rf.trees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rf.workers())
	for i, tree := range rf.trees {
		if gctx.Err() != nil {
			break
		}
		i, tree := i, tree
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			preds, err := tree.Predict(X)
			if err != nil {
				return err
			}
			perTree[i] = preds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]float64, len(X))
	for _, preds := range perTree {
		for j, v := range preds {
			out[j] += v
		}
	}
	for j := range out {
		out[j] /= float64(len(perTree))
	}
	return out, nil
}

// FeatureImportances returns the normalised total variance reduction per
// feature, averaged over trees
func (rf *RandomForest) FeatureImportances() ([]float64, error) {
	if !rf.Fitted() {
		return nil, apperrors.ErrNotFitted
	}
	p := rf.trees[0].nFeatures
	out := make([]float64, p)
	for _, t := range rf.trees {
		total := 0.0
		for _, v := range t.importances {
			total += v
		}
		if total == 0 {
			continue
		}
		for f, v := range t.importances {
			out[f] += v / total
		}
	}
	sum := 0.0
	for _, v := range out {
		sum += v
	}
	if sum > 0 {
		for f := range out {
			out[f] /= sum
		}
	}
	return out, nil
}
