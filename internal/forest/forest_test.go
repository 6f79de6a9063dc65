package forest

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "leagueforecast/internal/errors"
)

func stepData(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		x0 := rng.Float64() * 10
		x1 := rng.Float64() * 10
		X[i] = []float64{x0, x1}
		if x0 < 5 {
			y[i] = 10
		} else {
			y[i] = 50
		}
	}
	return X, y
}

func TestTree_ConstantTarget(t *testing.T) {
	X := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	y := []float64{7, 7, 7}

	tree := NewTree(TreeOptions{})
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, 0, tree.Depth())

	preds, err := tree.Predict([][]float64{{100, -100}})
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, preds)
}

func TestTree_StepFunction(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{0, 0, 10, 10}

	tree := NewTree(TreeOptions{})
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, 1, tree.Depth())

	preds, err := tree.Predict([][]float64{{2.4}, {2.5}, {2.6}, {-5}, {99}})
	require.NoError(t, err)
	// Threshold sits at the midpoint 2.5, inclusive on the left
	assert.Equal(t, []float64{0, 0, 10, 0, 10}, preds)
}

func TestTree_Limits(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}}
	y := []float64{1, 2, 3, 4, 5, 6}

	stump := NewTree(TreeOptions{MaxDepth: 1})
	require.NoError(t, stump.Fit(X, y))
	assert.Equal(t, 1, stump.Depth())

	full := NewTree(TreeOptions{})
	require.NoError(t, full.Fit(X, y))
	preds, err := full.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, y, preds, "an unlimited tree memorises distinct points")

	leafy := NewTree(TreeOptions{MinSamplesLeaf: 3})
	require.NoError(t, leafy.Fit(X, y))
	preds, err = leafy.Predict([][]float64{{1}, {6}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5}, preds)
}

func TestTree_Errors(t *testing.T) {
	tree := NewTree(TreeOptions{})
	_, err := tree.Predict([][]float64{{1}})
	assert.ErrorIs(t, err, apperrors.ErrNotFitted)

	assert.ErrorIs(t, tree.Fit(nil, nil), apperrors.ErrEmptyTrainingSet)
	assert.Error(t, tree.Fit([][]float64{{1}}, []float64{1, 2}))
	assert.Error(t, tree.Fit([][]float64{{1}, {1, 2}}, []float64{1, 2}))

	require.NoError(t, tree.Fit([][]float64{{1}, {2}}, []float64{1, 2}))
	_, err = tree.Predict([][]float64{{1, 2}})
	assert.Error(t, err)
}

func TestRandomForest_ConstantTarget(t *testing.T) {
	X, _ := stepData(40, 1)
	y := make([]float64, len(X))
	for i := range y {
		y[i] = 52
	}

	rf := New(WithNEstimators(20))
	require.NoError(t, rf.Fit(context.Background(), X, y))
	preds, err := rf.Predict(context.Background(), X[:5])
	require.NoError(t, err)
	for _, p := range preds {
		assert.Equal(t, 52.0, p)
	}
}

func TestRandomForest_StepFunction(t *testing.T) {
	X, y := stepData(200, 7)
	rf := New(WithNEstimators(50))
	require.NoError(t, rf.Fit(context.Background(), X, y))

	preds, err := rf.Predict(context.Background(), [][]float64{{1, 5}, {9, 5}})
	require.NoError(t, err)
	assert.InDelta(t, 10, preds[0], 1)
	assert.InDelta(t, 50, preds[1], 1)

	imp, err := rf.FeatureImportances()
	require.NoError(t, err)
	require.Len(t, imp, 2)
	assert.InDelta(t, 1, imp[0]+imp[1], 1e-9)
	assert.Greater(t, imp[0], imp[1])
}

func TestRandomForest_DeterministicAcrossWorkers(t *testing.T) {
	X, y := stepData(80, 3)
	for i := range y {
		y[i] += X[i][1]
	}
	samples := [][]float64{{2, 2}, {4.9, 8}, {6, 1}, {9.5, 9.5}}

	var first []float64
	for _, workers := range []int{1, 3, 8} {
		rf := New(WithNEstimators(30), WithWorkers(workers), WithMaxFeatures(1))
		require.NoError(t, rf.Fit(context.Background(), X, y))
		preds, err := rf.Predict(context.Background(), samples)
		require.NoError(t, err)
		if first == nil {
			first = preds
			continue
		}
		assert.Equal(t, first, preds, "workers=%d", workers)
	}

	other := New(WithNEstimators(30), WithMaxFeatures(1), WithRandomState(7))
	require.NoError(t, other.Fit(context.Background(), X, y))
	preds, err := other.Predict(context.Background(), samples)
	require.NoError(t, err)
	assert.NotEqual(t, first, preds, "a different seed gives a different forest")
}

func TestRandomForest_NoBootstrapMatchesTree(t *testing.T) {
	X, y := stepData(30, 11)
	rf := New(WithNEstimators(5), WithBootstrap(false))
	require.NoError(t, rf.Fit(context.Background(), X, y))

	tree := NewTree(TreeOptions{MaxDepth: 25})
	require.NoError(t, tree.Fit(X, y))

	want, err := tree.Predict(X)
	require.NoError(t, err)
	got, err := rf.Predict(context.Background(), X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, got, 1e-9)
}

func TestRandomForest_Errors(t *testing.T) {
	rf := New()
	_, err := rf.Predict(context.Background(), [][]float64{{1}})
	assert.ErrorIs(t, err, apperrors.ErrNotFitted)
	_, err = rf.FeatureImportances()
	assert.ErrorIs(t, err, apperrors.ErrNotFitted)

	assert.ErrorIs(t, rf.Fit(context.Background(), nil, nil), apperrors.ErrEmptyTrainingSet)
	assert.Error(t, New(WithNEstimators(0)).Fit(context.Background(), [][]float64{{1}}, []float64{1}))
}

func TestRandomForest_Cancelled(t *testing.T) {
	X, y := stepData(50, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rf := New(WithNEstimators(100))
	assert.ErrorIs(t, rf.Fit(ctx, X, y), context.Canceled)
	assert.False(t, rf.Fitted())
}

func TestScore(t *testing.T) {
	m, err := Score([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, Metrics{MAE: 0, RMSE: 0, R2: 1, N: 4}, m)

	m, err = Score([]float64{0, 0, 10, 10}, []float64{1, -1, 9, 13})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, m.MAE, 1e-9)
	assert.InDelta(t, 1.7320508, m.RMSE, 1e-6)
	// ssRes = 1+1+1+9 = 12, ssTot = 100
	assert.InDelta(t, 0.88, m.R2, 1e-9)

	m, err = Score([]float64{5, 5}, []float64{4, 6})
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.R2)

	_, err = Score(nil, nil)
	assert.Error(t, err)
	_, err = Score([]float64{1}, []float64{1, 2})
	assert.Error(t, err)

	m, err = Score([]float64{0, 0, 10, 10}, []float64{1, -1, 9, 13})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, m.MAE, 1e-9)
}
