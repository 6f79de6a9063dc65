package app

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leagueforecast/internal/pipeline"
)

func TestWriteSummary(t *testing.T) {
	state := pipeline.NewState("run-1")
	state.Start()

	merge := pipeline.NewStepState(pipeline.StepIDMerge, pipeline.StepNameMerge)
	merge.Start()
	merge.Complete("merged 4 files")
	state.SetStep(pipeline.StepIDMerge, merge)

	features := pipeline.NewStepState(pipeline.StepIDFeatures, pipeline.StepNameFeatures)
	features.Start()
	features.Fail(errors.New("missing required column"))
	state.SetStep(pipeline.StepIDFeatures, features)

	state.AddOutput("combined", "/data/combined_data.csv")
	state.Fail(errors.New("features failed"))

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, state))

	out := buf.String()
	assert.Contains(t, out, "Run run-1: failed")
	assert.Regexp(t, `merge\s+completed\s+\S+\s+merged 4 files`, out)
	assert.Regexp(t, `features\s+failed\s+\S+\s+missing required column`, out)
	assert.Regexp(t, `combined\s+/data/combined_data.csv`, out)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("merge")), bytes.Index(buf.Bytes(), []byte("features")))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Equal(t, []string{"merge", "train"}, SplitList(" merge, ,train "))
}
