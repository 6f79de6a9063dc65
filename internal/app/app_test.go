package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leagueforecast/internal/config"
	"leagueforecast/internal/infrastructure"
	"leagueforecast/internal/pipeline"
)

func testEnvironment(t *testing.T) *Environment {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Logging.Output = "file"
	cfg.Telemetry.TraceExporter = "none"

	env, err := NewEnvironment("test", cfg)
	require.NoError(t, err)
	t.Cleanup(func() { env.Close(context.Background()) })
	return env
}

func TestNewEnvironment(t *testing.T) {
	env := testEnvironment(t)

	assert.Equal(t, "test", env.Command)
	assert.DirExists(t, env.Paths.PremierLeagueDir)
	assert.DirExists(t, env.Paths.ChampionshipDir)
	assert.DirExists(t, env.Paths.ReportsDir)
	require.NotNil(t, env.OTel.Metrics)

	deps := env.PipelineDeps(nil)
	assert.Same(t, env.Config, deps.Config)
	assert.Same(t, env.Paths, deps.Paths)
	assert.Same(t, env.OTel.Metrics, deps.Metrics)
	assert.Nil(t, deps.Store)

	assert.Equal(t, filepath.Join(env.Paths.ReportsDir, "metrics.prom"), env.MetricsFile())
}

func TestEnvironment_OpenStore(t *testing.T) {
	env := testEnvironment(t)
	ctx := context.Background()

	st, err := env.OpenStore(ctx)
	require.NoError(t, err)
	require.NotNil(t, st)
	defer st.Close()
	assert.FileExists(t, env.Config.StorePath(env.Paths))

	env.Config.Store.Enabled = false
	none, err := env.OpenStore(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestEnvironment_RunMissingInput(t *testing.T) {
	env := testEnvironment(t)

	state, err := env.Run(context.Background(), env.PipelineDeps(nil), pipeline.StepIDFeatures)
	require.Error(t, err)
	assert.Equal(t, pipeline.StatusFailed, state.Status)
	assert.Equal(t, pipeline.ErrorTypeValidation, pipeline.GetErrorType(err))
}

func TestEnvironment_CloseWritesMetrics(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Logging.Output = "file"
	cfg.Telemetry.TraceExporter = "none"
	env, err := NewEnvironment("metrics", cfg)
	require.NoError(t, err)

	env.OTel.Metrics.RecordRows(context.Background(), "features", "written", 3)
	env.Close(context.Background())

	data, err := os.ReadFile(env.MetricsFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "pipeline_rows_processed_total")
}

func TestServer_Handler(t *testing.T) {
	env := testEnvironment(t)
	st, err := env.OpenStore(context.Background())
	require.NoError(t, err)
	defer st.Close()

	srv, err := NewServer(env, st)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), Version)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/standings", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_request")
}

func TestServer_ServeShutsDown(t *testing.T) {
	env := testEnvironment(t)
	st, err := env.OpenStore(context.Background())
	require.NoError(t, err)
	defer st.Close()

	srv, err := NewServer(env, st)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
