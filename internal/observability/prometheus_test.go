package observability_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reuselens/reuselens/internal/observability"
)

func TestPrometheusBridge(t *testing.T) {
	t.Parallel()

	handler, provider, err := observability.PrometheusBridge()
	require.NoError(t, err)
	require.NotNil(t, handler)
	require.NotNil(t, provider)

	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	metrics, err := observability.NewScanMetrics(provider.Meter("test"))
	require.NoError(t, err)

	metrics.RecordFile(context.Background(), "ok", 3*time.Millisecond)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "reuselens_scan_files")
}

func TestPrometheusBridge_IndependentRegistries(t *testing.T) {
	t.Parallel()

	_, first, err := observability.PrometheusBridge()
	require.NoError(t, err)

	_, second, err := observability.PrometheusBridge()
	require.NoError(t, err)

	// Two bridges never share collectors, so repeated setup cannot
	// trigger duplicate registration errors.
	assert.NotSame(t, first, second)

	ctx := context.Background()
	assert.NoError(t, first.Shutdown(ctx))
	assert.NoError(t, second.Shutdown(ctx))
}
