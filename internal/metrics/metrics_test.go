package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.Observe(ctx, "generate", true, 10*time.Millisecond)
	m.Observe(ctx, "generate", true, 20*time.Millisecond)
	m.Observe(ctx, "generate", false, time.Millisecond)
	m.Observe(ctx, "", true, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("generate", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("generate", ResultError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}

func TestGenerated(t *testing.T) {
	m := New()
	m.Generated(2, 37)
	m.Generated(1, 24)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Documents))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Members))
	assert.Equal(t, 61.0, testutil.ToFloat64(m.Segments))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Generated(1, 24)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "edi834_documents_generated_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	r.Observe(context.Background(), "x", true, time.Second)
	r.Generated(1, 1)
}
