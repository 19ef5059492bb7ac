package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kontent_metrics_test_total",
	Help: "Counter used by the metrics package tests",
}, []string{"listing"})

func TestRegistry(t *testing.T) {
	assert.Equal(t, prometheus.DefaultRegisterer, Registry)
	assert.Equal(t, prometheus.DefaultGatherer, Gatherer)
}

func TestHandler(t *testing.T) {
	testCounter.WithLabelValues("items").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `kontent_metrics_test_total{listing="items"}`)
}

func TestSnapshot(t *testing.T) {
	testCounter.WithLabelValues("types").Add(2)

	snap, err := Snapshot("kontent_metrics_test")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, snap["kontent_metrics_test_total,listing=types"], 2.0)
	for key := range snap {
		assert.Contains(t, key, "kontent_metrics_test")
	}
}
