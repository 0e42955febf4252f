package sync_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmtsync "github.com/cometbft/sharedcell/libs/sync"
)

const testNamespace = "celltest"

// gathered returns the value of the counter or the sample count of the
// histogram name, restricted to series carrying every label in labels.
func gathered(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()

	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range mfs {
		if mf.GetName() != testNamespace+"_"+cmtsync.MetricsSubsystem+"_"+name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			for k, v := range labels {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == k && lp.GetValue() == v {
						found = true
					}
				}
				if !found {
					continue series
				}
			}
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if h := m.GetHistogram(); h != nil {
				total += float64(h.GetSampleCount())
			}
		}
	}
	return total
}

func TestPrometheusMetrics(t *testing.T) {
	m := cmtsync.PrometheusMetrics(testNamespace)

	c := cmtsync.NewCell(fragile{n: 1}, cmtsync.WithMetrics[fragile](m))
	c.Read()
	c.Write(fragile{n: 2})
	poison(c, errBoom)
	_, _ = c.ReadResult()
	_ = c.WriteResult(fragile{n: 3})

	read := map[string]string{"op": "read"}
	write := map[string]string{"op": "write"}

	assert.Equal(t, 2.0, gathered(t, "accesses", read))
	assert.Equal(t, 3.0, gathered(t, "accesses", write))
	assert.Equal(t, 5.0, gathered(t, "lock_wait_seconds", nil))
	assert.Equal(t, 1.0, gathered(t, "poisonings", nil))
	assert.Equal(t, 1.0, gathered(t, "poisoned_accesses", read))
	assert.Equal(t, 1.0, gathered(t, "poisoned_accesses", write))
}

func TestNopMetrics(t *testing.T) {
	c := cmtsync.NewCell(1, cmtsync.WithMetrics[int](cmtsync.NopMetrics()))
	assert.NotPanics(t, func() {
		c.Write(2)
		c.Read()
	})
}
