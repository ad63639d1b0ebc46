package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorsRegistered(t *testing.T) {
	before := testutil.ToFloat64(SelectionRejections.WithLabelValues("already_zero"))
	SelectionRejections.WithLabelValues("already_zero").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(SelectionRejections.WithLabelValues("already_zero")))

	before = testutil.ToFloat64(Allocations)
	Allocations.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Allocations))
}
