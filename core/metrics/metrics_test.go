package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRun(t *testing.T) {
	before := testutil.ToFloat64(runsTotal.WithLabelValues(StatusSuccess))

	ObserveRun(StatusSuccess, 20*time.Millisecond, RunStats{Fetched: 3, Admitted: 2, Filtered: 1, Groups: 7})

	assert.Equal(t, before+1, testutil.ToFloat64(runsTotal.WithLabelValues(StatusSuccess)))
	assert.Equal(t, float64(2), testutil.ToFloat64(hostsTotal.WithLabelValues("admitted")))
	assert.Equal(t, float64(7), testutil.ToFloat64(groupsTotal))
}

func TestObserveRun_FailureKeepsGauges(t *testing.T) {
	ObserveRun(StatusSuccess, time.Millisecond, RunStats{Groups: 4})
	ObserveRun(StatusFailure, time.Millisecond, RunStats{})

	assert.Equal(t, float64(4), testutil.ToFloat64(groupsTotal))
}

func TestRuleFailed(t *testing.T) {
	before := testutil.ToFloat64(ruleFailures.WithLabelValues("compose"))
	RuleFailed("compose")
	assert.Equal(t, before+1, testutil.ToFloat64(ruleFailures.WithLabelValues("compose")))
}
