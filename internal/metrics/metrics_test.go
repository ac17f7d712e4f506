package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveStep(t *testing.T) {
	before := testutil.ToFloat64(sideEffectSteps.WithLabelValues("assign_role", "error"))

	ObserveStep("assign_role", errors.New("discord down"))

	after := testutil.ToFloat64(sideEffectSteps.WithLabelValues("assign_role", "error"))
	assert.Equal(t, before+1, after)
}

func TestObserveRankCache(t *testing.T) {
	hits := testutil.ToFloat64(rankCache.WithLabelValues("hit"))
	misses := testutil.ToFloat64(rankCache.WithLabelValues("miss"))

	ObserveRankCache(true)
	ObserveRankCache(false)
	ObserveRankCache(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(rankCache.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(rankCache.WithLabelValues("miss")))
}
