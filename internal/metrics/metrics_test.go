package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRecommendation(t *testing.T) {
	okBefore := testutil.ToFloat64(RecommendRequests.WithLabelValues("goal", "ok"))
	errBefore := testutil.ToFloat64(RecommendRequests.WithLabelValues("goal", "error"))

	RecordRecommendation("goal", 10*time.Millisecond, nil)
	RecordRecommendation("goal", 10*time.Millisecond, errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(RecommendRequests.WithLabelValues("goal", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(RecommendRequests.WithLabelValues("goal", "error")))
}

func TestRecordUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequests.WithLabelValues("llm", "error"))
	RecordUpstream("llm", errors.New("timeout"))
	assert.Equal(t, before+1, testutil.ToFloat64(UpstreamRequests.WithLabelValues("llm", "error")))
}
