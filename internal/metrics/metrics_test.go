package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordOperation(t *testing.T) {
	before := testutil.ToFloat64(QueriesTotal.WithLabelValues("metrics_test", OpFind, OutcomeOK))

	RecordOperation("metrics_test", OpFind, OutcomeOK, time.Millisecond)
	RecordOperation("metrics_test", OpFind, OutcomeOK, 2*time.Millisecond)

	after := testutil.ToFloat64(QueriesTotal.WithLabelValues("metrics_test", OpFind, OutcomeOK))
	assert.Equal(t, before+2, after)
}

func TestRecordDeleted(t *testing.T) {
	RecordDeleted("metrics_test", "ids", 3)
	RecordDeleted("metrics_test", "ids", 0)
	RecordDeleted("metrics_test", "ids", -1)

	assert.Equal(t, float64(3), testutil.ToFloat64(RowsDeleted.WithLabelValues("metrics_test", "ids")))
}

func TestSetCollectionSize(t *testing.T) {
	SetCollectionSize("metrics_test", 21)
	assert.Equal(t, float64(21), testutil.ToFloat64(CollectionSize.WithLabelValues("metrics_test")))

	SetCollectionSize("metrics_test", 19)
	assert.Equal(t, float64(19), testutil.ToFloat64(CollectionSize.WithLabelValues("metrics_test")))
}

func TestPageRangeBucket(t *testing.T) {
	tests := map[int]string{
		1:    "1-10",
		10:   "1-10",
		11:   "11-50",
		50:   "11-50",
		51:   "51-100",
		100:  "51-100",
		101:  "100+",
		9999: "100+",
	}
	for page, want := range tests {
		assert.Equal(t, want, pageRangeBucket(page), "page %d", page)
	}
}

func TestHandler(t *testing.T) {
	SetCollectionSize("metrics_handler_test", 7)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `tablekit_collection_size{table="metrics_handler_test"} 7`))
}
