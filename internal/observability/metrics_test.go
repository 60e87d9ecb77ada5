package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/danmuck/bridgectl/internal/testutil/testlog"
)

func TestRegisterMetricsIsIdempotent(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("GET", "/health", 200, 12*time.Millisecond)
	before := testutil.ToFloat64(reloads.WithLabelValues("all", ReloadBusy))
	RecordReload("all", ReloadBusy)
	if got := testutil.ToFloat64(reloads.WithLabelValues("all", ReloadBusy)); got != before+1 {
		t.Fatalf("expected busy reload counter to advance, got %v want %v", got, before+1)
	}
}

func TestCountersByLabel(t *testing.T) {
	testlog.Start(t)
	handled := testutil.ToFloat64(interactions.WithLabelValues("true"))
	RecordInteraction(true)
	RecordInteraction(false)
	if got := testutil.ToFloat64(interactions.WithLabelValues("true")); got != handled+1 {
		t.Fatalf("unexpected handled count: %v", got)
	}

	fish := testutil.ToFloat64(itemsTranslated.WithLabelValues("tropical_fish_bucket"))
	RecordItemTranslated("tropical_fish_bucket")
	if got := testutil.ToFloat64(itemsTranslated.WithLabelValues("tropical_fish_bucket")); got != fish+1 {
		t.Fatalf("unexpected item count: %v", got)
	}

	drops := testutil.ToFloat64(outboxDropped)
	RecordOutboxDrop()
	if got := testutil.ToFloat64(outboxDropped); got != drops+1 {
		t.Fatalf("unexpected drop count: %v", got)
	}
}

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()), RequestMetricsMiddleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/items/:id", "204"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if got := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/items/:id", "204")); got != before+1 {
		t.Fatalf("expected templated path to be counted, got %v", got)
	}

	missBefore := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	if got := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")); got != missBefore+1 {
		t.Fatalf("expected unmatched path label, got %v", got)
	}
}
