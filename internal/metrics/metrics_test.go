package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveJob(t *testing.T) {
	runs := testutil.ToFloat64(JobRuns.WithLabelValues("digest"))
	fails := testutil.ToFloat64(JobErrors.WithLabelValues("digest"))

	ObserveJob("digest", time.Millisecond, nil)
	ObserveJob("digest", time.Millisecond, errors.New("smtp down"))

	if got := testutil.ToFloat64(JobRuns.WithLabelValues("digest")); got != runs+2 {
		t.Fatalf("прогонов: ожидали %v, получили %v", runs+2, got)
	}
	if got := testutil.ToFloat64(JobErrors.WithLabelValues("digest")); got != fails+1 {
		t.Fatalf("ошибок: ожидали %v, получили %v", fails+1, got)
	}
}

func TestObserveNotification(t *testing.T) {
	before := testutil.ToFloat64(Notifications.WithLabelValues("email", "error"))
	ObserveNotification("email", errors.New("smtp down"))
	if got := testutil.ToFloat64(Notifications.WithLabelValues("email", "error")); got != before+1 {
		t.Fatalf("ожидали +1 неудачную отправку, получили %v -> %v", before, got)
	}
}
