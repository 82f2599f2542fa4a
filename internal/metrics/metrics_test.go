package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
)

// getTestMetrics builds metrics on an unregistered factory so tests never
// collide in the default registry.
func getTestMetrics() *Metrics {
	return NewWithRegistry(nil, zap.NewNop())
}

func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("Failed to write counter metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("Failed to write gauge metric: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestMetricsInitialization(t *testing.T) {
	m := getTestMetrics()

	if m.HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal should not be nil")
	}
	if m.HTTPRequestDuration == nil {
		t.Error("HTTPRequestDuration should not be nil")
	}
	if m.StoreOpDuration == nil {
		t.Error("StoreOpDuration should not be nil")
	}
	if m.StoreOpErrors == nil {
		t.Error("StoreOpErrors should not be nil")
	}
	if m.BackupRotationFailures == nil {
		t.Error("BackupRotationFailures should not be nil")
	}
	if m.RateLimitedTotal == nil {
		t.Error("RateLimitedTotal should not be nil")
	}
	if m.BoardsTotal == nil {
		t.Error("BoardsTotal should not be nil")
	}
	if m.BoardCreatedTotal == nil {
		t.Error("BoardCreatedTotal should not be nil")
	}
	if m.CardCreatedTotal == nil {
		t.Error("CardCreatedTotal should not be nil")
	}
}

func TestIncrementBoardCreated(t *testing.T) {
	m := getTestMetrics()

	initialValue := getCounterValue(t, m.BoardCreatedTotal)
	m.IncrementBoardCreated()

	newValue := getCounterValue(t, m.BoardCreatedTotal)
	if newValue <= initialValue {
		t.Errorf("Expected counter to increment, got %f -> %f", initialValue, newValue)
	}
}

func TestIncrementCardCreated(t *testing.T) {
	m := getTestMetrics()

	initialValue := getCounterValue(t, m.CardCreatedTotal)
	m.IncrementCardCreated()

	newValue := getCounterValue(t, m.CardCreatedTotal)
	if newValue <= initialValue {
		t.Errorf("Expected counter to increment, got %f -> %f", initialValue, newValue)
	}
}

func TestSetBoardsTotal(t *testing.T) {
	m := getTestMetrics()

	tests := []struct {
		name  string
		count int64
	}{
		{"zero boards", 0},
		{"one board", 1},
		{"multiple boards", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.SetBoardsTotal(tt.count)
			value := getGaugeValue(t, m.BoardsTotal)
			if value != float64(tt.count) {
				t.Errorf("Expected gauge value %d, got %f", tt.count, value)
			}
		})
	}
}

func TestRecordRateLimited(t *testing.T) {
	m := getTestMetrics()

	m.RecordRateLimited("read")
	m.RecordRateLimited("read")
	m.RecordRateLimited("write")

	if v := getCounterValue(t, m.RateLimitedTotal.WithLabelValues("read")); v != 2 {
		t.Errorf("Expected read counter 2, got %f", v)
	}
	if v := getCounterValue(t, m.RateLimitedTotal.WithLabelValues("write")); v != 1 {
		t.Errorf("Expected write counter 1, got %f", v)
	}
}

func TestRecordStoreOp(t *testing.T) {
	m := getTestMetrics()

	m.RecordStoreOp("save", 5*time.Millisecond, nil)
	if v := getCounterValue(t, m.StoreOpErrors.WithLabelValues("save")); v != 0 {
		t.Errorf("Expected no errors recorded, got %f", v)
	}

	m.RecordStoreOp("save", 5*time.Millisecond, errors.New("disk full"))
	if v := getCounterValue(t, m.StoreOpErrors.WithLabelValues("save")); v != 1 {
		t.Errorf("Expected one error recorded, got %f", v)
	}
}

func TestIncrementBackupRotationFailure(t *testing.T) {
	m := getTestMetrics()

	m.IncrementBackupRotationFailure()
	if v := getCounterValue(t, m.BackupRotationFailures); v != 1 {
		t.Errorf("Expected failure counter 1, got %f", v)
	}
}

func TestCategorizeStatus(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{429, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
		{100, "unknown"},
	}

	for _, tt := range tests {
		if got := categorizeStatus(tt.code); got != tt.want {
			t.Errorf("categorizeStatus(%d) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestShouldSkipEndpoint(t *testing.T) {
	for _, path := range []string{"/metrics", "/health", "/api/metrics", "/api/health"} {
		if !ShouldSkipEndpoint(path) {
			t.Errorf("Expected %s to be skipped", path)
		}
	}
	if ShouldSkipEndpoint("/api/boards") {
		t.Error("Expected /api/boards not to be skipped")
	}
}
