package metrics

import "time"

// IncrementBoardCreated increments the board creation counter
func (m *Metrics) IncrementBoardCreated() {
	m.safeExecute("IncrementBoardCreated", func() {
		m.BoardCreatedTotal.Inc()
	})
}

// IncrementCardCreated increments the card creation counter
func (m *Metrics) IncrementCardCreated() {
	m.safeExecute("IncrementCardCreated", func() {
		m.CardCreatedTotal.Inc()
	})
}

// SetBoardsTotal sets the total boards gauge
func (m *Metrics) SetBoardsTotal(count int64) {
	m.safeExecute("SetBoardsTotal", func() {
		m.BoardsTotal.Set(float64(count))
	})
}

// RecordRateLimited counts one rejected request for an operation class
func (m *Metrics) RecordRateLimited(class string) {
	m.safeExecute("RecordRateLimited", func() {
		m.RateLimitedTotal.WithLabelValues(class).Inc()
	})
}

// RecordStoreOp records one store operation's duration and outcome
func (m *Metrics) RecordStoreOp(operation string, duration time.Duration, err error) {
	m.safeExecute("RecordStoreOp", func() {
		m.StoreOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
		if err != nil {
			m.StoreOpErrors.WithLabelValues(operation).Inc()
		}
	})
}

// IncrementBackupRotationFailure counts one swallowed rotation failure
func (m *Metrics) IncrementBackupRotationFailure() {
	m.safeExecute("IncrementBackupRotationFailure", func() {
		m.BackupRotationFailures.Inc()
	})
}
