package handlers

import "time"

// SetClock replaces the handler's time source in tests.
func (h *Handler) SetClock(now func() time.Time) { h.now = now }

// SetLimiterClock replaces the limiter's time source in tests.
func (l *Limiter) SetLimiterClock(now func() time.Time) { l.now = now }

// SetPingErr makes the mock store's Ping fail with err.
func (m *MockStore) SetPingErr(err error) {
	m.mu.Lock()
	m.pingErr = err
	m.mu.Unlock()
}
