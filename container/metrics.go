package container

import "sync/atomic"

type MetricsSnapshot struct {
	Commits       int64
	NoOps         int64
	Notifications int64
}

// Metrics counts activity on a single node. Counters are atomic so a
// snapshot can be read from another goroutine.
type Metrics struct {
	commits       atomic.Int64
	noops         atomic.Int64
	notifications atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordCommit(delta int) {
	m.commits.Add(int64(delta))
}

func (m *Metrics) RecordNoop(delta int) {
	m.noops.Add(int64(delta))
}

func (m *Metrics) RecordNotification(delta int) {
	m.notifications.Add(int64(delta))
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Commits:       m.commits.Load(),
		NoOps:         m.noops.Load(),
		Notifications: m.notifications.Load(),
	}
}
