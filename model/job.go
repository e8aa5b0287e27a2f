package model

import "time"

// ScheduledJob is a durable one-shot job. At most one job exists per key;
// scheduling the same key again replaces the previous entry.
type ScheduledJob struct {
	Key     string    `db:"key"`
	Kind    string    `db:"kind"`
	Payload string    `db:"payload"`
	RunAt   time.Time `db:"run_at"`
}
