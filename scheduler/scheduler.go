// Package scheduler provides a durable one-shot job scheduler. Jobs are
// keyed, persisted in the bot database and survive restarts; at most one
// job exists per key. Handlers are registered per job kind and receive the
// job payload (plain identifiers, never live session objects) so that
// collaborators can be resolved at execution time.
package scheduler

import (
	"log"
	"sync"
	"time"

	"sam-bot/model"
	"sam-bot/utils/database"

	"github.com/jmoiron/sqlx"
)

// HandlerFunc executes a due job. The payload carries plain identifiers
// (user id, channel id) stored at scheduling time.
type HandlerFunc func(payload string)

// Scheduler dispatches persisted one-shot jobs.
type Scheduler struct {
	db       *sqlx.DB
	interval time.Duration

	mu       sync.Mutex
	handlers map[string]HandlerFunc

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a scheduler polling for due jobs at the given interval.
func New(db *sqlx.DB, interval time.Duration) *Scheduler {
	return &Scheduler{
		db:       db,
		interval: interval,
		handlers: make(map[string]HandlerFunc),
		done:     make(chan struct{}),
	}
}

// RegisterHandler binds a job kind to its handler. Must be called before
// Start for every kind that may be stored in the database.
func (s *Scheduler) RegisterHandler(kind string, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[kind] = fn
}

// Schedule stores a job, replacing any pending job with the same key.
func (s *Scheduler) Schedule(key string, runAt time.Time, kind, payload string) error {
	return database.UpsertJob(s.db, model.ScheduledJob{
		Key:     key,
		Kind:    kind,
		Payload: payload,
		RunAt:   runAt,
	})
}

// Cancel removes a pending job. Cancelling a key that has no pending job
// is not an error; the return value reports whether a job was removed.
func (s *Scheduler) Cancel(key string) bool {
	removed, err := database.DeleteJob(s.db, key)
	if err != nil {
		log.Printf("Error cancelling job %s: %v", key, err)
		return false
	}
	return removed
}

// Get returns the pending job with the given key, if any.
func (s *Scheduler) Get(key string) (*model.ScheduledJob, bool) {
	job, err := database.GetJob(s.db, key)
	if err != nil {
		log.Printf("Error looking up job %s: %v", key, err)
		return nil, false
	}
	if job == nil {
		return nil, false
	}
	return job, true
}

// Start begins the dispatch loop. Jobs already due (e.g. after a restart
// while the process was down) fire on the first tick.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.dispatchDue()
		for {
			select {
			case <-ticker.C:
				s.dispatchDue()
			case <-s.done:
				return
			}
		}
	}()
}

// Stop terminates the dispatch loop and waits for it to finish.
func (s *Scheduler) Stop() {
	close(s.done)
	s.wg.Wait()
}

func (s *Scheduler) dispatchDue() {
	jobs, err := database.GetDueJobs(s.db, time.Now())
	if err != nil {
		log.Printf("Error getting due jobs: %v", err)
		return
	}

	for _, job := range jobs {
		// Delete first so a handler panic or a concurrent cancel cannot
		// cause a second fire; handlers are idempotent regardless.
		removed, err := database.DeleteJob(s.db, job.Key)
		if err != nil {
			log.Printf("Error removing due job %s: %v", job.Key, err)
			continue
		}
		if !removed {
			continue
		}

		s.mu.Lock()
		handler, ok := s.handlers[job.Kind]
		s.mu.Unlock()
		if !ok {
			log.Printf("No handler registered for job kind %q (key %s), dropping", job.Kind, job.Key)
			continue
		}
		handler(job.Payload)
	}
}
