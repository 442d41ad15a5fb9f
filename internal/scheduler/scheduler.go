// Package scheduler runs the background loop that promotes scheduled
// drafts to published once their publish time has passed.
package scheduler

import (
	"log/slog"
	"time"

	"blogpress/internal/models"
	"blogpress/internal/store"
)

// Scheduler periodically scans the store for due scheduled posts and
// publishes them. It keeps no watermark: every tick is a full scan, so
// missed ticks (downtime, clock jumps) are harmless — overdue posts simply
// publish on the next successful tick.
type Scheduler struct {
	store    store.Store
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// New creates a scheduler scanning at the given interval.
func New(st store.Store, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:    st,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background loop. It returns immediately; the loop
// runs until Stop is called.
func (s *Scheduler) Start() {
	go s.run()
	slog.Info("publish scheduler started", "interval", s.interval.String())
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
	slog.Info("publish scheduler stopped")
}

func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick(time.Now())
		case <-s.stop:
			return
		}
	}
}

// Tick performs one scan, publishing every scheduled post whose time has
// passed. Failures are logged per post and never abort the scan, so one
// bad record cannot halt the loop. Returns the number of posts published.
func (s *Scheduler) Tick(now time.Time) int {
	posts, err := s.store.GetScheduledPosts()
	if err != nil {
		slog.Error("scheduler scan failed", "error", err)
		return 0
	}

	published := 0
	for i := range posts {
		p := &posts[i]
		if !p.DueAt(now) {
			continue
		}
		if _, err := s.publish(p, now); err != nil {
			slog.Error("scheduled publish failed",
				"post", p.ID,
				"slug", p.Slug,
				"error", err,
			)
			continue
		}
		published++
		slog.Info("scheduled post published",
			"post", p.ID,
			"slug", p.Slug,
			"scheduledFor", p.ScheduledAt,
		)
	}
	return published
}

// publish flips a due draft to published and clears its schedule. Running
// it twice is harmless: a published post no longer turns up in the scan.
func (s *Scheduler) publish(p *models.Post, now time.Time) (*models.Post, error) {
	status := models.PostStatusPublished
	publishedAt := now
	return s.store.UpdatePost(p.ID, store.PostPatch{
		Status:           &status,
		PublishedAt:      &publishedAt,
		ClearScheduledAt: true,
	})
}
