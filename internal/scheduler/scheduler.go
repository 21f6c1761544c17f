// Package scheduler runs the periodic background jobs of the server.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gachaactu/backend/internal/cache"
	"gachaactu/backend/internal/database"
	"gachaactu/backend/internal/models"

	"github.com/robfig/cron/v3"
)

const (
	PublishSpec = "@every 1m"
	SweepSpec   = "@every 5m"
)

// scheduled lists the content types that can be published in the future and
// the cache tags to drop when one goes live.
var scheduled = []struct {
	model any
	table string
	tags  []string
}{
	{&models.Article{}, "articles", []string{cache.TagArticles, cache.TagGames}},
	{&models.Guide{}, "guides", []string{cache.TagGuides, cache.TagGames}},
	{&models.YouTubeVideo{}, "youtube_videos", []string{cache.TagVideos}},
}

// Scheduler publishes scheduled content and evicts expired cache entries.
type Scheduler struct {
	cron    *cron.Cron
	store   *cache.Store
	now     func() time.Time
	lastRun time.Time
	mu      sync.Mutex
	started bool
}

// New creates a scheduler working on store. Content published before New is
// considered already visible.
func New(store *cache.Store) *Scheduler {
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn))
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		store:   store,
		now:     time.Now,
		lastRun: time.Now().UTC(),
	}
}

// Start registers the jobs and starts the cron goroutine.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if _, err := s.cron.AddFunc(PublishSpec, func() { s.PublishDue() }); err != nil {
		return fmt.Errorf("add publish job: %w", err)
	}
	if _, err := s.cron.AddFunc(SweepSpec, func() { s.SweepCache() }); err != nil {
		return fmt.Errorf("add sweep job: %w", err)
	}

	s.cron.Start()
	s.started = true
	slog.Info("scheduler started", "publish", PublishSpec, "sweep", SweepSpec)
	return nil
}

// Stop halts the scheduler. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	s.started = false
	return s.cron.Stop()
}

// PublishDue revalidates the cache tags of content whose publication date
// fell between the previous run and now. It returns the revalidated tags.
func (s *Scheduler) PublishDue() []string {
	now := s.now().UTC()
	since := s.lastRun

	var tags []string
	for _, kind := range scheduled {
		var count int64
		err := database.DB.Model(kind.model).
			Where(kind.table+".published_at > ? AND "+kind.table+".published_at <= ?", since, now).
			Count(&count).Error
		if err != nil {
			// lastRun is kept so the window is retried next time.
			slog.Error("publish sweep failed", "table", kind.table, "error", err)
			return nil
		}
		if count > 0 {
			slog.Info("scheduled content went live", "table", kind.table, "count", count)
			tags = append(tags, kind.tags...)
		}
	}

	if len(tags) > 0 {
		s.store.Revalidate(tags...)
	}
	s.lastRun = now
	return tags
}

// SweepCache drops expired cache entries.
func (s *Scheduler) SweepCache() int {
	removed := s.store.Sweep(s.now())
	if removed > 0 {
		slog.Debug("cache sweep", "removed", removed)
	}
	return removed
}
