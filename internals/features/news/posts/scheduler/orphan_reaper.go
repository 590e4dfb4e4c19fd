package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	galleryService "newsroom_backend/internals/features/news/galleries/service"
	postService "newsroom_backend/internals/features/news/posts/service"
	settingsService "newsroom_backend/internals/features/news/settings/service"
	"newsroom_backend/internals/helpers/images"
)

const sweepTimeout = 4 * time.Minute

// OrphanReaper removes upload folders whose post or gallery row is gone.
type OrphanReaper struct {
	Settings  *settingsService.Service
	Posts     *postService.Service
	Galleries *galleryService.Service
	DryRun    bool
}

func NewOrphanReaper(settings *settingsService.Service, posts *postService.Service, galleries *galleryService.Service) *OrphanReaper {
	return &OrphanReaper{Settings: settings, Posts: posts, Galleries: galleries}
}

type existingFunc func(ctx context.Context, ids []uint) ([]uint, error)

// Sweep runs one pass over the post cover and gallery folders and returns
// how many id folders were removed.
func (r *OrphanReaper) Sweep(ctx context.Context) (int, error) {
	st, err := r.Settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	removed, err := r.sweep(ctx, "posts", r.Posts.Manager(st), r.Posts.Repository().ExistingIDs)
	if err != nil {
		return removed, err
	}
	n, err := r.sweep(ctx, "gallery", r.Galleries.Manager(st), r.Galleries.Repository().ExistingIDs)
	return removed + n, err
}

func (r *OrphanReaper) sweep(ctx context.Context, label string, m *images.Manager, existing existingFunc) (int, error) {
	ids, err := m.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	alive, err := existing(ctx, ids)
	if err != nil {
		return 0, err
	}
	keep := make(map[uint]struct{}, len(alive))
	for _, id := range alive {
		keep[id] = struct{}{}
	}

	removed := 0
	for _, id := range ids {
		if _, ok := keep[id]; ok {
			continue
		}
		if r.DryRun {
			log.Printf("[REAPER] DRY-RUN would remove %s/%d", label, id)
			removed++
			continue
		}
		if err := m.Delete(ctx, id, ""); err != nil {
			log.Printf("[REAPER] remove %s/%d: %v", label, id, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("[REAPER] %s: removed %d orphan folders (scanned=%d)", label, removed, len(ids))
	}
	return removed, nil
}

// Start schedules the reaper. An empty schedule disables it and returns nil.
func (r *OrphanReaper) Start(schedule string) (*cron.Cron, error) {
	if schedule == "" {
		log.Println("[REAPER] ORPHAN_REAPER_SCHEDULE is empty, reaper disabled")
		return nil, nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if _, err := r.Sweep(ctx); err != nil {
			log.Printf("[REAPER] sweep failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[REAPER] started schedule=%q dryRun=%v", schedule, r.DryRun)
	c.Start()
	return c, nil
}
