package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/opsdeck/incident-intel/internal/incident"
	"github.com/opsdeck/incident-intel/internal/metrics"
)

// Fetcher is the slice of the store client the poller needs.
type Fetcher interface {
	List(ctx context.Context, q Query) ([]incident.Incident, error)
}

// Query mirrors store.Query so the poller does not import the store package
// directly; the two are kept structurally identical by the adapter in cmd.
type Query struct {
	Order          string
	Limit          int
	IncludeDeleted bool
}

// Poller refreshes the cache and the artifact directory on a fixed interval.
// The artifact directory is owned exclusively by the poller; no other writer
// may touch it.
type Poller struct {
	fetcher  Fetcher
	cache    *Cache
	writer   *ArtifactWriter
	interval time.Duration
	limit    int
	logger   *slog.Logger

	lastFingerprint string

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup
}

func NewPoller(fetcher Fetcher, cache *Cache, writer *ArtifactWriter, interval time.Duration, limit int, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if limit <= 0 {
		limit = 1000
	}
	return &Poller{
		fetcher:  fetcher,
		cache:    cache,
		writer:   writer,
		interval: interval,
		limit:    limit,
		logger:   logger,
	}
}

// Start runs an immediate cycle and then the ticker loop until ctx is
// cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.RunOnce(runCtx)
		for {
			select {
			case <-ticker.C:
				p.RunOnce(runCtx)
			case <-runCtx.Done():
				return
			}
		}
	}()
	p.logger.Info("poller started", "interval", p.interval.String())
}

// Stop cancels the loop and waits for the in-flight cycle to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	wasRunning := p.running
	p.running = false
	p.mu.Unlock()
	if !wasRunning || cancel == nil {
		return
	}
	cancel()
	p.wg.Wait()
}

// RunOnce executes a single poll cycle. Fetch errors keep the previous
// snapshot; a cycle never stops the loop.
func (p *Poller) RunOnce(ctx context.Context) {
	incidents, err := p.fetcher.List(ctx, Query{
		Order: "created_at.desc",
		Limit: p.limit,
	})
	if err != nil {
		metrics.PollCyclesTotal.WithLabelValues("error").Inc()
		p.logger.Error("poll fetch failed, keeping previous snapshot", "error", err)
		return
	}

	fp := Fingerprint(incidents)
	if fp == p.lastFingerprint {
		metrics.PollCyclesTotal.WithLabelValues("unchanged").Inc()
		return
	}

	snap := &Snapshot{
		Incidents:   incidents,
		Fingerprint: fp,
		FetchedAt:   time.Now().UTC(),
	}
	p.cache.Publish(snap)
	metrics.PollCyclesTotal.WithLabelValues("changed").Inc()
	metrics.CachedIncidents.Set(float64(len(incidents)))

	if p.writer != nil {
		written, legacy, err := p.writer.Rewrite(incidents)
		if err != nil {
			// Leave lastFingerprint behind so the next cycle retries the
			// rewrite instead of skipping on an unchanged fingerprint.
			p.logger.Error("artifact rewrite failed", "error", err)
			return
		}
		p.logger.Info("cache updated", "incidents", len(incidents), "artifacts", written)
		if legacy > 0 {
			p.logger.Error("skipped incidents with legacy identifiers, migration required", "count", legacy)
		}
	}

	p.lastFingerprint = fp
}
