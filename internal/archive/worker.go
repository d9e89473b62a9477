package archive

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"channel-radio/internal/models"
	"channel-radio/internal/storage"
	"channel-radio/internal/store"
)

var (
	jobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channel_archive_jobs_total",
			Help: "Total recording publish jobs",
		},
		[]string{"status"},
	)
	duration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "channel_archive_duration_seconds",
			Help:    "Time taken to publish a single recording",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(jobs, duration)
}

// Drop files are matched to shows by name: show-<id>.mp3 (an optional
// suffix after the id is ignored).
var dropKeyPattern = regexp.MustCompile(`^show-(\d+)(?:[-_].*)?\.mp3$`)

// Worker polls the drop bucket and publishes recordings for shows that
// have completed.
type Worker struct {
	publisher *Publisher
	shows     *store.ShowStore
	storage   *storage.Client
	interval  time.Duration
}

func NewWorker(pub *Publisher, shows *store.ShowStore, st *storage.Client, interval time.Duration) *Worker {
	return &Worker{publisher: pub, shows: shows, storage: st, interval: interval}
}

// Run processes the queue immediately and then on every tick until the
// context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Println("Archive watcher started on drop bucket...")
	w.processQueue(ctx)

	for {
		select {
		case <-ticker.C:
			w.processQueue(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) processQueue(ctx context.Context) {
	keys, err := w.storage.ListDropFiles()
	if err != nil {
		log.Printf("Error listing drop bucket: %v", err)
		return
	}

	if len(keys) > 0 {
		log.Printf("Found %d recordings in drop queue.", len(keys))
	}

	for _, key := range keys {
		showID, ok := parseDropKey(key)
		if !ok {
			log.Printf("Skipping %s: not a show-<id>.mp3 drop file", key)
			continue
		}

		if err := w.publishOne(ctx, showID, key); err != nil {
			if errors.Is(err, ErrNotCompleted) {
				// Show still running; the recording stays queued.
				continue
			}
			log.Printf("❌ FAILED %s: %v", key, err)
			jobs.WithLabelValues("failure").Inc()
		} else {
			jobs.WithLabelValues("success").Inc()
		}
	}
}

func (w *Worker) publishOne(ctx context.Context, showID uint, key string) error {
	timer := prometheus.NewTimer(duration)
	defer timer.ObserveDuration()

	show, err := w.shows.Get(ctx, showID)
	if err != nil {
		return err
	}
	if show.PublishedAt != nil {
		// Re-dropped file for an already published show; leave it for an
		// operator to inspect rather than overwrite the archive.
		return errors.New("show already has a published recording")
	}
	if show.Status != models.StatusCompleted {
		return ErrNotCompleted
	}

	_, err = w.publisher.PublishShow(ctx, showID, key)
	return err
}

func parseDropKey(key string) (uint, bool) {
	m := dropKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
