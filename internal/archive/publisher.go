package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/dhowden/tag"

	"channel-radio/internal/models"
	"channel-radio/internal/schedule"
	"channel-radio/internal/storage"
	"channel-radio/internal/store"
	"channel-radio/internal/utils"
)

// ErrNotCompleted is returned when publishing is attempted before the show
// has finished.
var ErrNotCompleted = errors.New("show is not completed")

// Publisher moves a completed show's raw recording from the drop area into
// the public archive and stamps the recording metadata onto the show.
type Publisher struct {
	shows   *store.ShowStore
	storage *storage.Client
	clock   schedule.Clock
	tempDir string
}

func NewPublisher(shows *store.ShowStore, st *storage.Client, clock schedule.Clock, tempDir string) *Publisher {
	return &Publisher{shows: shows, storage: st, clock: clock, tempDir: tempDir}
}

// PublishShow archives the drop file for one show. The recording ends up
// under archive/<year>/<show-name>-<id>.mp3; the drop file is removed once
// the upload succeeded.
func (p *Publisher) PublishShow(ctx context.Context, showID uint, dropKey string) (*models.Show, error) {
	show, err := p.shows.Get(ctx, showID)
	if err != nil {
		return nil, err
	}
	if show.Status != models.StatusCompleted {
		return nil, ErrNotCompleted
	}

	// 1. Download the raw recording to a scratch file
	obj, err := p.storage.DownloadDropFile(dropKey)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", dropKey, err)
	}

	tmpPath := filepath.Join(p.tempDir, "archive_"+filepath.Base(dropKey))
	defer os.Remove(tmpPath)

	f, err := os.Create(tmpPath)
	if err != nil {
		obj.Body.Close()
		return nil, err
	}
	_, err = io.Copy(f, obj.Body)
	obj.Body.Close()
	if err != nil {
		f.Close()
		return nil, err
	}

	// 2. Read embedded tags; a tagged title beats the filename fallback
	// when the show itself has no name.
	title := utils.CleanFilename(dropKey)
	if _, seekErr := f.Seek(0, io.SeekStart); seekErr == nil {
		if meta, tagErr := tag.ReadFrom(f); tagErr == nil && meta.Title() != "" {
			title = meta.Title()
		}
	}
	name := show.Name
	if name == "" {
		name = title
	}

	// 3. Upload under the archive key
	key := ArchiveKey(show, name)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	err = p.storage.UploadArchiveFile(key, f, "audio/mpeg")
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	// 4. Stamp recording metadata on the show
	duration := show.EndTime.Sub(show.StartTime).Seconds()
	if err := p.shows.SetRecording(ctx, show.ID, key, duration, p.clock.Now()); err != nil {
		return nil, err
	}

	// 5. Clear the drop area
	if err := p.storage.DeleteDropFile(dropKey); err != nil {
		log.Printf("⚠️ Published %s but could not delete drop file %s: %v", key, dropKey, err)
	}

	log.Printf("✅ ARCHIVED %s -> %s", dropKey, key)
	return p.shows.Get(ctx, show.ID)
}

// ArchiveKey builds the storage key a show's recording is published under.
func ArchiveKey(show *models.Show, name string) string {
	return fmt.Sprintf("%d/%s-%d.mp3",
		show.StartTime.Year(),
		utils.Sanitize(name, "untitled"),
		show.ID,
	)
}
