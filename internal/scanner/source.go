package scanner

import (
	"fmt"
	"image"
	_ "image/jpeg" // frame decoders
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FrameSource yields the most recent captured frame.
type FrameSource interface {
	// Next returns the latest frame and its sequence number. The sequence
	// number grows with each new frame, so callers can skip frames they
	// already examined. It returns ErrNoFrame before the first capture.
	Next() (image.Image, uint64, error)

	// Close releases the source.
	Close() error
}

// OpenFunc opens the frame source for a device path.
type OpenFunc func(path string, logger *slog.Logger) (FrameSource, error)

// DirSource is a frame source fed by a capture tool that writes snapshots
// into a directory (for example fswebcam or ffmpeg writing frame.jpg).
// Only files written after the source is opened count as frames.
type DirSource struct {
	dir     string
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu     sync.Mutex
	latest string
	seq    uint64

	done chan struct{}
}

// OpenDirSource starts watching dir for new .png, .jpg and .jpeg files.
func OpenDirSource(dir string, logger *slog.Logger) (FrameSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open frame directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open frame directory: %s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create frame watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close() //nolint:errcheck // best effort cleanup
		return nil, fmt.Errorf("watch frame directory: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &DirSource{
		dir:     dir,
		watcher: watcher,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go s.watch()
	return s, nil
}

// watch records the newest image file until the watcher is closed.
func (s *DirSource) watch() {
	defer close(s.done)
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !isFrameFile(ev.Name) {
				continue
			}
			s.mu.Lock()
			s.latest = ev.Name
			s.seq++
			s.mu.Unlock()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("frame watcher error", "dir", s.dir, "error", err)
		}
	}
}

// Next decodes the newest frame file.
func (s *DirSource) Next() (image.Image, uint64, error) {
	s.mu.Lock()
	path, seq := s.latest, s.seq
	s.mu.Unlock()

	if seq == 0 {
		return nil, 0, ErrNoFrame
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the watched capture directory
	if err != nil {
		return nil, seq, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		// usually a frame that is still being written
		return nil, seq, fmt.Errorf("decode frame %s: %w", filepath.Base(path), err)
	}
	return img, seq, nil
}

// Close stops watching the directory.
func (s *DirSource) Close() error {
	err := s.watcher.Close()
	<-s.done
	return err
}

func isFrameFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}
