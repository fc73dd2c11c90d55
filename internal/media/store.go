package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/models"
)

// URLPrefix is where the testimonial media tree is served from.
const URLPrefix = "/uploads/testimonials"

// sniffLen is how much of an upload is buffered for content detection.
const sniffLen = 3072

var (
	// ErrNotVideo is returned when an upload is not a recognised video container.
	ErrNotVideo = errors.New("uploaded file is not a video")
	// ErrInvalidFilename is returned for names that would escape the media tree.
	ErrInvalidFilename = errors.New("invalid media filename")
)

// videoExtensions are containers accepted when sniffing is inconclusive.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".m4v":  true,
	".mov":  true,
	".webm": true,
	".avi":  true,
	".mkv":  true,
	".3gp":  true,
}

// SavedFile describes an upload written to the pending directory
type SavedFile struct {
	Filename    string
	ContentType string
	Size        int64
}

// FileInfo is a media file found on disk
type FileInfo struct {
	Status   models.TestimonialStatus
	Filename string
	ModTime  time.Time
}

// Store keeps testimonial videos in one directory per moderation status:
// <root>/testimonials/pending and <root>/testimonials/approved.
type Store struct {
	root string
	log  zerolog.Logger
}

// NewStore creates the directory tree under uploadDir.
func NewStore(uploadDir string, log zerolog.Logger) (*Store, error) {
	s := &Store{
		root: filepath.Join(uploadDir, "testimonials"),
		log:  log.With().Str("component", "media").Logger(),
	}
	for _, status := range []models.TestimonialStatus{models.TestimonialStatusPending, models.TestimonialStatusApproved} {
		if err := os.MkdirAll(s.Dir(status), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s media directory: %w", status, err)
		}
	}
	return s, nil
}

// Root returns the directory served under URLPrefix.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the directory holding files of the given status.
func (s *Store) Dir(status models.TestimonialStatus) string {
	return filepath.Join(s.root, string(status))
}

// Path returns the absolute location of filename for status.
func (s *Store) Path(status models.TestimonialStatus, filename string) (string, error) {
	if !validFilename(filename) {
		return "", ErrInvalidFilename
	}
	return filepath.Join(s.Dir(status), filename), nil
}

// URL returns the public URL of filename for status.
func (s *Store) URL(status models.TestimonialStatus, filename string) string {
	return URLPrefix + "/" + string(status) + "/" + filename
}

// SavePending streams src into the pending directory under a generated name.
// The original extension is kept when it is a known video extension.
func (s *Store) SavePending(src io.Reader, originalName string) (*SavedFile, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	ext := strings.ToLower(filepath.Ext(originalName))
	mtype := mimetype.Detect(head)
	if !isVideo(mtype, ext) {
		return nil, ErrNotVideo
	}
	if !videoExtensions[ext] {
		ext = mtype.Extension()
	}

	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), uuid.New().String()[:8], ext)
	path := filepath.Join(s.Dir(models.TestimonialStatusPending), filename)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create media file: %w", err)
	}

	size, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), src))
	if err != nil {
		dst.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write media file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close media file: %w", err)
	}

	s.log.Debug().Str("file", filename).Str("content_type", mtype.String()).Int64("size_bytes", size).Msg("Video stored as pending")

	return &SavedFile{Filename: filename, ContentType: mtype.String(), Size: size}, nil
}

// Promote moves filename from the pending to the approved directory.
// A missing source is reported with an error matching fs.ErrNotExist.
func (s *Store) Promote(filename string) error {
	return s.move(filename, models.TestimonialStatusPending, models.TestimonialStatusApproved)
}

// Demote moves filename from the approved back to the pending directory.
func (s *Store) Demote(filename string) error {
	return s.move(filename, models.TestimonialStatusApproved, models.TestimonialStatusPending)
}

func (s *Store) move(filename string, from, to models.TestimonialStatus) error {
	src, err := s.Path(from, filename)
	if err != nil {
		return err
	}
	dst, err := s.Path(to, filename)
	if err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", filename, to, err)
	}
	return nil
}

// Remove deletes filename from the status directory. A file that is already
// gone is not an error.
func (s *Store) Remove(status models.TestimonialStatus, filename string) error {
	path, err := s.Path(status, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// List returns every regular file in both status directories.
func (s *Store) List() ([]FileInfo, error) {
	var files []FileInfo
	for _, status := range []models.TestimonialStatus{models.TestimonialStatusPending, models.TestimonialStatusApproved} {
		entries, err := os.ReadDir(s.Dir(status))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			files = append(files, FileInfo{Status: status, Filename: entry.Name(), ModTime: info.ModTime()})
		}
	}
	return files, nil
}

func isVideo(mtype *mimetype.MIME, ext string) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "video/") {
			return true
		}
	}
	// Some containers (older QuickTime, odd ftyp brands) sniff as plain binary
	return mtype.Is("application/octet-stream") && videoExtensions[ext]
}

func validFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}
