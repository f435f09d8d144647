package portal

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fotosexpress/portal/internal/domain"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

// ErrUploadCancelled is returned by Wait when the session was closed before delivery.
var ErrUploadCancelled = errors.New("upload cancelled")

// PhotoDeliverer applies the delivery transition on the backend.
type PhotoDeliverer interface {
	DeliverPhotos(ctx context.Context, kind domain.ClientKind, id string, photos []string, staffRef string) (*domain.ClientRecord, error)
}

// UploadConfig tunes the simulated progress.
type UploadConfig struct {
	// Interval between progress ticks.
	Interval time.Duration
	// Step is the percentage added per tick.
	Step int
	// PhotoBaseURL prefixes the URL synthesized for each uploaded file.
	PhotoBaseURL string
}

// DefaultUploadConfig mirrors the pace of the web upload modal.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{Interval: 200 * time.Millisecond, Step: 10, PhotoBaseURL: "https://fotos.fotosexpresspr.com"}
}

// Uploader starts upload sessions.
type Uploader struct {
	deliverer PhotoDeliverer
	cfg       UploadConfig
}

// NewUploader builds an uploader. Zero fields of cfg take their defaults.
func NewUploader(deliverer PhotoDeliverer, cfg UploadConfig) *Uploader {
	def := DefaultUploadConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Step <= 0 || cfg.Step > 100 {
		cfg.Step = def.Step
	}
	if cfg.PhotoBaseURL == "" {
		cfg.PhotoBaseURL = def.PhotoBaseURL
	}
	return &Uploader{deliverer: deliverer, cfg: cfg}
}

// StartUpload opens a session for one client record. Nothing happens until Confirm.
func (u *Uploader) StartUpload(ctx context.Context, kind domain.ClientKind, recordID string) *UploadSession {
	ctx, cancel := context.WithCancel(ctx)
	steps := (100 + u.cfg.Step - 1) / u.cfg.Step
	return &UploadSession{
		uploader: u,
		kind:     kind,
		recordID: recordID,
		ctx:      ctx,
		cancel:   cancel,
		progress: make(chan int, steps+1),
		done:     make(chan struct{}),
	}
}

// UploadSession is one photo delivery in progress. Progress is reported on a
// channel from 0 to exactly 100; delivery happens only after 100 is emitted
// and only if the session was not closed.
type UploadSession struct {
	uploader *Uploader
	kind     domain.ClientKind
	recordID string

	ctx      context.Context
	cancel   context.CancelFunc
	progress chan int
	done     chan struct{}

	mu      sync.Mutex
	started bool
	record  *domain.ClientRecord
	err     error
}

// RecordID returns the record the session delivers to.
func (s *UploadSession) RecordID() string { return s.recordID }

// Progress streams percentages. The channel is closed when the session ends.
func (s *UploadSession) Progress() <-chan int { return s.progress }

// Confirm validates the selection and starts the upload. files are the
// selected file names; staffRef is the delivering staff id or email.
func (s *UploadSession) Confirm(files []string, staffRef string) error {
	names := make([]string, 0, len(files))
	for _, f := range files {
		if f = strings.TrimSpace(f); f != "" {
			names = append(names, f)
		}
	}
	if len(names) == 0 {
		return apperrors.NewValidationError("select at least one photo", map[string]any{"field": "files"})
	}
	if strings.TrimSpace(staffRef) == "" {
		return apperrors.NewValidationError("staff identity required", map[string]any{"field": "staffId"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return apperrors.NewInvalidTransition("upload", "started", "confirm")
	}
	if s.ctx.Err() != nil {
		return ErrUploadCancelled
	}
	s.started = true
	go s.run(names, strings.TrimSpace(staffRef))
	return nil
}

func (s *UploadSession) run(files []string, staffRef string) {
	defer close(s.done)
	defer close(s.progress)

	cfg := s.uploader.cfg
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	s.progress <- 0
	for pct := 0; pct < 100; {
		select {
		case <-s.ctx.Done():
			s.finish(nil, ErrUploadCancelled)
			return
		case <-ticker.C:
		}
		pct += cfg.Step
		if pct > 100 {
			pct = 100
		}
		s.progress <- pct
	}

	if s.ctx.Err() != nil {
		s.finish(nil, ErrUploadCancelled)
		return
	}
	// Once the delivery request is out, Close must not abort it: the server
	// may already be committing the record.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), DefaultTimeout)
	defer cancel()
	urls := PhotoURLs(cfg.PhotoBaseURL, s.recordID, files)
	rec, err := s.uploader.deliverer.DeliverPhotos(ctx, s.kind, s.recordID, urls, staffRef)
	s.finish(rec, err)
}

func (s *UploadSession) finish(rec *domain.ClientRecord, err error) {
	s.mu.Lock()
	s.record, s.err = rec, err
	s.mu.Unlock()
}

// Wait blocks until the session ends and returns the delivered record.
func (s *UploadSession) Wait() (*domain.ClientRecord, error) {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		if s.ctx.Err() != nil {
			return nil, ErrUploadCancelled
		}
		return nil, apperrors.NewValidationError("upload not confirmed", nil)
	}
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record, s.err
}

// Close abandons the session. Before 100% the record is left untouched; once
// delivery has started Close waits for it to finish instead of cancelling it.
// Close is safe to call twice.
func (s *UploadSession) Close() {
	s.cancel()
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.done
	}
}

// PhotoURLs synthesizes one URL per file under base/recordID.
func PhotoURLs(base, recordID string, files []string) []string {
	base = strings.TrimRight(base, "/")
	out := make([]string, 0, len(files))
	for i, f := range files {
		name := path.Base(strings.ReplaceAll(f, "\\", "/"))
		out = append(out, base+"/"+url.PathEscape(recordID)+"/"+strconv.Itoa(i+1)+"-"+url.PathEscape(name))
	}
	return out
}
