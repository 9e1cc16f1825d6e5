// Package session runs the read, modify and write cycle against one board.
//
// A Session owns the working image it hands out. Callers that keep an image
// across calls must Clone it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/antondlr/gicar-serial/internal/memory"
	"github.com/antondlr/gicar-serial/internal/protocol"
	"github.com/antondlr/gicar-serial/internal/store"
	"github.com/antondlr/gicar-serial/internal/transport"
)

// ErrOffline is returned by operations that need a transport when none is
// configured.
var ErrOffline = errors.New("session: no serial port configured")

// Mode selects the fallback chain used by Acquire.
type Mode int

const (
	// ModeRead falls back to the built-in default response.
	ModeRead Mode = iota

	// ModeWrite falls back to a blank image and never reads live when
	// running dry or told to skip the read.
	ModeWrite
)

// Source tells where an acquired image came from.
type Source int

const (
	SourceLive Source = iota
	SourceFile
	SourceSnapshot
	SourceDefault
	SourceBlank
)

func (s Source) String() string {
	switch s {
	case SourceLive:
		return "device"
	case SourceFile:
		return "file"
	case SourceSnapshot:
		return "saved snapshot"
	case SourceDefault:
		return "built-in default"
	case SourceBlank:
		return "blank image"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

type Config struct {
	// Transport is nil when working offline.
	Transport transport.Transport

	// Store keeps the last live read. Optional.
	Store *store.FileStore

	// File is an explicit snapshot file that replaces the live read.
	File string

	// DryRun builds write commands without sending them.
	DryRun bool

	// SkipRead starts writes from stored state instead of a live read.
	SkipRead bool

	Logger *slog.Logger
}

type Session struct {
	cfg Config
	id  string
	log *slog.Logger
}

func New(cfg Config) *Session {
	id := uuid.New().String()
	logger := cfg.Logger
	if logger != nil {
		logger = logger.With("session", id)
	}
	return &Session{cfg: cfg, id: id, log: logger}
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Online reports whether a transport is configured.
func (s *Session) Online() bool { return s.cfg.Transport != nil }

// DryRun reports whether commits are suppressed.
func (s *Session) DryRun() bool { return s.cfg.DryRun }

func (s *Session) debugLog(msg string, args ...any) {
	if s.log != nil {
		s.log.Debug(msg, args...)
	}
}

func (s *Session) warnLog(msg string, args ...any) {
	if s.log != nil {
		s.log.Warn(msg, args...)
	}
}

// Read requests the state region from the device and parses the reply.
// A good reply is saved to the store exactly as received.
func (s *Session) Read(ctx context.Context) (*memory.Image, error) {
	if s.cfg.Transport == nil {
		return nil, ErrOffline
	}

	reply, err := s.cfg.Transport.Exchange(ctx, []byte(protocol.BuildReadRequest()))
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}

	frame := strings.TrimSpace(string(reply))
	img, err := memory.Parse(frame)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	s.debugLog("state read", "bytes", img.Len(), "offset_adjustment", img.OffsetAdjustment())

	if s.cfg.Store != nil {
		if err := s.cfg.Store.Save(frame); err != nil {
			// a failed save does not invalidate the read
			s.warnLog("snapshot save failed", "path", s.cfg.Store.Path(), "err", err)
		}
	}
	return img, nil
}

// Acquire resolves the working image for mode, walking the fallback chain
// until one source yields an image. It only fails when ctx is done.
func (s *Session) Acquire(ctx context.Context, mode Mode) (*memory.Image, Source, error) {
	if s.wantLive(mode) {
		img, err := s.Read(ctx)
		if err == nil {
			return img, SourceLive, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		s.warnLog("live read failed, falling back", "err", err)
	}

	if s.cfg.File != "" {
		img, err := loadFile(s.cfg.File)
		if err == nil {
			return img, SourceFile, nil
		}
		s.warnLog("snapshot file unusable", "path", s.cfg.File, "err", err)
	} else if s.cfg.Store != nil {
		img, err := s.loadStore()
		if err == nil {
			return img, SourceSnapshot, nil
		}
		if !errors.Is(err, store.ErrNoSnapshot) {
			s.warnLog("saved snapshot unusable", "path", s.cfg.Store.Path(), "err", err)
		}
	}

	if mode == ModeWrite {
		return memory.New(memory.DefaultSize), SourceBlank, nil
	}
	return memory.Default(), SourceDefault, nil
}

func (s *Session) wantLive(mode Mode) bool {
	if s.cfg.Transport == nil {
		return false
	}
	if mode == ModeRead {
		return true
	}
	return s.cfg.File == "" && !s.cfg.DryRun && !s.cfg.SkipRead
}

func (s *Session) loadStore() (*memory.Image, error) {
	frame, err := s.cfg.Store.Load()
	if err != nil {
		return nil, err
	}
	return memory.Parse(frame)
}

func loadFile(path string) (*memory.Image, error) {
	frame, err := store.NewFileStore(path).Load()
	if err != nil {
		return nil, err
	}
	return memory.Parse(frame)
}

// Commit sends cmd and returns the raw acknowledgement. sent is false when
// running dry or offline, in which case nothing is transmitted.
func (s *Session) Commit(ctx context.Context, cmd protocol.WriteCommand) (ack string, sent bool, err error) {
	if s.cfg.DryRun || s.cfg.Transport == nil {
		s.debugLog("write not sent", "command", cmd.String(), "dry_run", s.cfg.DryRun)
		return "", false, nil
	}

	reply, err := s.cfg.Transport.Exchange(ctx, []byte(cmd.String()))
	if err != nil {
		return "", false, fmt.Errorf("write %s: %w", cmd.String(), err)
	}
	s.debugLog("write sent", "command", cmd.String(), "ack", string(reply))
	return string(reply), true, nil
}
