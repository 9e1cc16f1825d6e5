package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antondlr/gicar-serial/internal/memory"
	"github.com/antondlr/gicar-serial/internal/poller"
	"github.com/antondlr/gicar-serial/internal/status"
)

type recordingWriter struct {
	mu      sync.Mutex
	results []poller.PollResult
}

func (w *recordingWriter) Write(res poller.PollResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.results = append(w.results, res)
	return nil
}

func (w *recordingWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.results)
}

type recordingStatus struct {
	mu    sync.Mutex
	snaps []status.Snapshot
}

func (w *recordingStatus) WriteStatus(s status.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.snaps = append(w.snaps, s)
	return nil
}

func (w *recordingStatus) all() []status.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]status.Snapshot(nil), w.snaps...)
}

func TestOrchestrateTracksHealth(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	out := make(chan poller.PollResult)
	data := &recordingWriter{}
	st := &recordingStatus{}

	done := make(chan struct{})
	go func() {
		orchestrate(ctx, log, out, data, st, true)
		close(done)
	}()

	out <- poller.PollResult{Device: "m", At: time.Now(), Err: errors.New("boom")}
	out <- poller.PollResult{Device: "m", At: time.Now(), Image: memory.Default(), Model: 2}
	out <- poller.PollResult{Device: "m", At: time.Now(), Image: memory.Default(), Model: 2}

	cancel()
	<-done

	assert.Equal(t, 3, data.count())

	snaps := st.all()
	require.GreaterOrEqual(t, len(snaps), 3)
	assert.Equal(t, status.HealthUnknown, snaps[0].Health)

	sawError := false
	for _, s := range snaps {
		if s.Health == status.HealthError {
			sawError = true
			assert.Equal(t, status.ErrorGeneric, s.LastErrorCode)
		}
	}
	assert.True(t, sawError)

	last := snaps[len(snaps)-1]
	assert.Equal(t, status.HealthOK, last.Health)
	assert.Equal(t, uint16(2), last.ModelCode)
	assert.Equal(t, uint16(2), last.PollCount)
}

func TestOrchestrateWithoutStatus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	out := make(chan poller.PollResult)
	data := &recordingWriter{}

	done := make(chan struct{})
	go func() {
		orchestrate(ctx, log, out, data, nil, false)
		close(done)
	}()

	out <- poller.PollResult{Device: "m", Err: errors.New("boom")}
	cancel()
	<-done

	assert.Equal(t, 1, data.count())
}
