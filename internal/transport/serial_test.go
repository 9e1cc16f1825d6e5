package transport

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/goburrow/serial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antondlr/gicar-serial/internal/protocol"
)

// fakePort replays scripted chunks, then behaves like an idle line.
type fakePort struct {
	mu      sync.Mutex
	chunks  [][]byte
	written []byte
	closed  bool
	readErr error
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.chunks) == 0 {
		p.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		p.mu.Lock()
		return 0, serial.ErrTimeout
	}
	n := copy(b, p.chunks[0])
	p.chunks[0] = p.chunks[0][n:]
	if len(p.chunks[0]) == 0 {
		p.chunks = p.chunks[1:]
	}
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written = append(p.written, b...)
	return len(b), nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func newTestTransport(t *testing.T, port *fakePort, timeout time.Duration) *SerialTransport {
	t.Helper()
	tr, err := NewSerial(Config{
		Port:    "/dev/fake",
		Timeout: timeout,
		Quiet:   30 * time.Millisecond,
		Open: func(cfg *serial.Config) (io.ReadWriteCloser, error) {
			assert.Equal(t, "/dev/fake", cfg.Address)
			assert.Equal(t, DefaultBaud, cfg.BaudRate)
			return port, nil
		},
	})
	require.NoError(t, err)
	return tr
}

func TestExchangeReadResponseInChunks(t *testing.T) {
	frame := protocol.DefaultResponse
	port := &fakePort{chunks: [][]byte{
		[]byte("\r\n" + frame[:5]),
		[]byte(frame[5:100]),
		[]byte(frame[100:] + "trailing"),
	}}
	tr := newTestTransport(t, port, time.Second)

	reply, err := tr.Exchange(context.Background(), []byte(protocol.BuildReadRequest()))
	require.NoError(t, err)
	assert.Equal(t, frame, string(reply))
	assert.Equal(t, protocol.BuildReadRequest(), string(port.written))
	assert.True(t, port.closed)
}

func TestExchangeAcknowledgementEndsOnQuietLine(t *testing.T) {
	port := &fakePort{chunks: [][]byte{[]byte("a0084")}}
	tr := newTestTransport(t, port, time.Second)

	start := time.Now()
	reply, err := tr.Exchange(context.Background(), []byte("w0084000106"+"6A"))
	require.NoError(t, err)
	assert.Equal(t, "a0084", string(reply))
	assert.Less(t, time.Since(start), time.Second)
}

func TestExchangeTimeout(t *testing.T) {
	tr := newTestTransport(t, &fakePort{}, 50*time.Millisecond)

	_, err := tr.Exchange(context.Background(), []byte("r000500D712"))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestExchangeIncompleteReadResponse(t *testing.T) {
	port := &fakePort{chunks: [][]byte{[]byte(protocol.DefaultResponse[:40])}}
	tr := newTestTransport(t, port, 80*time.Millisecond)

	_, err := tr.Exchange(context.Background(), []byte("r000500D712"))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestExchangeOpenFailure(t *testing.T) {
	tr, err := NewSerial(Config{
		Port: "/dev/missing",
		Open: func(*serial.Config) (io.ReadWriteCloser, error) {
			return nil, errors.New("no such file or directory")
		},
	})
	require.NoError(t, err)

	_, err = tr.Exchange(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrPort)
	assert.Contains(t, err.Error(), "/dev/missing")
}

func TestExchangeReadFailure(t *testing.T) {
	port := &fakePort{readErr: errors.New("device unplugged")}
	tr := newTestTransport(t, port, time.Second)

	_, err := tr.Exchange(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrPort)
}

func TestExchangeCancelledDuringSettle(t *testing.T) {
	tr, err := NewSerial(Config{
		Port:   "/dev/fake",
		Settle: time.Hour,
		Open: func(*serial.Config) (io.ReadWriteCloser, error) {
			return &fakePort{}, nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = tr.Exchange(ctx, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSerialRequiresPort(t *testing.T) {
	_, err := NewSerial(Config{})
	assert.Error(t, err)
}
