package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/goburrow/serial"

	"github.com/antondlr/gicar-serial/internal/protocol"
)

const (
	DefaultBaud    = 115200
	DefaultTimeout = 5 * time.Second

	// DefaultQuiet ends a reply that is not a read response once the line
	// has been idle this long.
	DefaultQuiet = 300 * time.Millisecond

	// pollInterval bounds a single blocking read on the port.
	pollInterval = 100 * time.Millisecond
)

// Opener opens the underlying port. Tests substitute it.
type Opener func(cfg *serial.Config) (io.ReadWriteCloser, error)

// Config is the serial link configuration.
type Config struct {
	Port    string
	Baud    int
	Timeout time.Duration
	Settle  time.Duration
	Quiet   time.Duration

	Logger *slog.Logger
	Open   Opener
}

// SerialTransport opens the port for every exchange. The board resets on
// open and needs Settle to boot.
type SerialTransport struct {
	cfg Config
}

// NewSerial fills defaults and returns a transport. The port is not opened.
func NewSerial(cfg Config) (*SerialTransport, error) {
	if cfg.Port == "" {
		return nil, errors.New("transport: port required")
	}
	if cfg.Baud <= 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Settle < 0 {
		cfg.Settle = 0
	}
	if cfg.Quiet <= 0 {
		cfg.Quiet = DefaultQuiet
	}
	if cfg.Open == nil {
		cfg.Open = openSerial
	}
	return &SerialTransport{cfg: cfg}, nil
}

func openSerial(cfg *serial.Config) (io.ReadWriteCloser, error) {
	return serial.Open(cfg)
}

// Port returns the configured device path.
func (t *SerialTransport) Port() string { return t.cfg.Port }

func (t *SerialTransport) debugLog(msg string, args ...any) {
	if t.cfg.Logger != nil {
		t.cfg.Logger.Debug(msg, args...)
	}
}

// Exchange opens the port, waits for the board to settle, writes request
// and collects the reply.
func (t *SerialTransport) Exchange(ctx context.Context, request []byte) ([]byte, error) {
	port, err := t.cfg.Open(&serial.Config{
		Address:  t.cfg.Port,
		BaudRate: t.cfg.Baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  pollInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPort, t.cfg.Port, err)
	}
	defer port.Close()

	t.debugLog("port opened", "port", t.cfg.Port, "baud", t.cfg.Baud)

	if err := sleep(ctx, t.cfg.Settle); err != nil {
		return nil, err
	}

	if _, err := port.Write(request); err != nil {
		return nil, fmt.Errorf("%w: write: %v", ErrPort, err)
	}
	t.debugLog("request sent", "request", string(request))

	reply, err := t.collect(ctx, port)
	if err != nil {
		return nil, err
	}
	t.debugLog("reply received", "bytes", len(reply))
	return reply, nil
}

// collect reads until a complete read response, a quiet line after other
// data, or the deadline.
func (t *SerialTransport) collect(ctx context.Context, port io.Reader) ([]byte, error) {
	deadline := time.Now().Add(t.cfg.Timeout)
	var (
		buf      []byte
		lastData time.Time
		chunk    = make([]byte, 512)
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := port.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			lastData = time.Now()
		}
		if err != nil && !errors.Is(err, serial.ErrTimeout) && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: read: %v", ErrPort, err)
		}

		buf = trimNoise(buf)
		if want, ok := protocol.ResponseLength(buf); ok && len(buf) >= want {
			return buf[:want], nil
		}

		now := time.Now()
		if len(buf) > 0 && buf[0] != protocol.ReadMarker && now.Sub(lastData) >= t.cfg.Quiet {
			return buf, nil
		}

		if now.After(deadline) {
			if len(buf) == 0 {
				return nil, ErrTimeout
			}
			if buf[0] == protocol.ReadMarker {
				return nil, fmt.Errorf("%w: got %d bytes", ErrIncomplete, len(buf))
			}
			return buf, nil
		}

		if n == 0 && err != nil && errors.Is(err, io.EOF) {
			// EOF readers do not block; do not spin.
			if serr := sleep(ctx, pollInterval/10); serr != nil {
				return nil, serr
			}
		}
	}
}

// trimNoise drops line noise such as CR/LF left ahead of a frame.
func trimNoise(buf []byte) []byte {
	for len(buf) > 0 && (buf[0] == '\r' || buf[0] == '\n' || buf[0] == 0) {
		buf = buf[1:]
	}
	return buf
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
