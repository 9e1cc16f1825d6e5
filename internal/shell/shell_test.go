package shell

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antondlr/gicar-serial/internal/codec"
	"github.com/antondlr/gicar-serial/internal/fieldmap"
	"github.com/antondlr/gicar-serial/internal/memory"
	"github.com/antondlr/gicar-serial/internal/protocol"
	"github.com/antondlr/gicar-serial/internal/session"
)

type fakeTransport struct {
	requests []string
}

func (f *fakeTransport) Exchange(_ context.Context, req []byte) ([]byte, error) {
	f.requests = append(f.requests, string(req))
	if req[0] == protocol.ReadMarker {
		return []byte(protocol.DefaultResponse), nil
	}
	return []byte("a"), nil
}

// newTestShell skips readline; Exec is driven directly.
func newTestShell(t *testing.T, cfg session.Config) (*Shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	sh := &Shell{sess: session.New(cfg), out: &out}
	require.NoError(t, sh.load(context.Background()))
	return sh, &out
}

func TestExecGet(t *testing.T) {
	sh, out := newTestShell(t, session.Config{})

	sh.Exec(context.Background(), "get")
	assert.Contains(t, out.String(), "Power: on")

	out.Reset()
	sh.Exec(context.Background(), "get dose")
	assert.Contains(t, out.String(), "dose_S1: 52.0")
	assert.NotContains(t, out.String(), "power_state")
}

func TestExecSetSendsCommand(t *testing.T) {
	tr := &fakeTransport{}
	sh, out := newTestShell(t, session.Config{Transport: tr})
	require.Len(t, tr.requests, 1, "initial live read")

	assert.False(t, sh.Exec(context.Background(), "set power_state off"))
	assert.Contains(t, out.String(), "Command: w0084000104"+"68")
	assert.Contains(t, out.String(), `Device replied: "a"`)
	assert.Equal(t, "w0084000104"+"68", tr.requests[1])

	raw, ok := sh.img.Uint(132, fieldmap.U8)
	require.True(t, ok)
	assert.EqualValues(t, 4, raw)
}

func TestExecSetErrorKeepsImage(t *testing.T) {
	sh, out := newTestShell(t, session.Config{})
	before := sh.img.Bytes()

	sh.Exec(context.Background(), "set counter_total 5")
	assert.Contains(t, out.String(), "Error: field counter_total is read-only")
	assert.Equal(t, before, sh.img.Bytes())

	out.Reset()
	sh.Exec(context.Background(), "set coffee_temperature")
	assert.Contains(t, out.String(), "usage: set")
}

func TestExecAutotimerDryRun(t *testing.T) {
	tr := &fakeTransport{}
	sh, out := newTestShell(t, session.Config{Transport: tr, DryRun: true})

	sh.Exec(context.Background(), "autotimer set on 07:15 off 23:30")
	assert.Contains(t, out.String(), "Command: w007E000501070F171E"+"34")
	assert.Contains(t, out.String(), "Not sent")
	assert.Len(t, tr.requests, 1, "only the initial read")

	out.Reset()
	sh.Exec(context.Background(), "autotimer set on 25:00")
	assert.Contains(t, out.String(), "Error: invalid time")
}

func TestExecPeekAndPoke(t *testing.T) {
	sh, out := newTestShell(t, session.Config{})

	sh.Exec(context.Background(), "peek 0x35 2")
	assert.Contains(t, out.String(), "Value: 930 (0x3A2)")

	out.Reset()
	sh.Exec(context.Background(), "poke 200 0x1234 2")
	assert.Contains(t, out.String(), "Command: w00C800023412")

	out.Reset()
	sh.Exec(context.Background(), "peek 10 3")
	assert.Contains(t, out.String(), "Error: invalid width")
}

func TestExecRefreshOffline(t *testing.T) {
	sh, out := newTestShell(t, session.Config{})
	sh.Exec(context.Background(), "refresh")
	assert.Contains(t, out.String(), session.ErrOffline.Error())
}

func TestExecQuitAndUnknown(t *testing.T) {
	sh, out := newTestShell(t, session.Config{})
	assert.True(t, sh.Exec(context.Background(), "quit"))
	assert.False(t, sh.Exec(context.Background(), "brew"))
	assert.Contains(t, out.String(), "Unknown command: brew")
	assert.False(t, sh.Exec(context.Background(), "   "))
}

func TestParseClockArgs(t *testing.T) {
	on, off, err := parseClockArgs([]string{"off", "22:00"})
	require.NoError(t, err)
	assert.Nil(t, on)
	assert.Equal(t, codec.Clock{Hour: 22}, *off)

	_, _, err = parseClockArgs([]string{"on"})
	assert.Error(t, err)
	_, _, err = parseClockArgs([]string{"at", "10:00"})
	assert.Error(t, err)
}

func TestWorkingImageSource(t *testing.T) {
	sh, _ := newTestShell(t, session.Config{})
	assert.Equal(t, session.SourceDefault, sh.src)
	assert.Equal(t, memory.Default().Bytes(), sh.img.Bytes())
}
