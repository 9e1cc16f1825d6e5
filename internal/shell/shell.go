// Package shell provides the interactive console over one session.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/antondlr/gicar-serial/internal/codec"
	"github.com/antondlr/gicar-serial/internal/fieldmap"
	"github.com/antondlr/gicar-serial/internal/memory"
	"github.com/antondlr/gicar-serial/internal/present"
	"github.com/antondlr/gicar-serial/internal/protocol"
	"github.com/antondlr/gicar-serial/internal/session"
)

// Shell holds the working image between commands.
type Shell struct {
	sess *session.Session
	img  *memory.Image
	src  session.Source
	out  io.Writer
	rl   *readline.Instance
}

// New acquires the working image and prepares the prompt.
func New(ctx context.Context, sess *session.Session) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gicar> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	sh := &Shell{sess: sess, out: rl.Stdout(), rl: rl}
	if err := sh.load(ctx); err != nil {
		rl.Close()
		return nil, err
	}
	return sh, nil
}

// Stdout returns a writer that does not corrupt the prompt.
func (sh *Shell) Stdout() io.Writer {
	return sh.rl.Stdout()
}

func (sh *Shell) load(ctx context.Context) error {
	img, src, err := sh.sess.Acquire(ctx, session.ModeRead)
	if err != nil {
		return err
	}
	sh.img, sh.src = img, src
	return nil
}

// Run is the command loop. It returns when the user quits, input ends or
// ctx is done.
func (sh *Shell) Run(ctx context.Context) {
	defer sh.rl.Close()

	fmt.Fprintf(sh.out, "State loaded from %s (session %s)\n", sh.src, sh.sess.ID())
	sh.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := sh.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(sh.out, "Exiting...")
			return
		}

		if quit := sh.Exec(ctx, line); quit {
			fmt.Fprintln(sh.out, "Exiting...")
			return
		}
	}
}

// Exec runs one command line. quit is true for quit/exit.
func (sh *Shell) Exec(ctx context.Context, line string) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		sh.printHelp()
	case "get", "g":
		err = sh.cmdGet(args)
	case "set", "s":
		err = sh.cmdSet(ctx, args)
	case "autotimer", "at":
		err = sh.cmdAutotimer(ctx, args)
	case "peek":
		err = sh.cmdPeek(args)
	case "poke":
		err = sh.cmdPoke(ctx, args)
	case "dump":
		err = present.HexDump(sh.out, sh.img.Bytes())
	case "fields":
		err = present.Fields(sh.out)
	case "refresh", "r":
		err = sh.cmdRefresh(ctx)
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(sh.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	if err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
	}
	return false
}

func (sh *Shell) printHelp() {
	fmt.Fprintln(sh.out, `
Commands:
  get [field|filter]       - Show status (all fields with 'get all')
  set <field> <value>      - Write a field (see 'fields')
  autotimer enable|disable - Toggle the power timer
  autotimer set [on hh:mm] [off hh:mm]
  peek <offset> <size>     - Read a raw value at a device address
  poke <offset> <value> <size>
  dump                     - Hex dump of the working image
  fields                   - List writable and read-only fields
  refresh                  - Read the device again
  quit                     - Leave`)
}

func (sh *Shell) cmdGet(args []string) error {
	vals := codec.DecodeAll(sh.img)
	switch {
	case len(args) == 0:
		return present.WriteState(sh.out, vals, present.Options{})
	case args[0] == "all":
		return present.WriteState(sh.out, vals, present.Options{Verbose: true})
	default:
		return present.WriteState(sh.out, vals, present.Options{Filter: args[0]})
	}
}

func (sh *Shell) cmdSet(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: set <field> <value>")
	}
	spec, err := fieldmap.Lookup(args[0])
	if err != nil {
		return err
	}

	work := sh.img.Clone()
	if err := codec.Set(spec, work, codec.ParseInput(spec, args[1])); err != nil {
		return err
	}
	cmd, err := codec.WriteCommandFor(spec, work)
	if err != nil {
		return err
	}
	return sh.commit(ctx, work, cmd)
}

func (sh *Shell) cmdAutotimer(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: autotimer enable|disable|set [on hh:mm] [off hh:mm]")
	}

	work := sh.img.Clone()
	var (
		cmd protocol.WriteCommand
		err error
	)
	switch args[0] {
	case "enable":
		cmd, err = codec.EnableAutotimer(work)
	case "disable":
		cmd, err = codec.DisableAutotimer(work)
	case "set":
		var on, off *codec.Clock
		on, off, err = parseClockArgs(args[1:])
		if err == nil {
			cmd, err = codec.SetAutotimer(work, on, off)
		}
	default:
		err = fmt.Errorf("unknown autotimer action %q", args[0])
	}
	if err != nil {
		return err
	}
	return sh.commit(ctx, work, cmd)
}

func parseClockArgs(args []string) (on, off *codec.Clock, err error) {
	if len(args)%2 != 0 {
		return nil, nil, errors.New("usage: autotimer set [on hh:mm] [off hh:mm]")
	}
	for i := 0; i < len(args); i += 2 {
		c, err := codec.ParseClock(args[i+1])
		if err != nil {
			return nil, nil, err
		}
		switch args[i] {
		case "on":
			on = &c
		case "off":
			off = &c
		default:
			return nil, nil, fmt.Errorf("expected on or off, got %q", args[i])
		}
	}
	return on, off, nil
}

func (sh *Shell) cmdPeek(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: peek <offset> <size>")
	}
	offset, width, err := ParseOffsetWidth(args[0], args[1])
	if err != nil {
		return err
	}
	v, ok := codec.Peek(sh.img, offset, width)
	if !ok {
		return fmt.Errorf("offset %d (size %d) is outside the payload", offset, width)
	}
	return present.RawValue(sh.out, offset, width, v, sh.img.OffsetAdjustment())
}

func (sh *Shell) cmdPoke(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: poke <offset> <value> <size>")
	}
	offset, width, err := ParseOffsetWidth(args[0], args[2])
	if err != nil {
		return err
	}
	value, err := strconv.ParseInt(args[1], 0, 64)
	if err != nil {
		return fmt.Errorf("value %q: %w", args[1], err)
	}

	work := sh.img.Clone()
	cmd, err := codec.SetRaw(work, offset, width, value)
	if err != nil {
		return err
	}
	return sh.commit(ctx, work, cmd)
}

func (sh *Shell) cmdRefresh(ctx context.Context) error {
	if !sh.sess.Online() {
		return session.ErrOffline
	}
	img, err := sh.sess.Read(ctx)
	if err != nil {
		return err
	}
	sh.img, sh.src = img, session.SourceLive
	fmt.Fprintln(sh.out, "State refreshed from device")
	return nil
}

// commit shows cmd, sends it and adopts work as the new image.
func (sh *Shell) commit(ctx context.Context, work *memory.Image, cmd protocol.WriteCommand) error {
	if err := present.Command(sh.out, cmd); err != nil {
		return err
	}

	ack, sent, err := sh.sess.Commit(ctx, cmd)
	if err != nil {
		return err
	}
	sh.img = work

	if !sent {
		fmt.Fprintln(sh.out, "Not sent (dry run or no port)")
		return nil
	}
	fmt.Fprintf(sh.out, "Device replied: %q\n", ack)
	return nil
}

// ParseOffsetWidth parses a device address (decimal or 0x-prefixed) and a
// byte width.
func ParseOffsetWidth(offsetArg, sizeArg string) (int, fieldmap.Width, error) {
	offset, err := strconv.ParseInt(offsetArg, 0, 32)
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset %q", offsetArg)
	}
	width, err := fieldmap.ParseWidth(sizeArg)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", memory.ErrInvalidWidth, err)
	}
	return int(offset), width, nil
}
