package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/antondlr/gicar-serial/internal/codec"
	"github.com/antondlr/gicar-serial/internal/fieldmap"
	"github.com/antondlr/gicar-serial/internal/memory"
	"github.com/antondlr/gicar-serial/internal/present"
	"github.com/antondlr/gicar-serial/internal/protocol"
	"github.com/antondlr/gicar-serial/internal/session"
	"github.com/antondlr/gicar-serial/internal/shell"
)

const setUsage = `Usage: gicar set [flags] <field> <value>

Write one named field. Scaled fields take decimal values (93.5), mapped
fields take their labels (on, off, fahrenheit).
`

func runSet(args []string) error {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	c := addCommonFlags(fs)
	addWriteFlags(fs, c)
	fs.Usage = func() {
		usageFunc(fs, setUsage)()
		fmt.Fprintln(os.Stderr, "\nFields:")
		_ = present.Fields(os.Stderr)
	}
	if err := parseFlags(fs, args, 2); err != nil {
		return err
	}

	spec, err := fieldmap.Lookup(fs.Arg(0))
	if err != nil {
		return err
	}

	e, err := setup(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	img, err := acquireForWrite(ctx, e)
	if err != nil {
		return err
	}

	if err := codec.Set(spec, img, codec.ParseInput(spec, fs.Arg(1))); err != nil {
		return err
	}
	cmd, err := codec.WriteCommandFor(spec, img)
	if err != nil {
		return err
	}
	return commit(ctx, e, cmd)
}

const autotimerUsage = `Usage: gicar autotimer [flags] enable|disable|set

  enable    Turn the power timer on with its current times
  disable   Turn the timer off and clear its times
  set       Program the timer; give -on, -off or both
`

func runAutotimer(args []string) error {
	fs := flag.NewFlagSet("autotimer", flag.ExitOnError)
	c := addCommonFlags(fs)
	addWriteFlags(fs, c)
	onArg := fs.String("on", "", "Switch-on time, hh:mm (set only)")
	offArg := fs.String("off", "", "Switch-off time, hh:mm (set only)")
	fs.Usage = usageFunc(fs, autotimerUsage)
	if err := parseFlags(fs, args, 1); err != nil {
		return err
	}

	action := fs.Arg(0)
	var on, off *codec.Clock
	switch action {
	case "enable", "disable":
		if *onArg != "" || *offArg != "" {
			return fmt.Errorf("-on and -off only apply to autotimer set")
		}
	case "set":
		var err error
		if on, err = optionalClock(*onArg); err != nil {
			return err
		}
		if off, err = optionalClock(*offArg); err != nil {
			return err
		}
		if on == nil && off == nil {
			return codec.ErrNoClock
		}
	default:
		fs.Usage()
		return fmt.Errorf("unknown autotimer action %q", action)
	}

	e, err := setup(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	img, err := acquireForWrite(ctx, e)
	if err != nil {
		return err
	}

	var cmd protocol.WriteCommand
	switch action {
	case "enable":
		cmd, err = codec.EnableAutotimer(img)
	case "disable":
		cmd, err = codec.DisableAutotimer(img)
	case "set":
		cmd, err = codec.SetAutotimer(img, on, off)
	}
	if err != nil {
		return err
	}
	return commit(ctx, e, cmd)
}

func optionalClock(s string) (*codec.Clock, error) {
	if s == "" {
		return nil, nil
	}
	c, err := codec.ParseClock(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const pokeUsage = `Usage: gicar poke [flags] <offset> <value> <size>

Write value as size bytes (1, 2 or 4, little-endian) at an absolute device
address. Offsets and values may be decimal or 0x-prefixed.
`

func runPoke(args []string) error {
	fs := flag.NewFlagSet("poke", flag.ExitOnError)
	c := addCommonFlags(fs)
	addWriteFlags(fs, c)
	fs.Usage = usageFunc(fs, pokeUsage)
	if err := parseFlags(fs, args, 3); err != nil {
		return err
	}

	offset, width, err := shell.ParseOffsetWidth(fs.Arg(0), fs.Arg(2))
	if err != nil {
		return err
	}
	value, err := strconv.ParseInt(fs.Arg(1), 0, 64)
	if err != nil {
		return fmt.Errorf("value %q: %w", fs.Arg(1), err)
	}

	e, err := setup(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	img, err := acquireForWrite(ctx, e)
	if err != nil {
		return err
	}

	cmd, err := codec.SetRaw(img, offset, width, value)
	if err != nil {
		return err
	}
	return commit(ctx, e, cmd)
}

// acquireForWrite loads the image a write command starts from.
func acquireForWrite(ctx context.Context, e *env) (*memory.Image, error) {
	img, src, err := e.sess.Acquire(ctx, session.ModeWrite)
	if err != nil {
		return nil, err
	}
	e.logger.Info("state loaded", "source", src.String())
	return img, nil
}

// commit prints cmd and sends it unless running dry or offline.
func commit(ctx context.Context, e *env, cmd protocol.WriteCommand) error {
	if err := present.Command(os.Stdout, cmd); err != nil {
		return err
	}

	ack, sent, err := e.sess.Commit(ctx, cmd)
	if err != nil {
		return err
	}
	if !sent {
		if !e.sess.DryRun() && !e.sess.Online() {
			fmt.Println("Not sent: no serial port configured")
			return nil
		}
		fmt.Println("Not sent (dry run)")
		return nil
	}
	if ack == "" {
		return errors.New("device did not acknowledge the write")
	}
	fmt.Printf("Device replied: %q\n", ack)
	return nil
}
