package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/antondlr/gicar-serial/internal/codec"
	"github.com/antondlr/gicar-serial/internal/present"
	"github.com/antondlr/gicar-serial/internal/session"
	"github.com/antondlr/gicar-serial/internal/shell"
	"github.com/antondlr/gicar-serial/internal/transport"
)

const readUsage = `Usage: gicar read [flags]

Read the machine state and show it. Without a port the last saved read
(or the built-in default image) is shown instead.
`

func runRead(args []string) error {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	c := addCommonFlags(fs)
	format := fs.String("format", "text", "Output format: text, json, yaml, cbor")
	all := fs.Bool("all", false, "Show every field grouped by section")
	filter := fs.String("filter", "", "Only show fields whose name contains this")
	hexDump := fs.Bool("hex-dump", false, "Hex dump the raw payload first")
	fs.Usage = usageFunc(fs, readUsage)
	if err := parseFlags(fs, args, 0); err != nil {
		return err
	}

	f, err := present.ParseFormat(*format)
	if err != nil {
		return err
	}
	if f == present.FormatCBOR && term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("refusing to write CBOR to a terminal, redirect stdout")
	}

	e, err := setup(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	img, src, err := e.sess.Acquire(ctx, session.ModeRead)
	if err != nil {
		return err
	}
	e.logger.Info("state loaded", "source", src.String())

	if *hexDump {
		if err := present.HexDump(os.Stdout, img.Bytes()); err != nil {
			return err
		}
	}

	return present.WriteState(os.Stdout, codec.DecodeAll(img), present.Options{
		Format:  f,
		Verbose: *all,
		Filter:  *filter,
	})
}

const peekUsage = `Usage: gicar peek [flags] <offset> <size>

Show the raw value of size bytes (1, 2 or 4, little-endian) at a device
address. Offsets may be decimal or 0x-prefixed.
`

func runPeek(args []string) error {
	fs := flag.NewFlagSet("peek", flag.ExitOnError)
	c := addCommonFlags(fs)
	fs.Usage = usageFunc(fs, peekUsage)
	if err := parseFlags(fs, args, 2); err != nil {
		return err
	}

	offset, width, err := shell.ParseOffsetWidth(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}

	e, err := setup(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	img, src, err := e.sess.Acquire(ctx, session.ModeRead)
	if err != nil {
		return err
	}
	e.logger.Info("state loaded", "source", src.String())

	v, ok := codec.Peek(img, offset, width)
	if !ok {
		return &codec.OffsetOutOfBoundsError{Offset: offset, Width: int(width), Len: img.Len()}
	}
	return present.RawValue(os.Stdout, offset, width, v, img.OffsetAdjustment())
}

func runPorts(args []string) error {
	fs := flag.NewFlagSet("ports", flag.ExitOnError)
	if err := parseFlags(fs, args, 0); err != nil {
		return err
	}

	ports, err := transport.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

const shellUsage = `Usage: gicar shell [flags]

Interactive console. Type "help" at the prompt for commands.
`

func runShell(args []string) error {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	c := addCommonFlags(fs)
	addWriteFlags(fs, c)
	fs.Usage = usageFunc(fs, shellUsage)
	if err := parseFlags(fs, args, 0); err != nil {
		return err
	}

	e, err := setup(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sh, err := shell.New(ctx, e.sess)
	if err != nil {
		return err
	}
	sh.Run(ctx)
	return nil
}
