package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"time"

	"github.com/antondlr/gicar-serial/internal/poller"
	"github.com/antondlr/gicar-serial/internal/session"
	"github.com/antondlr/gicar-serial/internal/status"
	"github.com/antondlr/gicar-serial/internal/writer"
)

const mirrorUsage = `Usage: gicar mirror [flags]

Poll the machine on the mirror interval and write its memory image, plus an
optional status block, to a Modbus TCP server. Needs a serial port and a
"mirror" section in the config file. Runs until interrupted.
`

func runMirror(args []string) error {
	fs := flag.NewFlagSet("mirror", flag.ExitOnError)
	c := addCommonFlags(fs)
	fs.Usage = usageFunc(fs, mirrorUsage)
	if err := parseFlags(fs, args, 0); err != nil {
		return err
	}

	e, err := setup(c)
	if err != nil {
		return err
	}
	if e.cfg.Mirror == nil {
		return errors.New("config has no mirror section")
	}
	if !e.sess.Online() {
		return session.ErrOffline
	}

	m := *e.cfg.Mirror
	device := m.DeviceName
	if device == "" {
		device = e.cfg.Serial.Port
	}
	log := e.logger.With("device", device)

	p, err := poller.Build(device, m, e.sess)
	if err != nil {
		return err
	}

	plan, err := writer.BuildPlan(device, m)
	if err != nil {
		return err
	}

	clients, closeWriters, err := writer.BuildEndpointClients(plan, m)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeWriters(); err != nil {
			log.Warn("endpoint close failed", "err", err)
		}
	}()

	dataWriter := writer.New(plan, clients)
	statusWriter, statusEnabled := writer.NewDeviceStatusWriter(plan, clients)

	ctx, cancel := signalContext()
	defer cancel()

	out := make(chan poller.PollResult)
	go p.Run(ctx, out)

	log.Info("mirror started",
		"endpoint", m.Endpoint,
		"unit_id", m.UnitID,
		"address", m.Address,
		"interval", m.Interval(),
		"status", statusEnabled,
	)
	orchestrate(ctx, log, out, dataWriter, statusWriter, statusEnabled)
	log.Info("mirror stopped")
	return nil
}

// orchestrate delivers poll results and keeps the status block current
// until ctx is done. It owns the tracker.
func orchestrate(
	ctx context.Context,
	log *slog.Logger,
	out <-chan poller.PollResult,
	dataWriter writer.Writer,
	statusWriter writer.StatusWriter,
	statusEnabled bool,
) {
	tracker := status.NewTracker()

	writeStatus := func(what string) {
		if err := statusWriter.WriteStatus(tracker.Snapshot()); err != nil {
			log.Warn("status write failed", "on", what, "err", err)
		}
	}

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	// full block on start
	if statusEnabled {
		writeStatus("start")
	}

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-out:
			if res.Err != nil {
				log.Warn("poll failed", "err", res.Err)
			} else {
				log.Debug("poll ok", "model", res.Model, "bytes", res.Image.Len())
			}

			if err := dataWriter.Write(res); err != nil {
				log.Warn("image write failed", "err", err)
			}

			if statusEnabled && tracker.OnResult(res.Err, res.Model) {
				writeStatus("poll")
			}

		case <-secTicker.C:
			if statusEnabled && tracker.Tick() {
				writeStatus("tick")
			}
		}
	}
}
