// cmd/fantimer/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-fantimer/internal/config"
	"github.com/tamzrod/modbus-fantimer/internal/logging"
	"github.com/tamzrod/modbus-fantimer/internal/modbus"
	"github.com/tamzrod/modbus-fantimer/internal/plan"
	"github.com/tamzrod/modbus-fantimer/internal/poller"
	"github.com/tamzrod/modbus-fantimer/internal/register"
	"github.com/tamzrod/modbus-fantimer/internal/status"
	"github.com/tamzrod/modbus-fantimer/internal/writer"
)

const usage = "usage: fantimer <config.yaml> read | write <file> | watch"

func main() {
	boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if len(os.Args) < 3 {
		boot.Fatal().Msg(usage)
	}

	cfgPath, cmd := os.Args[1], os.Args[2]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot.Fatal().Err(err).Msg("config load failed")
	}

	if err := config.Validate(cfg); err != nil {
		boot.Fatal().Err(err).Msg("config validation failed")
	}
	config.Normalize(cfg)

	log, err := logging.Setup(cfg.Logging, os.Stderr)
	if err != nil {
		boot.Fatal().Err(err).Msg("logging setup failed")
	}
	register.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Shared device client
	// --------------------

	client, err := modbus.New(modbus.Config{
		Transport: cfg.Device.Transport,
		Endpoint:  cfg.Device.Endpoint,
		UnitID:    cfg.Device.UnitID,
		Timeout:   time.Duration(cfg.Device.TimeoutMs) * time.Millisecond,
		BaudRate:  cfg.Device.BaudRate,
		DataBits:  cfg.Device.DataBits,
		Parity:    cfg.Device.Parity,
		StopBits:  cfg.Device.StopBits,
	})
	if err != nil {
		log.Fatal().Err(err).Str("endpoint", cfg.Device.Endpoint).Msg("device connect failed")
	}

	switch cmd {
	case "read":
		err = runRead(cfg, client, log)
	case "write":
		if len(os.Args) < 4 {
			err = errors.New(usage)
			break
		}
		err = runWrite(ctx, cfg, client, log, os.Args[3])
	case "watch":
		err = runWatch(ctx, cfg, client, log)
	default:
		err = fmt.Errorf("unknown command %q; %s", cmd, usage)
	}

	if cerr := client.Close(); cerr != nil {
		log.Warn().Err(cerr).Msg("device close failed")
	}
	if commandFailed(cmd, err) {
		log.Fatal().Err(err).Str("command", cmd).Msg("command failed")
	}
}

// commandFailed reports whether err must end the process non-zero.
// Only watch treats cancellation as a clean shutdown; an interrupted
// write leaves the device half-programmed.
func commandFailed(cmd string, err error) bool {
	if err == nil {
		return false
	}
	return cmd != "watch" || !errors.Is(err, context.Canceled)
}

// runRead prints the device's week program, one day text per line.
func runRead(cfg *config.Config, client *modbus.Client, log zerolog.Logger) error {
	p, err := poller.Build(cfg, client, log)
	if err != nil {
		return err
	}

	res := p.PollOnce()
	if res.Err != nil {
		return res.Err
	}

	log.Info().Str("version", res.Version).Msg("schedule read")
	for _, day := range res.Days() {
		fmt.Println(day)
	}
	return nil
}

// runWrite programs the device from a file holding seven day texts.
func runWrite(ctx context.Context, cfg *config.Config, client *modbus.Client, log zerolog.Logger, path string) error {
	days, err := readDayFile(path)
	if err != nil {
		return err
	}

	w, err := writer.Build(cfg, client, log)
	if err != nil {
		return err
	}

	res, err := w.WriteDays(ctx, days)
	if err != nil {
		logWriteFailure(log, res, err)
		return err
	}

	log.Info().Int("batches", res.Batches).Int("registers", res.Registers).Msg("schedule written")
	return nil
}

// logWriteFailure records how far a failed write got, whatever stopped it.
func logWriteFailure(log zerolog.Logger, res writer.Result, err error) {
	ev := log.Error().
		Err(err).
		Int("batches_written", res.Batches).
		Int("registers_written", res.Registers)

	var pe *plan.Error
	if errors.As(err, &pe) && pe.Kind == plan.DayParseFailed {
		ev = ev.Int("day", pe.Day+1)
	}

	if res.Batches > 0 {
		ev.Msg("program partially written")
		return
	}
	ev.Msg("program not written")
}

// readDayFile returns the non-blank lines of path.
func readDayFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open day file: %w", err)
	}
	defer f.Close()

	var days []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		days = append(days, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read day file: %w", err)
	}
	return days, nil
}

// runWatch polls until ctx ends, logging every decoded week and each
// device health transition.
func runWatch(ctx context.Context, cfg *config.Config, client *modbus.Client, log zerolog.Logger) error {
	p, err := poller.Build(cfg, client, log)
	if err != nil {
		return err
	}

	out := make(chan poller.PollResult)
	runErr := make(chan error, 1)
	go func() { runErr <- p.Run(ctx, out) }()

	// Runner-owned state + 1Hz seconds ticker
	var snap status.Snapshot

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-runErr:
			return err

		case res := <-out:
			if snap.Observe(res.Err) {
				ev := log.Info()
				if res.Err != nil {
					ev = log.Warn().Err(res.Err)
				}
				ev.Str("health", status.HealthName(snap.Health)).
					Uint16("last_error_code", snap.LastErrorCode).
					Msg("device health changed")
			}
			if res.Err != nil {
				continue
			}
			log.Info().
				Str("version", res.Version).
				Strs("days", res.Days()).
				Msg("week decoded")

		case <-secTicker.C:
			// seconds_in_error advances here only
			if snap.Tick() && snap.SecondsInError%60 == 0 {
				log.Warn().
					Uint16("seconds_in_error", snap.SecondsInError).
					Uint16("last_error_code", snap.LastErrorCode).
					Msg("device still unhealthy")
			}
		}
	}
}
