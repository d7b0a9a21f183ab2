// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Pulse counter program.
//
// Counts falling edges on a GPIO pin and writes the number of edges
// seen in each interval to stdout, one line per interval:
//
//	pulsecount 17
//	pulsecount --interval 250ms --backend periph 17

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aamcrae/pulsecount/pulse"
	"github.com/spf13/cobra"
)

type options struct {
	interval time.Duration
	backend  string
	rate     float64
	config   string
	section  string
	stdout   io.Writer
	stderr   io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var argErr *pulse.ArgumentError
	var setupErr *pulse.SetupError
	switch {
	case errors.As(err, &argErr):
		if argErr.Token != "" {
			fmt.Fprintf(stderr, "Error converting the argument: %v\n", argErr)
		} else {
			fmt.Fprintf(stderr, "Invalid argument: %v\n", argErr)
		}
		fmt.Fprint(stderr, cmd.UsageString())
	case errors.As(err, &setupErr):
		if setupErr.Stage == pulse.StageBind {
			fmt.Fprintf(stderr, "Unable to setup edge detection on pin %d: %v\n", setupErr.Pin, setupErr.Err)
		} else {
			fmt.Fprintf(stderr, "Unable to setup GPIO: %v\n", setupErr.Err)
		}
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:   "pulsecount [flags] <gpio-pin>",
		Short: "Count encoder pulses on a GPIO pin",
		Long: `Count falling edges on a GPIO pin, such as the output of a
wheel encoder, and write the number of edges seen in each
interval to stdout as one decimal number per line.

The pin is numbered as the selected backend numbers it
(BCM numbering for sysfs and periph). The program runs until
interrupted.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &pulse.ArgumentError{Err: err}
	})
	def := pulse.DefaultConfig()
	f := cmd.Flags()
	f.DurationVarP(&opts.interval, "interval", "i", def.Interval, "reporting interval")
	f.StringVarP(&opts.backend, "backend", "b", def.Backend, "edge source: sysfs, periph or sim")
	f.Float64Var(&opts.rate, "rate", def.Rate, "edges per second for the sim backend")
	f.StringVarP(&opts.config, "config", "c", "", "configuration file")
	f.StringVar(&opts.section, "section", pulse.DefaultSection, "configuration file section")
	return cmd
}

// newLogger creates the operational logger. Counts go to stdout,
// so all logging goes to stderr.
func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	if len(args) != 1 {
		return &pulse.ArgumentError{Err: fmt.Errorf("expected 1 pin argument, got %d", len(args))}
	}
	pin, err := pulse.ParsePin(args[0])
	if err != nil {
		return err
	}
	cfg, err := configure(cmd, opts)
	if err != nil {
		return err
	}
	cfg.Pin = pin
	src, err := newSource(cfg)
	if err != nil {
		return &pulse.ArgumentError{Err: err}
	}
	logger := newLogger(opts.stderr)
	enc, err := pulse.NewEncoder(cfg, src, opts.stdout, logger)
	if err != nil {
		return err
	}
	defer enc.Close()
	err = enc.Run(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("shutdown complete", "pin", cfg.Pin)
	return nil
}

// configure merges the defaults, the config file and the flags,
// in increasing order of precedence.
func configure(cmd *cobra.Command, opts *options) (pulse.Config, error) {
	cfg := pulse.DefaultConfig()
	if opts.config != "" {
		if err := cfg.Load(opts.config, opts.section); err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
	}
	f := cmd.Flags()
	if f.Changed("interval") {
		cfg.Interval = opts.interval
	}
	if f.Changed("backend") {
		cfg.Backend = opts.backend
	}
	if f.Changed("rate") {
		cfg.Rate = opts.rate
	}
	if err := cfg.Validate(); err != nil {
		return cfg, &pulse.ArgumentError{Err: err}
	}
	return cfg, nil
}
