// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Binary pistats shows rotating host telemetry pages on an ST7789 LCD.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/toothrot/pistats/devices/st7789"
	"github.com/toothrot/pistats/internal/config"
	"github.com/toothrot/pistats/internal/dashboard"
	"github.com/toothrot/pistats/internal/errors"
	"github.com/toothrot/pistats/internal/logger"
	"github.com/toothrot/pistats/internal/metrics"
	"github.com/toothrot/pistats/internal/pages"
	"periph.io/x/periph/conn/physic"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError writes err followed by exactly one newline.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, strings.TrimRight(err.Error(), "\n"))
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath     string
		printConfig bool
	)
	cmd := &cobra.Command{
		Use:   "pistats",
		Short: "Show host telemetry on an ST7789 LCD",
		Long: `Collect CPU, memory, temperature, disk, load and network figures once per
update interval and cycle through one page per metric on a 240x280 SPI LCD.

Examples:
  pistats
  pistats --update 2 --page 10
  pistats --config /etc/pistats.yaml --debug
  pistats --page 10 --print-config > /etc/pistats.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath, cmd.Flags())
			if err != nil {
				return err
			}
			if printConfig {
				data, err := config.Marshal(cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	d := config.Default()
	f := cmd.Flags()
	f.StringVar(&cfgPath, "config", "", "YAML config file.")
	f.BoolVar(&printConfig, "print-config", false, "Print the effective configuration as YAML and exit.")
	f.Int("update", d.Update, "Seconds between frames.")
	f.Int("page", d.Page, "Seconds each page stays on screen.")
	f.Int("history", d.History, "Samples kept per metric.")
	f.Int("slide-frames", d.SlideFrames, "Intermediate frames in the page transition; 0 switches pages instantly.")
	f.String("spi", d.SPI, "SPI port name; empty selects the first port.")
	f.Int("speed", d.Speed, "SPI clock in MHz.")
	f.String("disk", d.Disk, "Mount point reported on the DISK page.")
	f.String("iface", d.Iface, "Network interface to count; empty sums all but loopback.")
	f.Bool("debug", d.Debug, "Log timings and metric read failures.")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.New("[pistats]", cfg.Debug)
	logger.SetDefault(log)

	d, err := st7789.New(st7789.Opts{
		Pins:   st7789.DefaultPins,
		Port:   cfg.SPI,
		Speed:  physic.Frequency(cfg.Speed) * physic.MegaHertz,
		Logger: log,
	})
	if err != nil {
		return errors.PanelOpen(err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Warn("closing panel: %v", err)
		}
	}()

	log.Info("Initializing")
	if err := d.Init(); err != nil {
		return errors.PanelInit(err)
	}

	c := metrics.NewCollector(metrics.Opts{
		DiskPath: cfg.Disk,
		Iface:    cfg.Iface,
		Logger:   log,
	})
	dash, err := dashboard.New(d, c, dashboard.Opts{
		Pages:        pages.Default(),
		Update:       cfg.UpdateInterval(),
		PageDuration: cfg.PageDuration(),
		HistorySize:  cfg.History,
		SlideFrames:  cfg.SlideFrames,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	log.Info("Running: update every %v, page every %v", cfg.UpdateInterval(), cfg.PageDuration())
	if err := dash.Run(ctx); err != nil {
		return err
	}
	log.Info("Shutting down")
	return nil
}
