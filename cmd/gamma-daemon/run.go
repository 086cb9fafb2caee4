package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cptspacemanspiff/gamma-daemon/internal/backlight"
	"github.com/cptspacemanspiff/gamma-daemon/internal/collector"
	"github.com/cptspacemanspiff/gamma-daemon/internal/config"
	"github.com/cptspacemanspiff/gamma-daemon/internal/daemon"
	dbussvc "github.com/cptspacemanspiff/gamma-daemon/internal/dbus"
	"github.com/cptspacemanspiff/gamma-daemon/internal/mqtt"
	"github.com/cptspacemanspiff/gamma-daemon/internal/storage"
)

func runDaemon(ctx context.Context, opts *options) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger(os.Stderr, parseTopics(opts.verbose, opts.logTopics))
	powerLog := logger.With("topic", "power")
	backlightLog := logger.With("topic", "backlight")
	storageLog := logger.With("topic", "storage")
	sleepLog := logger.With("topic", "sleep")
	mqttLog := logger.With("topic", "mqtt")

	cfg := config.LoadOrDefault(opts.configPath, logger)

	dev, err := backlight.Find(cfg.Daemon.Display)
	if err != nil {
		logger.Error("find display", "err", err)
		return err
	}
	backlightLog.Info("display selected", "name", dev.Name, "max_brightness", dev.MaxBrightness)

	sink, err := newSink(cfg.Daemon.Sink, dev)
	if err != nil {
		logger.Error("open brightness sink", "sink", cfg.Daemon.Sink, "err", err)
		return err
	}

	reader := newReader(cfg.Daemon.Reader)
	powerLog.Info("power reader selected", "reader", cfg.Daemon.Reader)

	var recorders []daemon.Recorder

	if cfg.Storage.Enabled {
		store, err := openStore(cfg.Storage.DBPath)
		if err != nil {
			logger.Warn("history disabled", "err", err)
		} else {
			defer store.Close()
			recorders = append(recorders, store)

			retention := time.Duration(cfg.Storage.RetentionDays) * 24 * time.Hour
			interval := time.Duration(cfg.Storage.CleanupIntervalHours) * time.Hour
			go store.RunCleanup(ctx, retention, interval, storageLog)

			svc := dbussvc.NewService(store, dev.Name, cfg.Brightness)
			if conn, err := svc.Export(); err != nil {
				logger.Warn("D-Bus service unavailable", "err", err)
			} else {
				defer conn.Close()
				logger.Info("D-Bus service registered", "name", dbussvc.BusName)
			}
		}
	}

	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewRealPublisher(cfg.MQTT)
		if err != nil {
			mqttLog.Warn("MQTT publisher unavailable", "broker", cfg.MQTT.Broker, "err", err)
		} else {
			defer pub.Close()
			recorders = append(recorders, mqtt.Recorder{Publisher: pub})
			mqttLog.Info("publishing decisions", "broker", cfg.MQTT.Broker, "topic", cfg.MQTT.Topic)
		}
	}

	var wakeCh <-chan struct{}
	sleepMon, err := collector.NewSleepMonitor(sleepLog)
	if err != nil {
		logger.Warn("sleep monitor unavailable", "err", err)
	} else {
		wakeCh = sleepMon.Wake()
		defer sleepMon.Close()
	}

	loop := daemon.New(daemon.Params{
		Reader:     reader,
		Sink:       sink,
		Brightness: cfg.Brightness,
		Interval:   time.Duration(cfg.Daemon.IntervalSeconds) * time.Second,
		Recorders:  recorders,
		Wake:       wakeCh,
		Logger:     logger,
	})

	logger.Info("gamma-daemon started", "display", dev.Name, "interval_seconds", cfg.Daemon.IntervalSeconds)
	if err := loop.Run(ctx); err != nil {
		logger.Error("gamma loop failed", "err", err)
		return err
	}
	logger.Info("shutting down")
	return nil
}

func newSink(kind string, dev backlight.Device) (daemon.Sink, error) {
	switch kind {
	case config.SinkLogind:
		return backlight.NewLogindSink(dev)
	case config.SinkSysfs:
		return backlight.NewSysfsSink(dev), nil
	}
	return nil, fmt.Errorf("unknown sink %q", kind)
}

func newReader(kind string) collector.Reader {
	if kind == config.ReaderLibrary {
		return collector.NewLibraryReader(0)
	}
	return collector.NewSysfsReader()
}

func openStore(path string) (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return storage.Open(path)
}

