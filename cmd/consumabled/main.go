package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/huynhanx03/go-consumable/pkg/logger"
	"github.com/huynhanx03/go-consumable/pkg/settings"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup so that logs are synced on the error path too.
func run(args []string) error {
	app := kingpin.New("consumabled", "Shared consumable pool service.")
	logLevel := app.Flag("log-level", "Override the configured log level.").String()

	serveCmd := app.Command("serve", "Serve the pool over HTTP and attach the configured feeds.").Default()
	configPath := serveCmd.Flag("config", "Path to the YAML configuration file.").Short('c').String()

	demoCmd := app.Command("demo", "Run one producer and one consumer against a shared pool.")
	demoCount := demoCmd.Flag("count", "Number of items to produce.").Default("99").Int()

	cmd, err := app.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := settings.Load(*configPath)
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	if *logLevel != "" {
		cfg.Logger.LogLevel = *logLevel
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return errors.Wrap(err, "failed to set up logging")
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case serveCmd.FullCommand():
		err = serve(ctx, cfg, log)
	case demoCmd.FullCommand():
		err = demo(ctx, *demoCount, log)
	}
	if err != nil {
		log.Error("exiting with error", zap.Error(err))
		return err
	}
	log.Info("see ya!")
	return nil
}
