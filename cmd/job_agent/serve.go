package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ajsalpv/job-agent/internal/pipeline"
	"github.com/ajsalpv/job-agent/internal/scheduler"
	"github.com/ajsalpv/job-agent/internal/server"
)

var (
	servePort        int
	serveNoScheduler bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the dashboard API and, unless disabled, the periodic scan scheduler.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "Do not start the periodic scan scheduler")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := buildAgent(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	sched := scheduler.New(a.settings.CheckInterval, a.settings.InitialDelay,
		func(ctx context.Context) error {
			_, err := a.runner.RunScan(ctx, pipeline.ScanOptions{
				Keywords:    a.settings.Roles(),
				Locations:   a.settings.Locations(),
				MinFitScore: a.settings.MinFitScore,
			})
			return err
		})

	if !serveNoScheduler {
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		log.Printf("[serve] scheduler running every %s", a.settings.CheckInterval)
	}

	cfg := server.Config{
		Port:      servePort,
		Settings:  a.settings,
		Store:     a.store,
		Runner:    a.runner,
		Generator: a.generator,
		Scheduler: sched,
	}
	if a.mirror != nil {
		cfg.Mirror = a.mirror
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
