package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/resume-parser/internal/httpapi"
	"github.com/joseph-ayodele/resume-parser/internal/server"
)

var recoverOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC APIs with the background parser",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("recover") {
			cfg.Pipeline.RecoverOnStart = recoverOnStart
		}
		if err := validConfig(); err != nil {
			return err
		}
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&recoverOnStart, "recover", false, "requeue résumés left PARSING by a previous run (overrides PIPELINE_RECOVER_ON_START)")
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.Pipeline.RecoverOnStart {
		report, err := a.candidates.RecoverPending(ctx)
		if err != nil {
			logger.Error("recovery failed", "error", err)
		} else {
			logger.Info("recovery finished", "stale", report.StaleExtractions, "requeued", report.Requeued, "failed", report.Failed)
		}
	}

	api := httpapi.Server{
		Candidates:     a.candidates,
		Exporter:       a.exporter,
		DB:             a.db,
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	}
	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcSrv, health := server.NewGRPCServer(
		server.NewCandidateServer(a.candidates, a.exporter, logger),
		int(cfg.MaxUploadBytes())*2,
		logger,
	)
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.GRPCAddr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http listening", "addr", cfg.Server.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("grpc listening", "addr", cfg.Server.GRPCAddr)
		if err := grpcSrv.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
		health.Shutdown()

		sctx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpSrv.Shutdown(sctx); err != nil {
			logger.Warn("http shutdown", "error", err)
		}
		stopped := make(chan struct{})
		go func() {
			grpcSrv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-sctx.Done():
			grpcSrv.Stop()
		}
		if err := a.queue.Shutdown(sctx); err != nil {
			logger.Warn("queue shutdown", "error", err, "pending", a.queue.Pending())
			// Workers still running cannot record their own failure once the DB closes.
			fctx, fcancel := context.WithTimeout(context.WithoutCancel(gctx), 5*time.Second)
			n, ferr := a.candidates.FailInterrupted(fctx)
			fcancel()
			if ferr != nil {
				logger.Error("fail interrupted extractions", "error", ferr)
			} else if n > 0 {
				logger.Warn("interrupted extractions failed", "count", n)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}
