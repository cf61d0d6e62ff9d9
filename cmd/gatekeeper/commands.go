// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/gatekeeper/pkg/logging"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper"
)

var (
	flagAddr       string
	flagPolicyFile string
	flagConfigFile string
	flagLogLevel   string
	flagLogDir     string
)

var rootCmd = &cobra.Command{
	Use:   "gatekeeper",
	Short: "Gated validation pipeline for AI-generated code changes",
	Long: "Gatekeeper runs AI-generated change tasks through an ordered " +
		"sequence of validation gates and reports a structured verdict.",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gatekeeper HTTP service",
	RunE:  runServe,
}

var checkCmd = &cobra.Command{
	Use:   "check <task.json>",
	Short: "Run one task file through the pipeline and print the verdict",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPolicyFile, "policy", "",
		"YAML policy overlay applied over the embedded defaults")
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "",
		"YAML file with setting overrides")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info",
		"log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogDir, "log-dir", "",
		"directory for JSON log files (disabled when empty)")

	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8086", "listen address")

	rootCmd.AddCommand(serveCmd, checkCmd)
}

func newLogger(service string) (*logging.Logger, error) {
	return logging.New(logging.Config{
		Level:   flagLogLevel,
		LogDir:  flagLogDir,
		Service: service,
		JSON:    true,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger("gatekeeper")
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Logger
	slog.SetDefault(log)

	svc, err := gatekeeper.NewService(gatekeeper.Options{
		PolicyFile: flagPolicyFile,
		ConfigFile: flagConfigFile,
		Registerer: prometheus.DefaultRegisterer,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	svc.RegisterRoutes(engine)

	server := &http.Server{
		Addr:              flagAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("gatekeeper listening", slog.String("addr", flagAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger, err := newLogger("gatekeeper-cli")
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Logger
	slog.SetDefault(log)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read task file: %w", err)
	}
	var req gatekeeper.ValidateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse task file %s: %w", args[0], err)
	}

	svc, err := gatekeeper.NewService(gatekeeper.Options{
		PolicyFile: flagPolicyFile,
		ConfigFile: flagConfigFile,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	verdict, err := svc.Validate(cmd.Context(), &req)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !verdict.OverallPassed {
		os.Exit(1)
	}
	return nil
}
