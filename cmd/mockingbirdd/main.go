// Command mockingbirdd serves sender-spoofing analyses over HTTP.
//
// It exposes POST /analyze, GET /healthz and GET /metrics, logs with
// slog and shuts down gracefully on SIGINT or SIGTERM. Every flag can
// also be set through an environment variable carrying the MOCKINGBIRD
// prefix, e.g. MOCKINGBIRD_ADDR.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jamiealquiza/envy"

	"github.com/synqronlabs/mockingbird"
	"github.com/synqronlabs/mockingbird/dns"
	"github.com/synqronlabs/mockingbird/server"
)

func main() {
	conf := struct {
		addr         *string
		nameservers  *string
		dnssec       *bool
		stdResolver  *bool
		checkTimeout *time.Duration
		logJSON      *bool
		logLevel     *string
	}{
		addr:         flag.String("addr", ":8080", "HTTP listen address"),
		nameservers:  flag.String("nameservers", "", "comma-separated DNS servers, host or host:port (system servers when empty)"),
		dnssec:       flag.Bool("dnssec", false, "request DNSSEC validation from the upstream resolvers"),
		stdResolver:  flag.Bool("std-resolver", false, "use the platform resolver instead of direct DNS queries"),
		checkTimeout: flag.Duration("check-timeout", mockingbird.DefaultCheckTimeout, "per-mechanism DNS check timeout"),
		logJSON:      flag.Bool("log-json", false, "emit JSON logs instead of text"),
		logLevel:     flag.String("log-level", "info", "log level: debug, info, warn or error"),
	}
	envy.Parse("MOCKINGBIRD")
	flag.Parse()

	logger := newLogger(*conf.logJSON, *conf.logLevel)

	var resolver dns.Resolver
	if *conf.stdResolver {
		resolver = dns.NewStdResolver()
	} else {
		var servers []string
		for _, s := range strings.Split(*conf.nameservers, ",") {
			if s = strings.TrimSpace(s); s != "" {
				servers = append(servers, s)
			}
		}
		resolver = dns.NewResolver(dns.ResolverConfig{
			Nameservers: servers,
			DNSSEC:      *conf.dnssec,
		})
	}

	srv := server.New(server.Config{
		Addr: *conf.addr,
		Analyzer: mockingbird.New(mockingbird.Config{
			Resolver:     resolver,
			Logger:       logger,
			CheckTimeout: *conf.checkTimeout,
		}),
		Logger: logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), srv.Config().ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger(json bool, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if json {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
