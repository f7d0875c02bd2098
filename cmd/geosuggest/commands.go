package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/geosuggest"
	"github.com/poiesic/geosuggest/config"
	"github.com/poiesic/geosuggest/core"
	"github.com/poiesic/geosuggest/metrics"
	"github.com/poiesic/geosuggest/session"
	"github.com/urfave/cli/v2"
)

const prompt = "Search for a country or capital... (:N selects, :q quits)"

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", s)
	}
}

func setupLogger(c *cli.Context) error {
	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// loadConfig reads --config when given, then applies flags the user set explicitly.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	if c.IsSet("source-url") {
		cfg.SourceURL = c.String("source-url")
	}
	if c.IsSet("source-file") {
		cfg.SourceFile = c.String("source-file")
	}
	if c.IsSet("debounce") {
		cfg.Debounce = c.Duration("debounce")
	}
	if c.IsSet("fetch-timeout") {
		cfg.FetchTimeout = c.Duration("fetch-timeout")
	}
	if c.IsSet("pool-size") {
		cfg.PoolSize = c.Int("pool-size")
	}
	if c.IsSet("metrics-addr") {
		cfg.MetricsAddr = c.String("metrics-addr")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openEngine builds the engine and, when configured, starts the metrics
// server. The returned stop function shuts the server down.
func openEngine(cfg *config.Config) (*geosuggest.Engine, func(), error) {
	logger := slog.Default()
	if cfg.MetricsAddr == "" {
		engine, err := geosuggest.Open(cfg, geosuggest.WithLogger(logger))
		return engine, func() {}, err
	}

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		return nil, nil, err
	}
	engine, err := geosuggest.Open(cfg, geosuggest.WithLogger(logger), geosuggest.WithMetrics(collector))
	if err != nil {
		return nil, nil, err
	}

	srv, err := serveMetrics(cfg.MetricsAddr, collector, logger)
	if err != nil {
		return nil, nil, err
	}
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("error stopping metrics server", "err", err)
		}
	}
	return engine, stop, nil
}

func serveMetrics(addr string, collector *metrics.Collector, logger *slog.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())
	return srv, nil
}

func searchCommand(c *cli.Context) error {
	queries := c.Args().Slice()
	if len(queries) == 0 {
		return fmt.Errorf("at least one query is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	engine, stop, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer stop()

	w := c.App.Writer
	fmt.Fprintln(w, session.LoadingMessage)
	results, err := engine.Search(c.Context, queries)
	if err != nil {
		fmt.Fprintln(w, session.LoadErrorMessage)
		return fmt.Errorf("search failed: %w", err)
	}

	for i, query := range queries {
		fmt.Fprintf(w, "%q\n", query)
		if len(results[i]) == 0 {
			fmt.Fprintln(w, "  (no matches)")
			continue
		}
		writeSuggestions(w, results[i])
	}
	return nil
}

func interactiveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	engine, stop, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer stop()

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt)
	defer cancel()

	out := &renderer{w: c.App.Writer}
	s, err := engine.NewSession(session.WithOnChange(out.onChange))
	if err != nil {
		return err
	}
	defer s.Close()

	return runInteractive(ctx, s, c.App.Reader, out)
}

// sessionDriver is the part of a session the input loop drives.
type sessionDriver interface {
	Load(ctx context.Context) error
	Type(query string)
	SelectIndex(i int) (*core.Country, error)
	Pending() bool
}

func runInteractive(ctx context.Context, s sessionDriver, in io.Reader, out *renderer) error {
	// A failed load leaves an empty catalog; the session keeps running
	if err := s.Load(ctx); err != nil {
		slog.Debug("continuing without catalog", "err", err)
	}
	out.println(prompt)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimRight(scanner.Text(), "\r"):
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				waitIdle(ctx, s)
				return nil
			}
			if quit := handleLine(s, line, out); quit {
				return nil
			}
		}
	}
}

func handleLine(s sessionDriver, line string, out *renderer) bool {
	if line == ":q" {
		return true
	}
	if n, ok := strings.CutPrefix(line, ":"); ok {
		idx, err := strconv.Atoi(n)
		if err != nil {
			out.println(fmt.Sprintf("unknown command %q", line))
			return false
		}
		if _, err := s.SelectIndex(idx - 1); err != nil {
			out.println(fmt.Sprintf("no suggestion %d", idx))
		}
		return false
	}
	s.Type(line)
	return false
}

// waitIdle lets a scheduled or running search publish its result before
// input is considered finished.
func waitIdle(ctx context.Context, s sessionDriver) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for s.Pending() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// renderer prints session changes. It is called from the debounce goroutine.
type renderer struct {
	mu sync.Mutex
	w  io.Writer
}

func (r *renderer) println(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, line)
}

func (r *renderer) onChange(ev session.Event, s session.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev := ev.(type) {
	case session.LoadStarted:
		fmt.Fprintln(r.w, session.LoadingMessage)
	case session.LoadFailed:
		fmt.Fprintln(r.w, s.Err)
	case session.LoadSucceeded:
		fmt.Fprintf(r.w, "Loaded %d countries\n", ev.Count)
	case session.SuggestionsComputed:
		if ev.Seq != s.Seq {
			return
		}
		writeSuggestions(r.w, s.Suggestions)
	case session.SuggestionSelected:
		fmt.Fprintf(r.w, "Selected: %s\n", s.Query)
	}
}

func writeSuggestions(w io.Writer, countries []*core.Country) {
	for i, country := range countries {
		fmt.Fprintf(w, "  %d. %s\n", i+1, country.Label())
	}
}
