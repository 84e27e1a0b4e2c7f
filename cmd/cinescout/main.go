// Cinescout - Movie Discovery and Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescout

// Package main is the entry point for the Cinescout interactive client.
//
// Cinescout is a terminal client for browsing and discovering movies
// through a remote recommendation API: free-text search, infinite-scroll
// style catalog pagination, similarity recommendation chains and a
// personalized shelf, with best-effort interaction telemetry.
//
// # Application Architecture
//
// The client initializes components in the following order:
//
//  1. Configuration: layered loading via Koanf v2 (defaults, YAML, env)
//  2. Logging: zerolog global logger
//  3. Local state: BadgerDB holding the durable session identifier
//  4. API client: REST client with rate limiting and a circuit breaker
//  5. Engine: discovery state, search controller, paginator,
//     recommendation orchestrator, interaction recorder, scroll coordinator
//  6. Metrics: optional Prometheus /metrics listener
//
// # Configuration
//
// Environment variables use the CINESCOUT_ prefix with double underscores
// for nesting, e.g.:
//
//	export CINESCOUT_API__BASE_URL=http://localhost:5000
//	export CINESCOUT_LOG__LEVEL=debug
//	./cinescout
//
// # Commands
//
// The interactive loop accepts:
//
//	search <text>   issue a search (empty text returns to browsing)
//	clear           return to catalog browsing
//	next            load the next catalog page
//	select <n>      select the n-th listed movie (1-based)
//	home            jump to the catalog section
//	dismiss         dismiss the inline failure message
//	quit            drain in-flight work and exit
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinescout/internal/api"
	"github.com/tomtom215/cinescout/internal/config"
	"github.com/tomtom215/cinescout/internal/discovery"
	"github.com/tomtom215/cinescout/internal/logging"
	"github.com/tomtom215/cinescout/internal/models"
	"github.com/tomtom215/cinescout/internal/recommend"
	"github.com/tomtom215/cinescout/internal/session"
	"github.com/tomtom215/cinescout/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		logging.Err(err).Msg("cinescout exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logging.Info().Str("api", cfg.API.BaseURL).Msg("cinescout starting")

	// Durable local state for the session identifier.
	db, err := badger.Open(badger.DefaultOptions(cfg.Data.Dir).WithLogger(nil))
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() { _ = db.Close() }()

	var client api.ClientInterface = api.NewClient(cfg.API.BaseURL, api.Options{
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
	})
	if cfg.API.CircuitBreaker {
		client = api.NewCircuitBreakerClient(client)
	}

	sessions := session.NewManager(session.NewBadgerStore(db), client)
	recorder := telemetry.NewRecorder(client, sessions)

	state := discovery.NewState()
	search := discovery.NewSearchController(state, client)
	paginator := discovery.NewPaginator(state, client, cfg.Catalog.PageSize)
	orchestrator := recommend.NewOrchestrator(client, sessions, recorder, recommend.Options{
		Personalization:   cfg.Personalization.Enabled,
		PersonalizedLimit: cfg.Personalization.Limit,
	})
	scroller := discovery.NewScrollCoordinator(state, func(section discovery.Section, offset int) {
		fmt.Printf("-- jumped to %s (offset %dpx)\n", section, offset)
	})
	state.AddListener(scroller.OnStateChange)

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.ListenAddr)
	}

	ctx := context.Background()

	if err := client.Ping(ctx); err != nil {
		// Non-fatal: the API may come up later; the user can retrigger.
		logging.Warn().Err(err).Msg("recommendation API unreachable at startup")
	}

	// Initial catalog load, and the once-per-session personalized shelf.
	paginator.LoadInitial(ctx)
	paginator.Wait()
	orchestrator.EnsurePersonalized(ctx)
	orchestrator.Wait()

	repl(ctx, state, search, paginator, orchestrator, scroller)

	// Drain in-flight work before closing the store.
	search.Wait()
	paginator.Wait()
	orchestrator.Wait()
	logging.Info().Msg("cinescout shutting down")
	return nil
}

// serveMetrics exposes Prometheus metrics on its own listener.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logging.Info().Str("addr", addr).Msg("metrics listener started")
	if err := server.ListenAndServe(); err != nil {
		logging.Err(err).Msg("metrics listener stopped")
	}
}

// repl runs the interactive command loop until EOF or quit.
func repl(
	ctx context.Context,
	state *discovery.State,
	search *discovery.SearchController,
	paginator *discovery.Paginator,
	orchestrator *recommend.Orchestrator,
	scroller *discovery.ScrollCoordinator,
) {
	render(state, orchestrator)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")

		switch cmd {
		case "quit", "exit":
			return

		case "search":
			search.SetQuery(ctx, arg)
			search.Wait()
			// Re-issue the personalized shelf trigger when returning to
			// browsing; it is a no-op after the first run.
			if state.Snapshot().Mode == discovery.ModeBrowsing {
				orchestrator.EnsurePersonalized(ctx)
				orchestrator.Wait()
			}

		case "clear":
			search.ClearQuery()
			search.Wait()

		case "next":
			paginator.LoadNext(ctx)
			paginator.Wait()

		case "select":
			index, err := strconv.Atoi(strings.TrimSpace(arg))
			snap := state.Snapshot()
			movies := snap.Movies()
			if err != nil || index < 1 || index > len(movies) {
				fmt.Println("usage: select <n> (1-based index into the list)")
				break
			}
			orchestrator.SelectMovie(ctx, movies[index-1])
			orchestrator.Wait()

		case "home":
			scroller.RequestSection(discovery.SectionCatalog)

		case "dismiss":
			state.DismissNotice()

		case "":
			// ignore blank lines

		default:
			fmt.Println("commands: search <text> | clear | next | select <n> | home | dismiss | quit")
		}

		render(state, orchestrator)
		fmt.Print("> ")
	}
}

// render prints the current discovery state and recommendation shelves.
func render(state *discovery.State, orchestrator *recommend.Orchestrator) {
	snap := state.Snapshot()

	if snap.Notice != "" {
		fmt.Printf("!! %s (dismiss to hide)\n", snap.Notice)
	}

	switch snap.Mode {
	case discovery.ModeSearching:
		fmt.Printf("search %q: %d result(s)\n", snap.Query, len(snap.Results))
		printMovies(snap.Results)
	default:
		fmt.Printf("catalog: page %d/%d, %d movie(s) loaded", snap.Cursor.Page, snap.Cursor.TotalPages, len(snap.Catalog))
		if snap.Cursor.HasNext {
			fmt.Print(", more available (next)")
		}
		fmt.Println()
		printMovies(snap.Catalog)

		if personal := orchestrator.Personalized(); len(personal.Movies) > 0 {
			fmt.Println("picked for you:")
			printMovies(personal.Movies)
		}
	}

	if similar := orchestrator.Similar(); similar.Key != "" {
		switch {
		case similar.Loading:
			fmt.Printf("because you viewed %q: loading...\n", similar.Key)
		case similar.Err != nil:
			fmt.Printf("because you viewed %q: unavailable\n", similar.Key)
		default:
			fmt.Printf("because you viewed %q:\n", similar.Key)
			printMovies(similar.Movies)
		}
	}
}

// printMovies lists movies with their 1-based index for select commands.
func printMovies(movies []models.Movie) {
	for i, movie := range movies {
		fmt.Printf("  %3d. %s  [%s]\n", i+1, movie.Title, movie.PosterOrPlaceholder())
	}
}
