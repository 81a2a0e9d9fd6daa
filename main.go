package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"duel/internal/bot"
	"duel/internal/catalog"
	"duel/internal/config"
	"duel/internal/console"
	"duel/internal/engine"
	"duel/internal/history"
	"duel/internal/play"
	"duel/internal/server"
)

//go:embed web/static
var static embed.FS

func main() {
	if err := run(); err != nil {
		slog.Error("exit", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	port := flag.Int("port", cfg.Port, "server port")
	cli := flag.Bool("cli", false, "play in the terminal instead of serving")
	vsBot := flag.Bool("bot", false, "with -cli, the second seat is the random bot")
	seed := flag.Uint64("seed", cfg.Seed, "shuffle seed, 0 for random")
	rulesPath := flag.String("rules", cfg.Rules, "rules overlay YAML")
	catalogDir := flag.String("catalog", cfg.Catalog, "directory with cards.yaml and wonders.yaml")
	historyDB := flag.String("history", cfg.HistoryDB, "sqlite file for finished matches")
	logLevel := flag.String("log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	cfg.LogLevel = *logLevel
	level, err := cfg.Level()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logOut := io.Writer(os.Stdout)
	if *cli {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	deck, err := loadCatalog(*catalogDir)
	if err != nil {
		return fmt.Errorf("load catalog %q: %w", *catalogDir, err)
	}
	rules, err := catalog.LoadRules(*rulesPath)
	if err != nil {
		return fmt.Errorf("load rules %q: %w", *rulesPath, err)
	}

	var archive *history.Store
	if *historyDB != "" {
		archive, err = history.Open(*historyDB, logger)
		if err != nil {
			return fmt.Errorf("open history %q: %w", *historyDB, err)
		}
		defer archive.Close()
		slog.Info("history opened", "path", *historyDB)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *cli {
		return playTerminal(ctx, deck, rules, *seed, *vsBot, archive, logger)
	}
	return serve(ctx, *port, deck, rules, *seed, archive, logger)
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default()
	}
	return catalog.LoadDir(dir)
}

func serve(ctx context.Context, port int, deck engine.DeckFactory, rules engine.Rules, seed uint64, archive *history.Store, log *slog.Logger) error {
	sub, err := fs.Sub(static, "web/static")
	if err != nil {
		return err
	}
	opts := server.Options{Deck: deck, Rules: rules, Seed: seed, Log: log}
	if archive != nil {
		opts.Archive = archive
	}
	return server.New(port, sub, opts).Start(ctx)
}

func playTerminal(ctx context.Context, deck engine.DeckFactory, rules engine.Rules, seed uint64, vsBot bool, archive *history.Store, log *slog.Logger) error {
	if seed == 0 {
		seed = rand.Uint64()
	}
	players := [2]*engine.Player{
		engine.NewPlayer("p1", "Player 1"),
		engine.NewPlayer("p2", "Player 2"),
	}
	term := console.New(os.Stdin, os.Stdout)
	seats := [2]play.Presenter{term, term}
	if vsBot {
		players[1] = engine.NewPlayer("bot", "Automaton")
		seats[1] = bot.New(seed)
	}

	mc := engine.DefaultConfig(deck)
	mc.Rules = rules
	mc.Seed = seed
	m, err := engine.NewMatch(players, mc)
	if err != nil {
		return err
	}
	events, err := m.Start()
	if err != nil {
		return err
	}
	log.Debug("match started", "match", m.ID, "seed", seed)
	term.Notify(events)

	r, err := play.Run(ctx, m, seats, log)
	if errors.Is(err, io.EOF) {
		log.Info("input closed, match abandoned", "match", m.ID)
		return nil
	}
	if err != nil {
		return err
	}
	if archive != nil {
		if err := archive.Record(ctx, m.ID, r); err != nil {
			return err
		}
	}
	return nil
}
