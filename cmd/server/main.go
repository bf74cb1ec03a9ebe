package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/wordwhiz/wordwhiz/pkg/logging"
	"github.com/wordwhiz/wordwhiz/pkg/server"
	"github.com/wordwhiz/wordwhiz/pkg/store"
	"github.com/wordwhiz/wordwhiz/pkg/version"
	"github.com/wordwhiz/wordwhiz/pkg/words"
)

func main() {
	flagCfg := server.DefaultConfig()

	configPath := flag.String("config", "", "YAML config file")
	flag.StringVar(&flagCfg.Addr, "addr", flagCfg.Addr, "TCP bind address")
	flag.StringVar(&flagCfg.AnswersFile, "answers", flagCfg.AnswersFile, "Answers word list, one word per line")
	flag.StringVar(&flagCfg.AllowedFile, "allowed", flagCfg.AllowedFile, "Allowed-guess word list, one word per line")
	flag.StringVar(&flagCfg.DBPath, "db", flagCfg.DBPath, "SQLite results database file path (empty to disable persistence)")
	flag.StringVar(&flagCfg.MetricsAddr, "metrics", flagCfg.MetricsAddr, "HTTP bind address for Prometheus /metrics (empty to disable)")
	flag.DurationVar(&flagCfg.ChallengeTimeout, "challenge-timeout", flagCfg.ChallengeTimeout, "How long a pending challenge waits before expiring")
	exportResults := flag.Bool("export-results", false, "Export the leaderboard and all game results as YAML and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")

	logLevel := flag.String("log-level", "info", "Log level: "+logging.LevelNames())
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	flag.Parse()

	if *showVersion {
		fmt.Println("wordwhiz-server", version.Full())
		return
	}

	// Configure structured logging
	if err := logging.Setup(logging.Options{
		Level:  *logLevel,
		Format: *logFormat,
		Output: os.Stdout,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	// Layer the configuration: defaults, then config file, then
	// environment, then explicitly set flags, then the positional port.
	cfg := server.DefaultConfig()
	if *configPath != "" {
		if err := server.LoadConfigFile(*configPath, &cfg); err != nil {
			slog.Error("load config file", "path", *configPath, "err", err)
			os.Exit(1)
		}
	}
	if err := server.ApplyEnv(&cfg); err != nil {
		slog.Error("apply environment config", "err", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = flagCfg.Addr
		case "answers":
			cfg.AnswersFile = flagCfg.AnswersFile
		case "allowed":
			cfg.AllowedFile = flagCfg.AllowedFile
		case "db":
			cfg.DBPath = flagCfg.DBPath
		case "metrics":
			cfg.MetricsAddr = flagCfg.MetricsAddr
		case "challenge-timeout":
			cfg.ChallengeTimeout = flagCfg.ChallengeTimeout
		}
	})
	if flag.NArg() > 0 {
		port, err := strconv.Atoi(flag.Arg(0))
		if err != nil || port < 1 || port > 65535 {
			fmt.Fprintf(os.Stderr, "invalid port argument %q\n", flag.Arg(0))
			os.Exit(1)
		}
		cfg.Addr = ":" + strconv.Itoa(port)
	}
	cfg.ExportResults = *exportResults

	// Handle export command (run and exit)
	if cfg.ExportResults {
		if cfg.DBPath == "" {
			fmt.Fprintln(os.Stderr, "export requires a results database (-db)")
			os.Exit(1)
		}
		st, err := store.New(cfg.DBPath)
		if err != nil {
			slog.Error("open database", "err", err)
			os.Exit(1)
		}
		defer func() { _ = st.Close() }()

		data, err := server.ExportResultsYAML(st)
		if err != nil {
			slog.Error("export results", "err", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
		return
	}

	bank, err := words.Load(cfg.AnswersFile, cfg.AllowedFile)
	if err != nil {
		slog.Error("load word lists", "err", err)
		os.Exit(1)
	}

	var results store.DataStore
	if cfg.DBPath != "" {
		st, err := store.New(cfg.DBPath)
		if err != nil {
			slog.Error("open database", "err", err)
			os.Exit(1)
		}
		results = st
	}

	srv := server.New(cfg, server.Dependencies{Bank: bank, Results: results})
	if err := srv.Run(); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
