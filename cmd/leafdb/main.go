package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/chzyer/readline"

	"github.com/tuannm99/leafdb/internal"
	"github.com/tuannm99/leafdb/internal/table"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		logLevel   = flag.String("log-level", "", "log level (debug, info, warn, error)")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <db file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := internal.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if flag.NArg() > 0 {
		cfg.Storage.Path = flag.Arg(0)
	}
	if cfg.Storage.Path == "" {
		fmt.Fprintln(os.Stderr, "Must supply a database filename.")
		os.Exit(1)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		fmt.Fprintf(os.Stderr, "log level: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))

	tbl, err := table.Open(cfg.Storage.Path, cfg.TableOptions())
	if err != nil {
		slog.Error("open table", "path", cfg.Storage.Path, "err", err)
		os.Exit(1)
	}

	var rl lineReader
	if readline.DefaultIsTerminal() {
		rl, err = readline.NewEx(&readline.Config{
			Prompt:          cfg.REPL.Prompt,
			HistoryFile:     cfg.REPL.HistoryFile,
			InterruptPrompt: "^C",
			EOFPrompt:       ".exit",
		})
		if err != nil {
			_ = tbl.Close()
			fmt.Fprintf(os.Stderr, "readline: %v\n", err)
			os.Exit(1)
		}
	} else {
		rl = newScanReader(os.Stdin, os.Stdout, cfg.REPL.Prompt)
	}

	os.Exit(runREPL(rl, tbl, os.Stdout))
}
