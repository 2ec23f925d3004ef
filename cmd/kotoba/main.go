// Package main is the kotoba CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/kotoba/internal/cli"
	"github.com/hyperjump/kotoba/internal/config"
	"github.com/hyperjump/kotoba/internal/embeddings"
	"github.com/hyperjump/kotoba/internal/models"
	"github.com/hyperjump/kotoba/internal/search"
	"github.com/hyperjump/kotoba/internal/server"
	"github.com/hyperjump/kotoba/internal/storage"
	"github.com/hyperjump/kotoba/internal/watcher"
	"github.com/hyperjump/kotoba/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kotoba/config.yaml"

// errUsage is returned after usage has been printed.
var errUsage = errors.New("invalid usage")

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory; if that exists it is used. A missing config
// file falls back to the defaults. Returns the config and the path it belongs to.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

func run(command string, args []string, stdout, stderr io.Writer) error {
	switch command {
	case "similar":
		return runQuery(commandSimilar, args, stdout, stderr)
	case "dissimilar":
		return runQuery(commandDissimilar, args, stdout, stderr)
	case "calc":
		return runQuery(commandCalc, args, stdout, stderr)
	case "info":
		return runInfo(args, stdout, stderr)
	case "server":
		return runServer(args, stderr)
	case "history":
		return runHistory(args, stdout, stderr)
	case "config":
		return runConfig(args, stdout, stderr)
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "kotoba version %s\n", version)
		return nil
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return errUsage
	}
}

const (
	commandSimilar    = "similar"
	commandDissimilar = "dissimilar"
	commandCalc       = "calc"
)

// queryFlags are shared by the similar, dissimilar and calc commands.
type queryFlags struct {
	configPath string
	serverURL  string
	embeddings string
	k          int
	metric     string
	scores     bool
	output     string
	appendOut  bool
	format     string
	debug      bool
}

func (q *queryFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&q.configPath, "config", defaultConfigPath, "config file path")
	fs.StringVar(&q.serverURL, "server", "", "server URL (empty = load the embeddings file directly)")
	fs.StringVar(&q.embeddings, "embeddings", "", "embeddings file (overrides embeddings.path)")
	fs.IntVar(&q.k, "k", 0, "number of words to return (overrides search.default_k)")
	fs.StringVar(&q.metric, "metric", "", "dot_product, euclidean_distance, euclidean_distance_no_sqrt or cosine_similarity (or 1-4)")
	fs.BoolVar(&q.scores, "scores", false, "include scores in the output")
	fs.StringVar(&q.output, "output", "", `output file (overrides output.path; "" disables the file)`)
	fs.BoolVar(&q.appendOut, "append", true, "append to the output file instead of overwriting it")
	fs.StringVar(&q.format, "format", "", "output format: text, json or xlsx")
	fs.BoolVar(&q.debug, "debug", false, "enable debug logging")
}

// applyOverrides copies the flags that were set on the command line into cfg.
func (q *queryFlags) applyOverrides(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "embeddings":
			cfg.Embeddings.Path = q.embeddings
		case "k":
			cfg.Search.DefaultK = q.k
			if cfg.Search.MaxK < q.k {
				cfg.Search.MaxK = q.k
			}
		case "metric":
			cfg.Search.Metric = q.metric
		case "scores":
			cfg.Search.IncludeScores = q.scores
		case "output":
			cfg.Output.Path = q.output
		case "append":
			v := q.appendOut
			cfg.Output.Append = &v
		case "format":
			cfg.Output.Format = strings.ToLower(q.format)
		case "debug":
			cfg.Debug = q.debug
		}
	})
}

func printQueryUsage(fs *flag.FlagSet, command string) {
	switch command {
	case commandCalc:
		fmt.Fprintf(fs.Output(), "Usage: kotoba calc [flags] <expression>\n\n")
		fmt.Fprintf(fs.Output(), "The expression is a word followed by operator/word pairs, evaluated left to right.\n")
		fmt.Fprintf(fs.Output(), "Operators: + - * / (element-wise), separated from words by spaces.\n\n")
	default:
		fmt.Fprintf(fs.Output(), "Usage: kotoba %s [flags] <word> [word...]\n\n", command)
		fmt.Fprintf(fs.Output(), "Words may also be given as one comma-separated argument.\n\n")
	}
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  kotoba similar king
  kotoba similar -k 20 -scores king,queen
  kotoba dissimilar -metric euclidean_distance cat
  kotoba calc "king - man + woman"
  kotoba similar -format xlsx -output results.xlsx king
`)
}

func runQuery(command string, args []string, stdout, stderr io.Writer) error {
	args = argsReorder(args)
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var qf queryFlags
	qf.register(fs)
	fs.Usage = func() { printQueryUsage(fs, command) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errUsage
	}

	cfg, _, err := loadConfig(qf.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	qf.applyOverrides(fs, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	format, err := cli.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	console := format
	if console == cli.OutputXLSX {
		console = cli.OutputText
	}

	var items []*models.BatchItem
	if qf.serverURL != "" {
		items, err = queryViaHTTP(qf.serverURL, command, fs.Args(), cfg)
		if err != nil {
			return err
		}
	} else {
		logger, err := utils.NewConsoleLogger(cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync()

		components, err := initializeComponents(cfg, logger, stderr)
		if err != nil {
			return err
		}
		defer components.Close()
		if _, err := components.Load(cfg.Embeddings.Path); err != nil {
			return err
		}
		items, err = queryDirect(context.Background(), components.Engine, command, fs.Args(), cfg)
		if err != nil {
			return err
		}
	}

	if err := cli.WriteItems(stdout, items, console, cfg.Search.IncludeScores); err != nil {
		return fmt.Errorf("output failed: %w", err)
	}

	results := make([]*models.RankedResult, 0, len(items))
	for _, it := range items {
		if it.Result != nil {
			results = append(results, it.Result)
		}
	}
	if cfg.Output.Path != "" {
		if err := cli.SaveResults(cfg.Output.Path, results, format, cfg.Output.AppendOrDefault(), cfg.Search.IncludeScores); err != nil {
			return err
		}
	}
	if len(results) == 0 {
		return fmt.Errorf("no results")
	}
	return nil
}

func similarityRequest(command string, args []string, cfg *config.Config) *models.SimilarityRequest {
	return &models.SimilarityRequest{
		Words:      utils.SplitWords(strings.Join(args, " ")),
		K:          cfg.Search.DefaultK,
		Metric:     cfg.Search.Metric,
		Dissimilar: command == commandDissimilar,
	}
}

func calculationRequest(args []string, cfg *config.Config) *models.CalculationRequest {
	return &models.CalculationRequest{
		Expression: strings.TrimSpace(strings.Join(args, " ")),
		K:          cfg.Search.DefaultK,
		Metric:     cfg.Search.Metric,
	}
}

func queryDirect(ctx context.Context, engine *search.Engine, command string, args []string, cfg *config.Config) ([]*models.BatchItem, error) {
	if command == commandCalc {
		req := calculationRequest(args, cfg)
		res, err := engine.Calculate(ctx, req)
		if err != nil {
			return nil, err
		}
		return []*models.BatchItem{{Label: res.Label, Result: res}}, nil
	}
	resp, err := engine.Similar(ctx, similarityRequest(command, args, cfg))
	if err != nil {
		return nil, err
	}
	// suggestions are indexed in the background; a one-shot command waits for them
	for _, it := range resp.Items {
		if it.Result == nil && len(it.Suggestions) == 0 && errors.Is(it.Err, embeddings.ErrWordNotFound) {
			engine.WaitSuggestions()
			it.Suggestions, _ = engine.Suggest(it.Label, 5)
		}
	}
	return resp.Items, nil
}

func runInfo(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = load the embeddings file directly)")
	embeddingsPath := fs.String("embeddings", "", "embeddings file (overrides embeddings.path)")
	outputFormat := fs.String("format", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var status infoResponse
	if *serverURL != "" {
		if err := doJSON("GET", *serverURL+"/api/v1/status", nil, &status); err != nil {
			return fmt.Errorf("status failed: %w", err)
		}
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if *embeddingsPath != "" {
			cfg.Embeddings.Path = *embeddingsPath
		}
		logger, err := utils.NewConsoleLogger(cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger, stderr)
		if err != nil {
			return err
		}
		defer components.Close()
		if _, err := components.Load(cfg.Embeddings.Path); err != nil {
			return err
		}
		status.Table = components.Engine.Status()
		if components.History != nil {
			if n, err := components.History.CountResults(context.Background()); err == nil {
				status.HistoryResults = &n
			}
		}
		if n, err := storage.HistoryDiskUsage(cfg.Storage.DatabasePath); err == nil {
			status.DiskUsageBytes = &n
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	case "text":
		writeInfoText(stdout, &status)
		return nil
	default:
		return fmt.Errorf("unknown output format %q; use text or json", *outputFormat)
	}
}

// infoResponse is the subset of GET /api/v1/status the info command prints.
type infoResponse struct {
	Table          models.TableStatus `json:"table"`
	HistoryResults *int64             `json:"history_results,omitempty"`
	DiskUsageBytes *int64             `json:"disk_usage_bytes,omitempty"`
	Watching       []string           `json:"watching,omitempty"`
}

func writeInfoText(w io.Writer, s *infoResponse) {
	fmt.Fprintf(w, "state:      %s\n", s.Table.State)
	if s.Table.Path != "" {
		fmt.Fprintf(w, "path:       %s\n", s.Table.Path)
	}
	if s.Table.SourceID != "" {
		fmt.Fprintf(w, "source_id:  %s\n", s.Table.SourceID)
	}
	fmt.Fprintf(w, "words:      %d\n", s.Table.Words)
	fmt.Fprintf(w, "features:   %d\n", s.Table.Features)
	if !s.Table.LoadedAt.IsZero() {
		fmt.Fprintf(w, "loaded_at:  %s\n", s.Table.LoadedAt.Format(time.RFC3339))
	}
	if s.HistoryResults != nil {
		fmt.Fprintf(w, "history:    %d results\n", *s.HistoryResults)
	}
	if s.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage: %d bytes   # history database\n", *s.DiskUsageBytes)
	}
	for _, f := range s.Watching {
		fmt.Fprintf(w, "watching:   %s\n", f)
	}
}

func runServer(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	embeddingsPath := fs.String("embeddings", "", "embeddings file (overrides embeddings.path)")
	watch := fs.Bool("watch", false, "reload the embeddings file when it changes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *embeddingsPath != "" {
		cfg.Embeddings.Path = *embeddingsPath
	}
	if *watch {
		cfg.Embeddings.Watch = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer components.Close()
	if _, err := components.Load(cfg.Embeddings.Path); err != nil {
		// the server still starts; POST /api/v1/reload can publish a table later
		logger.Warn("initial embeddings load failed", zap.String("path", cfg.Embeddings.Path), zap.Error(err))
	}

	var watchSvc server.WatchService
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Embeddings.Watch {
		w := watcher.NewWatcher(
			[]string{cfg.Embeddings.Path},
			watcher.ReloadFunc(components.Engine.Reload, logger),
			watcher.WithLogger(logger),
		)
		if err := w.Start(watchCtx); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		watchSvc = w
	}

	srv := server.NewServer(components.Engine, &cfg.Server, logger, watchSvc, resolvedConfigPath, cfg)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

func runHistory(args []string, stdout, stderr io.Writer) error {
	args = argsReorder(args)
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = open the history database directly)")
	limit := fs.Int("limit", 20, "number of results to list")
	offset := fs.Int("offset", 0, "number of results to skip")
	scores := fs.Bool("scores", true, "include scores when showing a result")
	outputFormat := fs.String("format", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: kotoba history [flags] [list | show <id> | delete <id>]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil || format == cli.OutputXLSX {
		return fmt.Errorf("unknown output format %q; use text or json", *outputFormat)
	}

	sub := "list"
	if fs.NArg() > 0 {
		sub = fs.Arg(0)
	}
	if (sub == "show" || sub == "delete") && fs.NArg() < 2 {
		fs.Usage()
		return errUsage
	}

	var h historyClient
	if *serverURL != "" {
		h = &httpHistory{baseURL: *serverURL}
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		db, err := storage.NewSQLiteHistory(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()
		h = &localHistory{db: db}
	}

	ctx := context.Background()
	switch sub {
	case "list":
		results, total, err := h.list(ctx, *offset, *limit)
		if err != nil {
			return err
		}
		if format == cli.OutputJSON {
			return cli.WriteResults(stdout, results, format, true)
		}
		fmt.Fprintf(stdout, "%d of %d results\n", len(results), total)
		for _, res := range results {
			fmt.Fprintf(stdout, "%s  %s  %s\n", res.ID, res.CreatedAt.Local().Format("2006-01-02 15:04:05"), cli.Heading(res, false))
		}
		return nil
	case "show":
		res, err := h.get(ctx, fs.Arg(1))
		if err != nil {
			return err
		}
		return cli.WriteResults(stdout, []*models.RankedResult{res}, format, *scores)
	case "delete":
		if err := h.delete(ctx, fs.Arg(1)); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Result deleted: %s\n", fs.Arg(1))
		return nil
	default:
		fs.Usage()
		return errUsage
	}
}

func runConfig(args []string, stdout, stderr io.Writer) error {
	args = argsReorder(args)
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: kotoba config [flags] [show | path | set <key> <value>]\n\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nKeys: %s\n", strings.Join(configKeys, ", "))
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, resolved, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sub := "show"
	if fs.NArg() > 0 {
		sub = fs.Arg(0)
	}
	switch sub {
	case "show":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	case "path":
		fmt.Fprintln(stdout, resolved)
		return nil
	case "set":
		if fs.NArg() != 3 {
			fs.Usage()
			return errUsage
		}
		if err := setConfigValue(cfg, fs.Arg(1), fs.Arg(2)); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if err := config.Save(resolved, cfg); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s = %s\n", fs.Arg(1), fs.Arg(2))
		return nil
	default:
		fs.Usage()
		return errUsage
	}
}

// argsReorder moves any flags (and their values) that appear after the positional
// arguments to the front, since flag.Parse stops at the first non-flag argument.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' && !isOperator(a) {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// isOperator reports whether a is a lone calculator operator such as "-".
func isOperator(a string) bool {
	return a == "-"
}

// Components holds initialized services.
type Components struct {
	Store    *embeddings.Store
	History  storage.History
	Engine   *search.Engine
	progress *cli.Progress
}

// Load loads path into the store, drawing the progress meter when one is configured.
func (c *Components) Load(path string) (*embeddings.Table, error) {
	t, err := c.Store.Load(path)
	if c.progress != nil {
		c.progress.Done()
	}
	return t, err
}

func (c *Components) Close() {
	if c.Engine != nil {
		_ = c.Engine.Close()
	}
	if c.History != nil {
		_ = c.History.Close()
	}
}

// initializeComponents wires the store, history and engine. When progress is non-nil
// a load meter is drawn to it. A history database that cannot be opened is logged and skipped.
func initializeComponents(cfg *config.Config, logger *zap.Logger, progress io.Writer) (*Components, error) {
	c := &Components{}

	storeOpts := []embeddings.StoreOption{embeddings.WithStoreLogger(logger)}
	if progress != nil {
		c.progress = cli.NewProgress(progress, "Loading")
		storeOpts = append(storeOpts, embeddings.WithLoadOptions(embeddings.WithProgress(c.progress.Update)))
	}
	c.Store = embeddings.NewStore(storeOpts...)

	engineOpts := []search.EngineOption{search.WithLogger(logger)}
	if cfg.Storage.DatabasePath != "" {
		h, err := storage.NewSQLiteHistory(cfg.Storage.DatabasePath)
		if err != nil {
			logger.Warn("history disabled", zap.String("path", cfg.Storage.DatabasePath), zap.Error(err))
		} else {
			c.History = h
			engineOpts = append(engineOpts, search.WithHistory(h))
		}
	}
	c.Engine = search.NewEngine(c.Store, &cfg.Search, engineOpts...)
	return c, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `kotoba - word embeddings similarity search

Usage:
  kotoba similar [flags] <word>...       Words most similar to each word
  kotoba dissimilar [flags] <word>...    Words least similar to each word
  kotoba calc [flags] <expression>       Words nearest to e.g. "king - man + woman"
  kotoba info [flags]                    Show the loaded table and history status
  kotoba server [flags]                  Start the HTTP server
  kotoba history [list|show|delete]      Browse recorded results
  kotoba config [show|path|set]          Show or change preferences
  kotoba version                         Show version
  kotoba help                            Show this help

Query Flags (similar, dissimilar, calc):
  --config string      Config file path (default: /usr/local/etc/kotoba/config.yaml, or ./config.yaml)
  --server string      Server URL; empty loads the embeddings file directly (default: "")
  --embeddings string  Embeddings file
  --k int              Number of words to return
  --metric string      dot_product, euclidean_distance_no_sqrt, euclidean_distance, cosine_similarity
  --scores             Include scores
  --output string      Output file ("" to disable)
  --append             Append to the output file (default: true)
  --format string      text, json or xlsx

Server Flags:
  --config string      Config file path
  --debug              Enable debug logging
  --embeddings string  Embeddings file
  --watch              Reload the embeddings file when it changes

Environment:
  KOTOBA_* variables override the config file, e.g. KOTOBA_SEARCH_DEFAULT_K=20.
  A .env file in the working directory is read first.

Examples:
  kotoba similar king queen
  kotoba similar -k 5 -scores -metric dot_product king
  kotoba dissimilar cat
  kotoba calc "king - man + woman"
  kotoba server --watch
  kotoba similar -server http://localhost:8080 king
  kotoba history show <id>
  kotoba config set search.metric euclidean_distance`)
}
