// Package main is the pdfsift CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/pdfsift/internal/cli"
	"github.com/hyperjump/pdfsift/internal/config"
	"github.com/hyperjump/pdfsift/internal/models"
	"github.com/hyperjump/pdfsift/internal/pipeline"
	"github.com/hyperjump/pdfsift/internal/report"
	"github.com/hyperjump/pdfsift/internal/server"
	"github.com/hyperjump/pdfsift/internal/watcher"
	"github.com/hyperjump/pdfsift/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/pdfsift/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory takes precedence, and a missing default file means built-in defaults.
// Returns the config and the path that was actually loaded ("" for defaults).
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
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// commonFlags are accepted by every subcommand that touches the document directory.
type commonFlags struct {
	configPath *string
	dir        *string
	debug      *bool
	output     *string
}

func addCommonFlags(fs *flag.FlagSet, outputHelp string) commonFlags {
	return commonFlags{
		configPath: fs.String("config", defaultConfigPath, "config file path"),
		dir:        fs.String("dir", "", "document directory (overrides config)"),
		debug:      fs.Bool("debug", false, "enable debug logging"),
		output:     fs.String("output", "text", outputHelp),
	}
}

// applyOverrides applies command line overrides to cfg and makes the directory absolute.
func applyOverrides(cfg *config.Config, dir string, debug bool) {
	if dir != "" {
		cfg.Directory = dir
	}
	if debug {
		cfg.Debug = true
	}
	if abs, err := filepath.Abs(cfg.Directory); err == nil {
		cfg.Directory = abs
	}
}

// argsReorder moves any flags (and their values) that appear after the positional
// arguments to the front so that flag.Parse() sees them. Go's flag package stops at
// the first non-flag argument, so "pdfsift search invoice -output json" would
// otherwise leave -output unparsed. Everything after "--" is positional, which is how
// a pattern starting with "-" is passed.
func argsReorder(args []string) []string {
	head, tail, terminated := args, []string(nil), false
	for i, a := range args {
		if a == "--" {
			head, tail, terminated = args[:i], args[i+1:], true
			break
		}
	}

	split := len(head)
	for i, a := range head {
		if len(a) > 0 && a[0] == '-' {
			split = i
			break
		}
	}
	if !terminated && (split == 0 || split == len(head)) {
		return args
	}

	reordered := make([]string, 0, len(args)+1)
	reordered = append(reordered, head[split:]...)
	if terminated {
		reordered = append(reordered, "--")
	}
	reordered = append(reordered, head[:split]...)
	reordered = append(reordered, tail...)
	return reordered
}

// buildPattern joins positional args with single spaces so "pdfsift search foo bar"
// searches for "foo bar" with or without shell quoting.
func buildPattern(args []string) string {
	return strings.Join(args, " ")
}

// initializeComponents builds the pipeline for cfg. The extraction cache is only
// enabled for long-running modes.
func initializeComponents(cfg *config.Config, logger *zap.Logger, longRunning bool) (*pipeline.Processor, error) {
	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithExtension(cfg.Extension),
		pipeline.WithCaseInsensitiveExtension(cfg.CaseInsensitiveExtension),
		pipeline.WithWorkers(cfg.Workers),
	}
	if longRunning {
		opts = append(opts, pipeline.WithCache(cfg.CacheSize()))
	}
	return pipeline.New(cfg.Directory, opts...)
}

// setup loads config, builds the logger and the pipeline for an interactive subcommand.
func setup(flags commonFlags, longRunning bool) (*config.Config, *zap.Logger, *pipeline.Processor) {
	cfg, _, err := loadConfig(*flags.configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	applyOverrides(cfg, *flags.dir, *flags.debug)

	var logger *zap.Logger
	if longRunning {
		logger, err = utils.NewLogger(cfg.Debug)
	} else {
		logger, err = utils.NewCLILogger(cfg.Debug)
	}
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}

	p, err := initializeComponents(cfg, logger, longRunning)
	if err != nil {
		_ = logger.Sync()
		fatalf("%v", err)
	}
	return cfg, logger, p
}

func parseOutput(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fatalf("%v", err)
	}
	return format
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "list":
		runList()
	case "extract":
		runExtract()
	case "search":
		runSearch()
	case "export":
		runExport()
	case "watch":
		runWatch()
	case "serve":
		runServe()
	case "version", "--version", "-v":
		fmt.Printf("pdfsift version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	flags := addCommonFlags(fs, "output format: text, compact or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))
	format := parseOutput(*flags.output)

	_, logger, p := setup(flags, false)
	defer logger.Sync()

	names, err := p.ListDocuments()
	if err != nil {
		fatalf("List failed: %v", err)
	}
	if err := cli.WriteDocuments(os.Stdout, p.Dir(), names, format); err != nil {
		fatalf("Output failed: %v", err)
	}
}

// resolveDocument maps a CLI argument to a document path. Bare names must be listed in
// the directory; anything else must be an existing file.
func resolveDocument(p *pipeline.Processor, arg string) (string, error) {
	if arg == filepath.Base(arg) {
		path, err := p.Resolve(arg)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, pipeline.ErrDocumentNotFound) {
			return "", err
		}
		if _, statErr := os.Stat(arg); statErr == nil {
			return arg, nil
		}
		names, _ := p.ListDocuments()
		if suggestion, ok := cli.Suggest(arg, names); ok {
			return "", fmt.Errorf("%w (did you mean %q?)", err, suggestion)
		}
		return "", err
	}
	if _, err := os.Stat(arg); err != nil {
		return "", fmt.Errorf("%q: %w", arg, pipeline.ErrDocumentNotFound)
	}
	return arg, nil
}

func runExtract() {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	flags := addCommonFlags(fs, "output format: text or json")
	preview := fs.Int("preview", 0, "truncate each page to this many characters in text output (0 = full)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: pdfsift extract [flags] <document>...\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(os.Args[2:]))
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	format := parseOutput(*flags.output)

	_, logger, p := setup(flags, false)
	defer logger.Sync()

	failed := false
	for _, arg := range fs.Args() {
		path, err := resolveDocument(p, arg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			failed = true
			continue
		}
		ext := p.Extract(path)
		if ext.Failed() {
			failed = true
		}
		if err := cli.WriteExtraction(os.Stdout, ext, format, *preview); err != nil {
			fatalf("Output failed: %v", err)
		}
	}
	if failed {
		_ = logger.Sync()
		os.Exit(1)
	}
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: pdfsift search [flags] <pattern>\n\n")
	fmt.Fprintf(fs.Output(), "The pattern is a regular expression (RE2 syntax), case-sensitive unless it starts with (?i).\n")
	fmt.Fprintf(fs.Output(), "All remaining arguments are joined by single spaces. Use -- before a pattern that starts with \"-\".\n\n")
	fs.PrintDefaults()
	fmt.Fprint(fs.Output(), `
Examples:
  pdfsift search invoice
  pdfsift search "(?i)total\s+due"
  pdfsift search -output compact 'order [0-9]+'
  pdfsift search -report matches.xlsx contract
  pdfsift search -- "-5%"
`)
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	flags := addCommonFlags(fs, "output format: text (human-readable), compact (one file per line), or json (parseable)")
	workers := fs.Int("workers", 0, "documents extracted in parallel (0 = from config)")
	reportPath := fs.String("report", "", "also write the matches to this .xlsx workbook")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))
	if fs.NArg() < 1 {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format := parseOutput(*flags.output)

	cfg, _, err := loadConfig(*flags.configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	applyOverrides(cfg, *flags.dir, *flags.debug)
	if *workers > 0 {
		cfg.Workers = *workers
	}
	logger, err := utils.NewCLILogger(cfg.Debug)
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()
	p, err := initializeComponents(cfg, logger, false)
	if err != nil {
		fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	result, err := p.Search(ctx, buildPattern(fs.Args()))
	if err != nil {
		fatalf("Search failed: %v", err)
	}
	if err := cli.WriteSearchReport(os.Stdout, result, format); err != nil {
		fatalf("Output failed: %v", err)
	}
	if *reportPath != "" {
		if err := report.WriteWorkbook(*reportPath, result); err != nil {
			fatalf("Report failed: %v", err)
		}
		logger.Info("report written", zap.String("path", *reportPath), zap.String("id", result.ID))
	}
}

// exportDocuments exports each target (all listed documents when targets is empty).
// The format is validated once before any document is touched.
func exportDocuments(p *pipeline.Processor, targets []string, format string) ([]*models.ExportResult, error) {
	if _, err := models.ParseExportFormat(format); err != nil {
		return nil, err
	}
	var paths []string
	if len(targets) == 0 {
		names, err := p.ListDocuments()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			path, err := p.Resolve(name)
			if err != nil {
				return nil, err
			}
			paths = append(paths, path)
		}
	} else {
		for _, arg := range targets {
			path, err := resolveDocument(p, arg)
			if err != nil {
				return nil, err
			}
			paths = append(paths, path)
		}
	}
	results := make([]*models.ExportResult, 0, len(paths))
	for _, path := range paths {
		res, err := p.Export(path, format)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	flags := addCommonFlags(fs, "output format: text or json")
	exportFormat := fs.String("format", "", "export format: txt, csv or json (default from config)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: pdfsift export [flags] [document...]\n\n")
		fmt.Fprintf(fs.Output(), "Writes <document>.<format> next to each document. Without arguments every document is exported.\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(os.Args[2:]))
	format := parseOutput(*flags.output)

	cfg, logger, p := setup(flags, false)
	defer logger.Sync()
	if *exportFormat == "" {
		*exportFormat = cfg.Export.DefaultFormat
	}

	results, err := exportDocuments(p, fs.Args(), *exportFormat)
	for _, res := range results {
		if writeErr := cli.WriteExportResult(os.Stdout, res, format); writeErr != nil {
			fatalf("Output failed: %v", writeErr)
		}
	}
	if err != nil {
		_ = logger.Sync()
		fatalf("Export failed: %v", err)
	}
}

// watchHandlers returns the watcher callbacks: changed documents are exported in
// format and removed documents are dropped from the cache.
func watchHandlers(p *pipeline.Processor, format string, logger *zap.Logger, out io.Writer, output cli.OutputFormat) (onChange, onRemove func(path string)) {
	onChange = func(path string) {
		p.Invalidate(path)
		res, err := p.Export(path, format)
		if err != nil {
			logger.Warn("watch export failed", zap.String("path", path), zap.Error(err))
			return
		}
		_ = cli.WriteExportResult(out, res, output)
	}
	onRemove = func(path string) {
		p.Invalidate(path)
		logger.Debug("document removed", zap.String("path", path))
	}
	return onChange, onRemove
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	flags := addCommonFlags(fs, "output format for export lines: text or json")
	exportFormat := fs.String("format", "", "export format for changed documents (default from config)")
	syncExisting := fs.Bool("sync", false, "export every existing document on start")
	_ = fs.Parse(argsReorder(os.Args[2:]))
	output := parseOutput(*flags.output)

	cfg, logger, p := setup(flags, true)
	defer logger.Sync()
	if *exportFormat == "" {
		*exportFormat = cfg.Watch.ExportFormat
	}
	if _, err := models.ParseExportFormat(*exportFormat); err != nil {
		fatalf("%v", err)
	}

	onChange, onRemove := watchHandlers(p, *exportFormat, logger, os.Stdout, output)
	w := watcher.NewWatcher(p.Dir(), p.Matches, onChange, onRemove,
		watcher.WithLogger(logger),
		watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond),
	)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := w.Start(ctx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	defer w.Stop()
	if *syncExisting {
		if err := w.SyncExistingFiles(); err != nil {
			logger.Warn("initial sync failed", zap.Error(err))
		}
	}
	logger.Info("watching", zap.String("directory", p.Dir()), zap.String("format", *exportFormat))
	<-ctx.Done()
	logger.Info("Shutting down...")
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	flags := addCommonFlags(fs, "ignored; responses are always JSON")
	host := fs.String("host", "", "listen host (default from config)")
	port := fs.Int("port", 0, "listen port (default from config)")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	cfg, logger, p := setup(flags, true)
	defer logger.Sync()
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Cache.Enabled {
		w := watcher.NewWatcher(p.Dir(), p.Matches, p.Invalidate, p.Invalidate,
			watcher.WithLogger(logger),
			watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond),
		)
		if err := w.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
	}

	srv := server.NewServer(p, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printUsage() {
	fmt.Println(`pdfsift - Extract, search and export the text of a directory of PDFs

Usage:
  pdfsift list [flags]                    List documents in the directory
  pdfsift extract [flags] <document>...   Print the text of each page
  pdfsift search [flags] <pattern>        Find the pages matching a regular expression
  pdfsift export [flags] [document...]    Write <document>.<txt|csv|json> next to each document
  pdfsift watch [flags]                   Export documents as they are created or modified
  pdfsift serve [flags]                   Start the HTTP API
  pdfsift version                         Show version
  pdfsift help                            Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/pdfsift/config.yaml, or ./config.yaml if present)
  --dir string       Document directory (overrides config)
  --debug            Enable debug logging
  --output string    Output format: text, json (search and list also: compact)

Search Flags:
  --workers int      Documents extracted in parallel (default from config)
  --report string    Also write matches to an .xlsx workbook

Export Flags:
  --format string    txt, csv or json (default from config)

Watch Flags:
  --format string    Export format for changed documents (default from config)
  --sync             Export every existing document on start

Serve Flags:
  --host string      Listen host (default from config)
  --port int         Listen port (default from config)

Examples:
  pdfsift list -dir ./invoices
  pdfsift search "(?i)total due"
  pdfsift search -output json -report hits.xlsx 'order [0-9]+'
  pdfsift export -format csv report.pdf
  pdfsift export -format json
  pdfsift watch -format txt -sync
  pdfsift serve -port 9090`)
}
