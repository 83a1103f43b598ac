package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/sanad/internal/config"
	"github.com/lepinkainen/sanad/internal/export"
	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/resolver"
	"github.com/lepinkainen/sanad/internal/server"
)

var (
	newEngine = buildEngine
	serve     = func(ctx context.Context, s *server.Server) error { return s.ListenAndServe(ctx) }
)

// CLI represents the complete command structure for the sanad application
type CLI struct {
	// Global flags
	Config   string `help:"Path to a YAML config file" default:"config.yaml" type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error); overrides log.level"`
	JSON     bool   `help:"Print raw JSON instead of formatted text"`

	Collections CollectionsCmd `cmd:"" help:"List the known hadith collections"`
	Books       BooksCmd       `cmd:"" help:"List the books of a collection"`
	Hadiths     HadithsCmd     `cmd:"" help:"List narrations of a collection, one page at a time"`
	Get         GetCmd         `cmd:"" help:"Show a single narration by its number"`
	Search      SearchCmd      `cmd:"" help:"Search the curated narrations"`
	Export      ExportCmd      `cmd:"" help:"Write narrations to disk as markdown notes or JSON"`
	Serve       ServeCmd       `cmd:"" help:"Serve the read API over HTTP"`
}

// CollectionsCmd lists collections
type CollectionsCmd struct{}

// BooksCmd lists books
type BooksCmd struct {
	Collection string `arg:"" help:"Collection id, e.g. bukhari"`
}

// HadithsCmd lists a page of narrations
type HadithsCmd struct {
	Collection string `arg:"" help:"Collection id, e.g. bukhari"`
	Book       int    `short:"b" help:"Restrict to one book number"`
	Page       int    `short:"p" help:"Page number" default:"1"`
	Limit      int    `short:"l" help:"Narrations per page" default:"25"`
	Grade      string `short:"g" help:"Only narrations of this grade (authentic, good, weak, fabricated, unknown)"`
}

// GetCmd shows one narration
type GetCmd struct {
	Collection string `arg:"" help:"Collection id, e.g. bukhari"`
	Number     int    `arg:"" help:"Narration number"`
}

// SearchCmd searches curated narrations
type SearchCmd struct {
	Query      string `arg:"" help:"Text to look for, in English or Arabic"`
	Collection string `short:"c" help:"Restrict to one collection"`
	Page       int    `short:"p" help:"Page number" default:"1"`
	Limit      int    `short:"l" help:"Results per page" default:"25"`
}

// ExportCmd writes narrations to disk
type ExportCmd struct {
	Collection string `arg:"" help:"Collection id, e.g. nawawi"`
	Book       int    `short:"b" help:"Restrict to one book number"`
	Grade      string `short:"g" help:"Only narrations of this grade"`
	Dir        string `short:"d" help:"Output directory" default:"./export" type:"path"`
	Format     string `short:"f" help:"Output format (markdown, json)" default:"markdown" enum:"markdown,md,json"`
	Overwrite  bool   `help:"Overwrite files that already exist"`
}

// ServeCmd runs the HTTP API
type ServeCmd struct {
	Addr string `help:"Listen address; overrides server.addr"`
}

// App carries everything a command needs at run time.
type App struct {
	ctx    context.Context
	engine *Engine
	cfg    config.Config
	out    io.Writer
	json   bool
}

// Execute runs the Kong-based CLI
func Execute() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("sanad"),
		kong.Description("Browse hadith collections resolved from several upstream sources."),
		kong.UsageOnError(),
	)

	v := viper.GetViper()
	if err := initConfig(v, cli.Config); err != nil {
		slog.Error("Failed to read config file", "error", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(v, &cli)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	initLogging(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &App{
		ctx:    ctx,
		engine: newEngine(cfg, slog.Default()),
		cfg:    cfg,
		out:    os.Stdout,
		json:   cli.JSON,
	}

	if err := kctx.Run(app); err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// initConfig registers defaults and environment bindings, then merges the
// config file when it exists. A missing file is not an error.
func initConfig(v *viper.Viper, path string) error {
	config.SetDefaults(v)
	config.BindEnv(v)

	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			slog.Debug("Config file not found, using defaults", "path", path)
			return nil
		}
		return err
	}
	slog.Debug("Config file loaded", "path", v.ConfigFileUsed())
	return nil
}

// loadConfig applies flag overrides on top of viper and builds the typed
// configuration.
func loadConfig(v *viper.Viper, cli *CLI) (config.Config, error) {
	if cli.LogLevel != "" {
		v.Set("log.level", cli.LogLevel)
	}
	if cli.Serve.Addr != "" {
		v.Set("server.addr", cli.Serve.Addr)
	}
	return config.Load(v)
}

func initLogging(level string) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}

	// Logs go to stderr so --json output on stdout stays machine readable
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: lvl,
	})
	slog.SetDefault(slog.New(handler))
}

func parseGrade(raw string) (*hadith.Grade, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	g, ok := hadith.ParseGrade(raw)
	if !ok {
		return nil, fmt.Errorf("unknown grade %q (want one of authentic, good, weak, fabricated, unknown)", raw)
	}
	return &g, nil
}

func optionalBook(n int) (*int, error) {
	switch {
	case n == 0:
		return nil, nil
	case n < 0:
		return nil, fmt.Errorf("book must be a positive number, got %d", n)
	}
	return &n, nil
}

// Run methods for each command

func (c *CollectionsCmd) Run(app *App) error {
	return render(app, app.engine.Resolver.Collections(app.ctx), renderCollections)
}

func (c *BooksCmd) Run(app *App) error {
	return render(app, app.engine.Resolver.Books(app.ctx, c.Collection), renderBooks)
}

func (c *HadithsCmd) Run(app *App) error {
	book, err := optionalBook(c.Book)
	if err != nil {
		return err
	}
	grade, err := parseGrade(c.Grade)
	if err != nil {
		return err
	}

	res := app.engine.Resolver.Hadiths(app.ctx, resolver.ListQuery{
		CollectionID: c.Collection,
		Book:         book,
		Page:         c.Page,
		Limit:        c.Limit,
		Grade:        grade,
	})
	return render(app, res, renderPage)
}

func (c *GetCmd) Run(app *App) error {
	h := app.engine.Resolver.Hadith(app.ctx, c.Collection, c.Number)
	if h == nil {
		return fmt.Errorf("narration %d not found in %s", c.Number, c.Collection)
	}
	return render(app, *h, renderHadith)
}

func (c *SearchCmd) Run(app *App) error {
	res := app.engine.Resolver.Search(app.ctx, resolver.SearchQuery{
		Query:        c.Query,
		CollectionID: c.Collection,
		Page:         c.Page,
		Limit:        c.Limit,
	})
	return render(app, res, renderPage)
}

func (c *ExportCmd) Run(app *App) error {
	book, err := optionalBook(c.Book)
	if err != nil {
		return err
	}
	grade, err := parseGrade(c.Grade)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	summary, err := export.Run(app.ctx, app.engine.Resolver, export.Options{
		CollectionID:   c.Collection,
		CollectionName: app.collectionName(c.Collection),
		Book:           book,
		Grade:          grade,
		Dir:            c.Dir,
		Format:         format,
		Overwrite:      c.Overwrite,
	})
	if err != nil {
		return err
	}
	if app.json {
		return writeJSON(app.out, summary)
	}
	_, err = fmt.Fprintf(app.out, "Exported %d narrations to %s (%d written, %d skipped)\n",
		summary.Narrations, c.Dir, summary.Written, summary.Skipped)
	return err
}

func (c *ServeCmd) Run(app *App) error {
	srv := server.New(app.engine.Resolver, app.engine.Cache, app.cfg.Server.Addr, slog.Default())
	return serve(app.ctx, srv)
}

func (app *App) collectionName(id string) string {
	for _, c := range app.engine.Resolver.Collections(app.ctx) {
		if c.ID == id {
			return c.DisplayName
		}
	}
	return ""
}

// render prints v as JSON when --json is set and through the text renderer otherwise.
func render[T any](app *App, v T, text func(io.Writer, T) error) error {
	if app.json {
		return writeJSON(app.out, v)
	}
	return text(app.out, v)
}
