package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/fang"
	"github.com/marcus/notehub/internal/app"
	"github.com/marcus/notehub/internal/config"
	"github.com/marcus/notehub/internal/draft"
	"github.com/marcus/notehub/internal/keymap"
	"github.com/marcus/notehub/internal/note"
	"github.com/marcus/notehub/internal/notehub"
	"github.com/marcus/notehub/internal/plugin"
	"github.com/marcus/notehub/internal/plugins/notes"
	"github.com/marcus/notehub/internal/query"
	"github.com/marcus/notehub/internal/router"
	"github.com/marcus/notehub/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = ""

type options struct {
	configPath string
	apiURL     string
	token      string
	tag        string
	storage    string
	debug      bool
}

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:   "notehub",
		Short: "Browse, search and write notes from the terminal",
		Long: `notehub is a terminal client for a NoteHub notes service.

It lists notes by tag with pagination, searches as you type and keeps the
note you are writing as a draft between runs.`,
		Example: `  notehub
  notehub --tag Work
  NOTEHUB_TOKEN=... notehub --api-url http://localhost:3000/api`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to config file (json or yaml)")
	f.StringVar(&opts.apiURL, "api-url", "", "notes service base URL")
	f.StringVar(&opts.token, "token", "", "bearer token for the notes service")
	f.StringVar(&opts.tag, "tag", "", "tag filter to open with")
	f.StringVar(&opts.storage, "storage", "", "draft storage backend: file, sqlite or memory")
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	if err := fang.Execute(
		context.Background(),
		cmd,
		fang.WithVersion(effectiveVersion(Version)),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	logger, closeLog := newLogger(opts.debug)
	defer closeLog()

	// A .env in the working directory may carry the API URL and token.
	if err := config.LoadDotenv("."); err != nil {
		logger.Warn("load .env", "err", err)
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	store, err := storage.Open(cfg.Storage.Backend, cfg.StoragePath(), cfg.Storage.SQLiteDriver)
	if err != nil {
		// The draft still works in memory.
		logger.Warn("open storage, draft will not persist", "backend", cfg.Storage.Backend, "err", err)
		store = storage.NewMemoryStore()
	}
	defer func() {
		if err := storage.Close(store); err != nil {
			logger.Warn("close storage", "err", err)
		}
	}()

	client, err := notehub.New(cfg.API.BaseURL,
		notehub.WithToken(cfg.API.Token),
		notehub.WithTimeout(cfg.API.Timeout),
		notehub.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	lists := query.New[note.ListResult](query.WithStaleTime(cfg.Cache.StaleTime))
	deps := notes.Deps{
		API:      client,
		Lists:    lists,
		Notes:    query.New[note.Note](query.WithStaleTime(cfg.Cache.StaleTime)),
		Draft:    draft.New(store, logger),
		Debounce: cfg.UI.SearchDebounce,
	}
	if cfg.Storage.Backend == "" || cfg.Storage.Backend == storage.BackendFile {
		deps.DraftPath = cfg.StoragePath()
	}

	// The unfiltered first page is fetched before the UI starts so the
	// default screen opens populated.
	if cfg.UI.DefaultTag == note.AllTags {
		initial, err := client.List(ctx, note.ListParams{Page: 1, PerPage: notehub.DefaultPerPage})
		if err != nil {
			logger.Warn("prefetch notes", "err", err)
		} else {
			deps.Initial = &initial
		}
	}

	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)
	km.ApplyOverrides(cfg.Keymap.Overrides)

	registry := plugin.NewRegistry(&plugin.Context{
		ConfigDir: config.Dir(),
		Config:    cfg,
		Keymap:    km,
		Logger:    logger,
	})
	if err := registry.Register(notes.New(deps)); err != nil {
		return fmt.Errorf("register notes view: %w", err)
	}

	model := app.New(registry, km, cfg, app.Options{
		Version:        effectiveVersion(Version),
		APIURL:         cfg.API.BaseURL,
		StorageBackend: cfg.Storage.Backend,
		InitialPath:    router.FilterPath(cfg.UI.DefaultTag),
	})
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// applyFlags lets command line flags win over the file and environment.
func applyFlags(cfg *config.Config, opts options) {
	if opts.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(opts.apiURL, "/")
	}
	if opts.token != "" {
		cfg.API.Token = opts.token
	}
	if opts.tag != "" {
		cfg.UI.DefaultTag = opts.tag
	}
	if opts.storage != "" {
		cfg.Storage.Backend = opts.storage
	}
}

// newLogger logs to debug.log in the config dir. The terminal belongs to
// the UI, so nothing is written to stderr while it runs.
func newLogger(debugOn bool) (*slog.Logger, func()) {
	level := slog.LevelWarn
	if debugOn {
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if dir := config.Dir(); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				w = f
				closeFn = func() { _ = f.Close() }
			}
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			revision = s.Value
			break
		}
	}
	if revision != "" {
		if len(revision) > 12 {
			revision = revision[:12]
		}
		return "devel+" + revision
	}
	return "devel"
}
