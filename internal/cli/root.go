// Package cli wires the rulebook command tree: the root command launches
// the editor, the subcommands work on document files without a terminal UI.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nhle/rulebook/internal/app"
	"github.com/nhle/rulebook/internal/interchange"
	"github.com/nhle/rulebook/internal/logging"
	"github.com/nhle/rulebook/internal/model"
	"github.com/nhle/rulebook/internal/session"
	"github.com/nhle/rulebook/internal/store"
	"github.com/nhle/rulebook/internal/theme"
	"github.com/nhle/rulebook/internal/watch"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rulebook",
		Short: "Personal rule book editor",
		Long: `rulebook edits a personal rule book: an ordered list of rules, each
holding an ordered list of points. Run without a subcommand to open the
editor. Documents are kept in memory and only written on export.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runEditor,
	}

	root.PersistentFlags().String("config", "", "config file (default ~/.config/rulebook/config.yaml)")
	root.Flags().StringP("file", "f", "", "open this document instead of the built-in template")
	root.Flags().BoolP("watch", "w", false, "re-import --file whenever it changes on disk")

	root.AddCommand(
		newValidateCmd(),
		newSearchCmd(),
		newFmtCmd(),
		newTemplateCmd(),
		newLibraryCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the file named by --config, or the default path.
func loadConfig(cmd *cobra.Command) (*model.AppConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = model.DefaultConfigPath()
	}
	cfg, err := model.LoadConfig(model.ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openLibrary opens the export library, creating its directory.
func openLibrary(cfg *model.AppConfig) (*store.SQLiteStore, error) {
	path := cfg.Library.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating library directory: %w", err)
		}
	}
	lib, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening library %s: %w", path, err)
	}
	return lib, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runEditor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	file, _ := cmd.Flags().GetString("file")
	watchFile, _ := cmd.Flags().GetBool("watch")
	if watchFile && file == "" {
		return errors.New("--watch requires --file")
	}
	if !isTerminal(os.Stdout) {
		return errors.New("the editor requires a terminal; use a subcommand such as validate or fmt")
	}

	if err := theme.Apply(cfg.Display.Theme); err != nil {
		return err
	}

	logger, err := logging.New().FromPath(cfg.Log.Path).Level(cfg.Log.Level).Make()
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Close()
	log := logger.Logger

	initial := model.Template()
	if file != "" {
		initial, err = interchange.ReadFile(model.ExpandHome(file), interchange.Lenient)
		if err != nil {
			return fmt.Errorf("%s: %s", file, interchange.Message(err))
		}
	}

	sess := session.New(initial,
		session.WithCapacity(cfg.History.Limit),
		session.WithLogger(log),
		session.WithDefaultRuleTitle(cfg.Editor.DefaultRuleTitle),
	)

	opts := app.Options{
		Session: sess,
		Config:  *cfg,
		Logger:  log,
	}

	lib, err := openLibrary(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("export library disabled")
	} else {
		defer lib.Close()
		opts.Library = lib
	}

	if watchFile {
		w, err := watch.New(model.ExpandHome(file), log)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
		opts.Watcher = w
	}

	log.Info().Str("file", file).Bool("watch", watchFile).Msg("starting editor")

	p := tea.NewProgram(app.New(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	return nil
}
