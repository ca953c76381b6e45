package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nhle/rulebook/internal/interchange"
	"github.com/nhle/rulebook/internal/model"
	"github.com/nhle/rulebook/internal/store"
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the export library",
		Long: `The export library is a local SQLite file holding snapshots saved with
"save" in the editor or "library add" here. Entries are loaded back into the
editor from its library view.`,
	}
	cmd.AddCommand(
		newLibraryListCmd(),
		newLibraryShowCmd(),
		newLibraryAddCmd(),
		newLibraryRmCmd(),
	)
	return cmd
}

// withLibrary loads config, opens the library and closes it after fn.
func withLibrary(cmd *cobra.Command, fn func(lib *store.SQLiteStore) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lib, err := openLibrary(cfg)
	if err != nil {
		return err
	}
	defer lib.Close()
	return fn(lib)
}

func newLibraryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved exports, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withLibrary(cmd, func(lib *store.SQLiteStore) error {
				exports, err := lib.ListExports(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(exports) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No exports saved.")
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tVERSION\tRULES\tPOINTS\tEXPORTED")
				for _, e := range exports {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
						e.ID, e.Title, e.Version, e.RuleCount, e.PointCount,
						e.ExportedAt.Local().Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().Int("limit", store.DefaultListLimit, "maximum number of entries")
	return cmd
}

func newLibraryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved export as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd, func(lib *store.SQLiteStore) error {
				e, err := lib.GetExport(cmd.Context(), args[0])
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no export with id %s", args[0])
				}
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), e.Body)
				return err
			})
		},
	}
}

func newLibraryAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>",
		Short: "Save a document file into the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := interchange.ReadFile(model.ExpandHome(args[0]), interchange.Lenient)
			if err != nil {
				return fmt.Errorf("%s: %s", args[0], interchange.Message(err))
			}
			e, err := store.NewExport(doc)
			if err != nil {
				return err
			}
			return withLibrary(cmd, func(lib *store.SQLiteStore) error {
				saved, err := lib.SaveExport(cmd.Context(), e)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
				return nil
			})
		},
	}
}

func newLibraryRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a saved export",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLibrary(cmd, func(lib *store.SQLiteStore) error {
				err := lib.DeleteExport(cmd.Context(), args[0])
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no export with id %s", args[0])
				}
				return err
			})
		},
	}
}
