package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/rulebook/internal/interchange"
	"github.com/nhle/rulebook/internal/model"
	"github.com/nhle/rulebook/internal/search"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a file is a well-formed rule book",
		Long: `Parse a document and run the shape checks used on import. With --strict
the checks of the raw document editor apply: meta must be present and every
rule needs an id, a title and a points array.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strict, _ := cmd.Flags().GetBool("strict")
			mode := interchange.Lenient
			if strict {
				mode = interchange.Strict
			}

			doc, err := interchange.ReadFile(model.ExpandHome(args[0]), mode)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %s\n", args[0], interchange.Message(err))
				return fmt.Errorf("%s is not a valid rule book", args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d rules, %d points (%s)\n",
				args[0], len(doc.Rules), doc.PointCount(), mode)
			return nil
		},
	}
	cmd.Flags().Bool("strict", false, "apply the raw editor's strict checks")
	return cmd
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <file> <query>",
		Short: "Print the titles of rules matching a query",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := interchange.ReadFile(model.ExpandHome(args[0]), interchange.Lenient)
			if err != nil {
				return fmt.Errorf("%s: %s", args[0], interchange.Message(err))
			}

			out := cmd.OutOrStdout()
			for _, r := range search.Filter(doc, args[1]) {
				fmt.Fprintln(out, r.Title)
				for _, p := range r.Points {
					if search.MatchesPoint(p, args[1]) {
						fmt.Fprintf(out, "  - %s\n", p.Text)
					}
				}
			}
			return nil
		},
	}
}

func newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Rewrite a document in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := model.ExpandHome(args[0])
			doc, err := interchange.ReadFile(path, interchange.Lenient)
			if err != nil {
				return fmt.Errorf("%s: %s", args[0], interchange.Message(err))
			}

			if write, _ := cmd.Flags().GetBool("write"); write {
				return interchange.WriteFile(path, doc)
			}

			data, err := interchange.Serialize(doc)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolP("write", "w", false, "write the result back to the file")
	return cmd
}

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print the built-in starter document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc := model.Template()

			if out, _ := cmd.Flags().GetString("output"); out != "" {
				out = model.ExpandHome(out)
				if _, err := os.Stat(out); err == nil {
					if force, _ := cmd.Flags().GetBool("force"); !force {
						return fmt.Errorf("%s already exists (use --force to overwrite)", out)
					}
				}
				if err := interchange.WriteFile(out, doc); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
				return nil
			}

			data, err := interchange.Serialize(doc)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	cmd.Flags().Bool("force", false, "overwrite an existing output file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rulebook %s\n", Version)
		},
	}
}
