package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/mithrel/tablemark/internal/db"
	"github.com/mithrel/tablemark/internal/present"
	"github.com/mithrel/tablemark/internal/present/format"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse archived renders",
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryDeleteCmd())
	return cmd
}

func openArchive(cmd *cobra.Command) (db.Archive, error) {
	app := getApp(cmd)
	if !app.Archiving() {
		return nil, errors.New("archive is disabled; set archive.enabled = true")
	}
	return app.Archive(cmd.Context())
}

func newHistoryListCmd() *cobra.Command {
	var limit int
	var outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived renders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := present.ModePlain
			if outputMode != "" {
				m, ok := present.ParseMode(outputMode)
				if !ok || m.Binary() || m.Interactive() {
					return fmt.Errorf("invalid --output: %s", outputMode)
				}
				mode = m
			}
			archive, err := openArchive(cmd)
			if err != nil {
				return err
			}
			renders, err := archive.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			opts := present.Options{Mode: mode, Headers: !noHeaders}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderRenders(cmd.Context(), w, renders, opts)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", db.DefaultListLimit, "maximum renders to list")
	cmd.Flags().StringVarP(&outputMode, "output", "o", "", "output mode: plain|json|ndjson")
	cmd.Flags().BoolVar(&noHeaders, "no-headers", false, "omit the header row")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"plain", "json", "ndjson"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var markdown bool
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print an archived render",
		Long:  "Print the stored HTML of a render. The id may be any unique prefix of at least four characters.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if markdown && asJSON {
				return fmt.Errorf("choose either --markdown or --json")
			}
			archive, err := openArchive(cmd)
			if err != nil {
				return err
			}
			rec, err := archive.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return format.WriteJSONRender(out, rec, true)
			case markdown:
				_, err = io.WriteString(out, rec.Markdown+"\n")
			default:
				_, err = io.WriteString(out, rec.HTML+"\n")
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print the source Markdown instead of HTML")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full record as JSON")
	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id...>",
		Short: "Delete archived renders",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := openArchive(cmd)
			if err != nil {
				return err
			}
			if len(args) > 1 {
				if err := confirmDelete(cmd.InOrStdin(), fmt.Sprintf("Delete %d renders?", len(args)), "This will permanently delete the selected renders.", yes); err != nil {
					return err
				}
			}
			for _, id := range args {
				if err := archive.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation prompt for bulk deletes")
	return cmd
}

func confirmDelete(in io.Reader, title, desc string, yes bool) error {
	if yes {
		return nil
	}
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return fmt.Errorf("confirmation required; rerun with --yes")
	}
	confirm := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(desc).
				Value(&confirm),
		),
	).WithInput(f)
	if err := form.Run(); err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("aborted")
	}
	return nil
}
