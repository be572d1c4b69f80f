package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mithrel/tablemark/internal/table"
)

func newRulesCmd() *cobra.Command {
	var formatName string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the effective emphasis rules",
		Long: `Show the emphasis rules in the order they are tried. The first rule whose
keyword occurs in a body cell decides that cell's emphasis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return writeRules(cmd.OutOrStdout(), app.Renderer.Rules(), formatName)
		},
	}
	cmd.Flags().StringVar(&formatName, "format", "plain", "output format: plain|json|yaml")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"plain", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	cmd.AddCommand(newRulesCheckCmd())
	return cmd
}

func writeRules(w io.Writer, rules table.Rules, formatName string) error {
	switch strings.ToLower(formatName) {
	case "plain", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "KEYWORD\tEMPHASIS")
		for _, r := range rules {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", r.Keyword, r.Emphasis)
		}
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(rules)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rules); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("invalid --format: %s", formatName)
	}
}

func newRulesCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <text...>",
		Short: "Print the emphasis a cell with this text would get",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			text := strings.Join(args, " ")
			em := app.Renderer.Rules().Classify(text)
			out := em.String()
			if class := app.Renderer.Classes().For(em); class != "" {
				out += "\t" + class
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
}
