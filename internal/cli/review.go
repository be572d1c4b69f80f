package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/tablemark/internal/review"
)

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Work with review findings",
	}
	cmd.AddCommand(newReviewFormatCmd())
	return cmd
}

func newReviewFormatCmd() *cobra.Command {
	var render bool
	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Format findings as the review Markdown table",
		Long: `Read findings as a JSON array or as one JSON object per line and print
the Markdown table the review service returns for them. With --render the
table is rendered to HTML instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			findings, err := review.ReadFindings(strings.NewReader(text))
			if err != nil {
				return err
			}
			out := strings.TrimRight(review.FormatMarkdown(findings), "\n")
			if render {
				out = app.Renderer.Render(out)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out+"\n")
			return err
		},
	}
	cmd.Flags().BoolVar(&render, "render", false, "print the rendered HTML fragment")
	return cmd
}
