package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/tablemark/pkg/api"
)

func newResultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result [file]",
		Short: "Render a review response as an HTML fragment",
		Long: `Read a review response JSON object, as returned by the review service,
and print the input summary followed by the rendered result tables.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var res api.ReviewResult
			if err := json.Unmarshal([]byte(text), &res); err != nil {
				return fmt.Errorf("decode review result: %w", err)
			}
			if !res.Success {
				app.Log.Printf("result: response is not marked successful")
			}
			_, err = io.WriteString(cmd.OutOrStdout(), app.Renderer.Result(res)+"\n")
			return err
		},
	}
	return cmd
}
