package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/tinysplit/internal/presentation/outline"
	"github.com/aretw0/tinysplit/internal/presentation/tui"
	"github.com/aretw0/tinysplit/pkg/runner"
	"github.com/spf13/cobra"
)

var outlineCmd = &cobra.Command{
	Use:   "outline [file]",
	Short: "Print the scopes of a document as a nested markdown list",
	Long: `Prints every opened scope as a markdown list item indented by its depth.
On a terminal the markdown is rendered; use --raw to print it as is.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, closeIn, err := openInput(args)
		if err != nil {
			return err
		}
		defer closeIn()

		records, _, err := runner.Collect(cmd.Context(), in,
			runner.WithLogger(logger),
			runner.WithSessionOptions(sessionOptions()...),
		)
		if err != nil {
			return err
		}

		var opts []outline.Option
		if withText, _ := cmd.Flags().GetBool("text"); withText {
			opts = append(opts, outline.WithText())
		}
		if len(args) > 0 && args[0] != "-" {
			opts = append(opts, outline.WithTitle(filepath.Base(args[0])))
		}
		md := outline.Markdown(records, opts...)

		raw, _ := cmd.Flags().GetBool("raw")
		if raw || !tui.IsTerminal(os.Stdout) {
			fmt.Print(md)
			return nil
		}

		render, err := tui.NewRenderer(tui.Width(os.Stdout))
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		out, err := render(md)
		if err != nil {
			return fmt.Errorf("failed to render outline: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(outlineCmd)
	outlineCmd.Flags().Bool("raw", false, "Print markdown without rendering it")
	outlineCmd.Flags().Bool("text", false, "Include content lines under their scope")
}
