package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/tinysplit"
	"github.com/aretw0/tinysplit/internal/config"
	"github.com/aretw0/tinysplit/internal/presentation/tui"
	"github.com/aretw0/tinysplit/pkg/domain"
	"github.com/aretw0/tinysplit/pkg/runner"
	"github.com/spf13/cobra"
)

var splitCmd = &cobra.Command{
	Use:   "split [file]",
	Short: "Print every line with the scopes that enclose it",
	Long: `Reads the file (or stdin) and prints one line per input line:
its depth, its text and the breadcrumb of open scopes.

With --session the run resumes the stored session of that name and saves
it again afterwards, so a document can be fed in several runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, closeIn, err := openInput(args)
		if err != nil {
			return err
		}
		defer closeIn()

		handler, err := splitHandler(cmd)
		if err != nil {
			return err
		}

		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID == "" {
			r := runner.NewRunner(
				runner.WithHandler(handler),
				runner.WithLogger(logger),
				runner.WithSessionOptions(sessionOptions()...),
			)
			return r.Run(cmd.Context(), in)
		}
		return splitSession(cmd, sessionID, in, handler)
	},
}

// splitSession restores sessionID, runs in through it and saves it back.
// Nothing is saved when the run fails.
func splitSession(cmd *cobra.Command, sessionID string, in io.Reader, handler runner.OutputHandler) error {
	ctx := cmd.Context()
	b, err := openStore(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	mgr := b.newManager()
	return mgr.WithLock(ctx, sessionID, func(ctx context.Context) error {
		snap, err := b.store.Load(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			snap = domain.NewSnapshot()
		} else if err != nil {
			return err
		}

		s, err := tinysplit.Restore(snap, sessionOptions()...)
		if err != nil {
			return fmt.Errorf("failed to restore session %s: %w", sessionID, err)
		}

		r := runner.NewRunner(
			runner.WithSession(s),
			runner.WithHandler(handler),
			runner.WithLogger(logger),
		)
		if err := r.Run(ctx, in); err != nil {
			return err
		}

		logger.Debug("Saving session", "session_id", sessionID, "lines", s.Lines(), "depth", s.Depth())
		return b.store.Save(ctx, sessionID, s.Snapshot())
	})
}

func splitHandler(cmd *cobra.Command) (runner.OutputHandler, error) {
	format := cfg.Output.Format
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		format = config.FormatJSON
	}
	if format == config.FormatJSON {
		return runner.NewJSONHandler(os.Stdout), nil
	}

	mode := cfg.Output.Color
	if cmd.Flags().Changed("color") {
		mode, _ = cmd.Flags().GetString("color")
	}
	profile, err := tui.ColorProfile(mode, os.Stdout)
	if err != nil {
		return nil, err
	}
	return runner.NewTextHandler(os.Stdout,
		runner.WithTextHandlerRenderer(tui.NewColorRenderer(profile)),
	), nil
}

func sessionOptions() []tinysplit.Option {
	return append(cfg.SessionOptions(), tinysplit.WithLogger(logger))
}

// openInput opens the file named by args, or stdin.
func openInput(args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().Bool("json", false, "Print one JSON record per line")
	splitCmd.Flags().String("color", tui.ColorAuto, "Color output: auto, always or never")
	splitCmd.Flags().String("session", "", "Resume and persist the named session")
}
