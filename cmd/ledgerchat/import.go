package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/fernwell/ledgerchat/internal/cli"
	"github.com/fernwell/ledgerchat/internal/common"
	"github.com/fernwell/ledgerchat/internal/config"
	"github.com/fernwell/ledgerchat/internal/statement"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement (CSV, XLSX, OFX/QFX)",
		Long: `Parse a bank statement and record every valid transaction.

Rows with a failed status or malformed fields are skipped and
reported; they never abort the rest of the import.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied path is the point
	if err != nil {
		return fmt.Errorf("failed to read statement: %w", err)
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx, settings)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	handler := cli.NewInterruptHandler(os.Stdout)
	ctx = handler.HandleInterrupts(ctx, true)

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing transactions...[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	pipeline := statement.NewPipeline(store, nil, nil)
	pipeline.Progress = func() { _ = bar.Add(1) }

	summary, err := pipeline.Import(ctx, settings.UserID, data, filepath.Base(path))
	_ = bar.Finish()
	if err != nil {
		if handler.WasInterrupted() {
			// The interrupt message already told the user where things
			// stand; rows saved so far are kept.
			return nil
		}
		return fmt.Errorf("%s", common.UserMessage(err, "import failed"))
	}

	fmt.Println(cli.RenderImportSummary(summary))
	return nil
}
