package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fernwell/ledgerchat/internal/cli"
	"github.com/fernwell/ledgerchat/internal/config"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session with your ledger",
		Long: `Open a conversational session. Describe expenses and income in
plain language, ask for your balance or a spending breakdown, set
budgets and goals, or ask whether a purchase is affordable.

Type "exit" or press Ctrl-C to leave.`,
		RunE: runChat,
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, cleanup, err := initAssistant(ctx, settings)
	if err != nil {
		return err
	}
	defer cleanup()

	handler := cli.NewInterruptHandler(os.Stdout)
	ctx = handler.HandleInterrupts(ctx, false)

	fmt.Println(cli.FormatTitle("ledgerchat"))
	fmt.Println(cli.SubtleStyle.Render("Tell me about your money. Type \"exit\" to leave."))
	fmt.Println()

	reader := cli.NewChatReader(os.Stdin)
	for {
		fmt.Print(cli.FormatPrompt("you"))

		line, err := reader.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, cli.ErrInputCancelled) || errors.Is(err, io.EOF) {
				if !handler.WasInterrupted() {
					fmt.Println(cli.FormatInfo("Your ledger is saved. Bye!"))
				}
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			fmt.Println(cli.FormatInfo("Your ledger is saved. Bye!"))
			return nil
		}

		reply := a.Chat(ctx, settings.UserID, line)
		fmt.Println(cli.RenderReply(reply))
		fmt.Println()
	}
}
