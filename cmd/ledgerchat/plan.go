package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fernwell/ledgerchat/internal/assistant"
	"github.com/fernwell/ledgerchat/internal/cli"
	"github.com/fernwell/ledgerchat/internal/config"
)

// planContext bundles what one plan subcommand needs to run.
type planContext struct {
	ctx       context.Context
	assistant *assistant.Assistant
	userID    string
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Affordability checks and savings projections",
	}
	cmd.AddCommand(affordCmd())
	cmd.AddCommand(savingsCmd())
	return cmd
}

func affordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "afford <amount>",
		Short: "Check whether a purchase is affordable right now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			return runPlan(cmd, func(ctx planContext) assistant.Reply {
				return ctx.assistant.Affordability(ctx.ctx, ctx.userID, amount, "")
			})
		},
	}
}

func savingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "savings [target]",
		Short: "Project how long a savings target will take",
		Long: `Project months-to-target at several contribution rates. With no
argument the target of your first stored goal is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target *decimal.Decimal
			if len(args) == 1 {
				amount, err := decimal.NewFromString(args[0])
				if err != nil {
					return fmt.Errorf("invalid target %q: %w", args[0], err)
				}
				target = &amount
			}
			return runPlan(cmd, func(ctx planContext) assistant.Reply {
				return ctx.assistant.SavingsPlan(ctx.ctx, ctx.userID, target)
			})
		},
	}
}

func runPlan(cmd *cobra.Command, fn func(planContext) assistant.Reply) error {
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

	reply := fn(planContext{ctx: cmd.Context(), assistant: a, userID: settings.UserID})
	fmt.Println(cli.RenderReply(reply))
	return nil
}
