package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fernwell/ledgerchat/internal/cli"
	"github.com/fernwell/ledgerchat/internal/model"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the expense categories and income sources",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(cli.FormatTitle("Expense categories"))
			for _, c := range model.ExpenseCategories {
				fmt.Println("  " + c)
			}
			fmt.Println()
			fmt.Println(cli.FormatTitle("Income sources"))
			for _, s := range model.IncomeSources {
				fmt.Println("  " + s)
			}
		},
	}
}
