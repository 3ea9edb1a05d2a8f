package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTransactionsCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List transactions with their ledger entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closer, err := openService(flags)
			if err != nil {
				return err
			}
			defer closer()

			txs, err := svc.ListTransactions(cmd.Context(), flags.userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, tx := range txs {
				fmt.Fprintf(out, "%s  %s  %s\n", tx.Numbering, tx.Date.Format("2006-01-02"), tx.Description)
				for _, e := range tx.Entries {
					side, amount := "D", e.Debit
					if e.Debit.IsZero() {
						side, amount = "C", e.Credit
					}
					fmt.Fprintf(out, "    %s %12s  account %s\n", side, amount.StringFixed(2), e.AccountID)
				}
			}
			return nil
		},
	}

	return cmd
}
