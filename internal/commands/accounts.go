package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAccountsCommand(flags *rootFlags) *cobra.Command {
	var movableOnly bool

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the chart of accounts with rolled-up balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closer, err := openService(flags)
			if err != nil {
				return err
			}
			defer closer()

			balances, err := svc.ListAccounts(cmd.Context(), flags.userID, movableOnly)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, b := range balances {
				indent := strings.Repeat("  ", b.Level-1)
				marker := " "
				if b.Synthetic {
					marker = "*"
				}
				fmt.Fprintf(out, "%s%-10s %s%-36s D %12s  C %12s\n",
					indent, b.Code, marker, b.Name,
					b.TotalDebit.StringFixed(2), b.TotalCredit.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&movableOnly, "movable", false, "only accounts that can receive movements")

	return cmd
}
