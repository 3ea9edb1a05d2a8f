package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/contabot-dev/contabot/internal/model"
)

func newPostCommand(flags *rootFlags) *cobra.Command {
	var (
		amount        string
		txType        string
		category      string
		categoryCode  string
		paymentMethod string
		paymentCode   string
		date          string
		description   string
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a transaction from a parsed intent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closer, err := openService(flags)
			if err != nil {
				return err
			}
			defer closer()

			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount: %w", err)
			}

			intent := model.Intent{
				Amount:        amt,
				Type:          model.IntentType(txType),
				Category:      model.AccountRef{Name: category, Code: categoryCode},
				PaymentMethod: model.AccountRef{Name: paymentMethod, Code: paymentCode},
				Date:          date,
				Description:   description,
			}

			tx, err := svc.PostTransaction(cmd.Context(), flags.userID, intent)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "posted %s (%s)\n", tx.Numbering, tx.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "transaction amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&txType, "type", "expense", "expense or income")
	cmd.Flags().StringVar(&category, "category", "", "category account name (required)")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVar(&categoryCode, "category-code", "", "suggested category account code")
	cmd.Flags().StringVar(&paymentMethod, "payment-method", "", "payment method account name")
	cmd.Flags().StringVar(&paymentCode, "payment-code", "", "suggested payment method account code")
	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "transaction date (ISO)")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")

	return cmd
}
