package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/originlabs/ipminter/internal/config"
	"github.com/originlabs/ipminter/internal/receipts"
	"github.com/spf13/cobra"
)

func newReceiptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt <file>",
		Short: "Show a saved mint receipt",
		Long: `Prints a receipt written by "ipminter mint". When RPC_URL is set the
transaction status is looked up on chain.`,
		Example: `  ipminter receipt receipts/2025-06-01_12-00-00-0x1234abcd.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := receipts.Load(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Name:\t%s\n", r.Name)
			fmt.Fprintf(w, "Description:\t%s\n", r.Description)
			fmt.Fprintf(w, "File:\t%s (%s, %d bytes)\n", r.File, r.Mimetype, r.SizeBytes)
			fmt.Fprintf(w, "Image:\t%s\n", r.Image)
			fmt.Fprintf(w, "Wallet:\t%s\n", r.Wallet)
			if r.TransactionHash != "" {
				fmt.Fprintf(w, "Transaction:\t%s\n", r.TransactionHash)
			}
			if r.TokenID != "" {
				fmt.Fprintf(w, "Token ID:\t%s\n", r.TokenID)
			}
			if r.ExplorerURL != "" {
				fmt.Fprintf(w, "Explorer:\t%s\n", r.ExplorerURL)
			}
			fmt.Fprintf(w, "License:\t%s wei, %ds, %d bps\n", r.License.PriceWei, r.License.DurationSeconds, r.License.RoyaltyBps)
			fmt.Fprintf(w, "Minted at:\t%s\n", r.MintedAt)
			if err := w.Flush(); err != nil {
				return err
			}

			if r.TransactionHash == "" {
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			reportChainStatus(cmd, cfg, r.Wallet, r.TransactionHash)
			return nil
		},
	}

	return cmd
}
