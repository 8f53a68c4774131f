package cmd

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/originlabs/ipminter/internal/chain"
	"github.com/originlabs/ipminter/internal/config"
	"github.com/originlabs/ipminter/internal/gallery"
	"github.com/spf13/cobra"
)

func newGalleryCmd() *cobra.Command {
	var (
		owner  string
		first  int
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "List minted IP NFTs from the subgraph",
		Example: `  # Show the latest 20 minted IPs
  ipminter gallery

  # Export a wallet's IPs to parquet
  ipminter gallery --owner 0x... --first 500 --output ./ips.parquet

  # Print a previous export
  ipminter gallery --input ./ips.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			assets, err := loadAssets(cmd, input, owner, first)
			if err != nil {
				return err
			}

			if output != "" {
				if err := gallery.Export(output, assets); err != nil {
					return err
				}
				absPath, _ := filepath.Abs(output)
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d assets to: %s\n", len(assets), absPath)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TOKEN ID\tOWNER\tTRANSACTION\tURI")
			for _, a := range assets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.TokenID, chain.Truncate(a.Owner, 6, 4), chain.Truncate(a.TxHash, 10, 8), a.TokenURI)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Only list IPs owned by this address")
	cmd.Flags().IntVar(&first, "first", gallery.DefaultLimit, "Number of IPs to fetch")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Read a .parquet or .jsonl export instead of querying the subgraph")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Export to a .parquet or .jsonl file instead of printing")

	return cmd
}

// loadAssets reads an earlier export when input is set, otherwise queries the subgraph
func loadAssets(cmd *cobra.Command, input, owner string, first int) ([]gallery.Asset, error) {
	if input != "" {
		assets, err := gallery.Load(input)
		if err != nil {
			return nil, err
		}
		if owner != "" {
			assets = slices.DeleteFunc(assets, func(a gallery.Asset) bool {
				return !strings.EqualFold(a.Owner, owner)
			})
		}
		return assets, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return gallery.NewClient(cfg.SubgraphURL).ListAssets(cmd.Context(), owner, first)
}
