package cmd

import (
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/originlabs/ipminter/internal/chain"
	"github.com/originlabs/ipminter/internal/config"
	"github.com/originlabs/ipminter/internal/ipfs"
	"github.com/originlabs/ipminter/internal/license"
	"github.com/originlabs/ipminter/internal/logging"
	"github.com/originlabs/ipminter/internal/minting"
	"github.com/originlabs/ipminter/internal/origin"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var (
		logLevel string
		logFile  string
		logSink  io.Closer
	)

	cmd := &cobra.Command{
		Use:   "ipminter",
		Short: "Mint files as IP NFTs on Origin",
		Long: `ipminter uploads a file to IPFS, attaches license terms and mints it
as an IP NFT through the Origin minting API.

It runs the minting wizard as an HTTP API, mints headlessly from the
command line, shows saved mint receipts and exports the gallery of
minted IP from the subgraph.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			closer, err := logging.Setup(logLevel, logFile)
			if err != nil {
				return err
			}
			logSink = closer
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logSink != nil {
				if err := logSink.Close(); err != nil {
					slog.Error("Unable to close log file", "err", err)
				}
			}
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file, rotated")

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMintCmd())
	cmd.AddCommand(newGalleryCmd())
	cmd.AddCommand(newReceiptCmd())

	return cmd
}

// newMintingService builds the mint orchestrator from configuration
func newMintingService(cfg *config.Config) *minting.Service {
	uploader := ipfs.NewPinataUploader(cfg.PinataJWT, cfg.PinataAPIURL, cfg.GatewayURL)
	terms := license.Build(
		cfg.License.PriceWei,
		cfg.License.DurationSeconds,
		cfg.License.RoyaltyPercent,
		cfg.License.PaymentToken,
	)
	return minting.NewService(uploader, terms)
}

func newOriginClient(cfg *config.Config) *origin.Client {
	return origin.NewClient(cfg.OriginAPIURL, cfg.OriginClientID, cfg.OriginAPIKey)
}

func newDialer(cfg *config.Config) *chain.Dialer {
	return chain.NewDialer(cfg.RPCURL)
}
