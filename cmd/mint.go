package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/originlabs/ipminter/internal/chain"
	"github.com/originlabs/ipminter/internal/config"
	"github.com/originlabs/ipminter/internal/minting"
	"github.com/originlabs/ipminter/internal/models"
	"github.com/originlabs/ipminter/internal/receipts"
	"github.com/originlabs/ipminter/internal/validate"
	"github.com/spf13/cobra"
)

func newMintCmd() *cobra.Command {
	var (
		filePath    string
		name        string
		description string
		wallet      string
		token       string
		receiptDir  string
	)

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a file as an IP NFT",
		Long: `Uploads a file to IPFS and mints it as an IP NFT through the Origin API,
using the license terms from the environment. A YAML receipt is written
for every successful mint.`,
		Example: `  ipminter mint --file ./sunrise.png --name "Mountain Sunrise" \
    --description "A photograph of a mountain at dawn" \
    --wallet 0x... --token $ORIGIN_JWT`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			file, err := readFile(filePath)
			if err != nil {
				return err
			}

			var origin minting.Minter
			if token != "" {
				origin = newOriginClient(cfg).ForToken(token)
			}

			svc := newMintingService(cfg)
			req := minting.Request{
				Origin:        origin,
				WalletAddress: wallet,
				File:          file,
				Name:          name,
				Description:   description,
			}

			// mint calls run to completion once issued
			ctx := context.WithoutCancel(cmd.Context())
			job, err := svc.Prepare(ctx, req)
			if err != nil {
				return describeMintError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s to %s\nMinting...\n", file.Name, job.Pin.URL)

			outcome, err := svc.Execute(ctx, job)
			if err != nil {
				return describeMintError(err)
			}

			explorerURL := chain.TxURL(cfg.ExplorerURL, outcome.TransactionHash)
			fmt.Fprintln(cmd.OutOrStdout(), "Minting successful! Your IP NFT is now live.")
			if outcome.TransactionHash != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Transaction: %s\n%s\n", outcome.TransactionHash, explorerURL)
				reportChainStatus(cmd, cfg, wallet, outcome.TransactionHash)
			}
			if outcome.TokenID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Token ID: %s\n", outcome.TokenID)
			}

			path, err := receipts.SaveToYAML(receiptDir, receipts.Receipt{
				Name:            job.Metadata.Name,
				Description:     job.Metadata.Description,
				File:            file.Name,
				Mimetype:        file.Type,
				SizeBytes:       file.Size,
				CID:             job.Pin.CID,
				Image:           job.Pin.URL,
				Wallet:          wallet,
				TransactionHash: outcome.TransactionHash,
				TokenID:         outcome.TokenID,
				ExplorerURL:     explorerURL,
				License: receipts.License{
					PriceWei:        job.Terms.Price.String(),
					DurationSeconds: job.Terms.DurationSeconds,
					RoyaltyBps:      job.Terms.RoyaltyBps,
					PaymentToken:    job.Terms.PaymentToken.Hex(),
				},
			})
			if err != nil {
				return err
			}
			absPath, _ := filepath.Abs(path)
			fmt.Fprintf(cmd.OutOrStdout(), "Receipt saved to: %s\n", absPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "File to mint (required)")
	cmd.Flags().StringVar(&name, "name", "", "IP name (required)")
	cmd.Flags().StringVar(&description, "description", "", "IP description (required)")
	cmd.Flags().StringVar(&wallet, "wallet", "", "Connected wallet address")
	cmd.Flags().StringVar(&token, "token", os.Getenv("ORIGIN_JWT"), "Origin authentication token")
	cmd.Flags().StringVar(&receiptDir, "receipt-dir", "receipts", "Directory for mint receipts")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readFile(path string) (*models.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &models.File{
		Name: filepath.Base(path),
		Type: contentType,
		Size: int64(len(data)),
		Data: data,
	}, nil
}

// describeMintError formats a mint failure as the user-facing message
func describeMintError(err error) error {
	var (
		validationErr *validate.ValidationError
		mintErr       *minting.MintError
	)
	switch {
	case errors.As(err, &validationErr):
		return fmt.Errorf("%s %s", validationErr.Title(), validationErr.Description())
	case errors.As(err, &mintErr):
		return fmt.Errorf("%s %s", mintErr.Title, mintErr.Description)
	default:
		return err
	}
}

// reportChainStatus prints the receipt status when an RPC endpoint is configured
func reportChainStatus(cmd *cobra.Command, cfg *config.Config, wallet, txHash string) {
	if cfg.RPCURL == "" {
		return
	}
	p, err := newDialer(cfg).NewProvider(cmd.Context(), wallet)
	if err != nil {
		slog.Warn("Unable to connect to RPC", "err", err)
		return
	}
	defer p.Close()

	provider := p.(*chain.Provider)
	if id := provider.ChainID(); id != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Chain ID: %s\n", id)
	}
	receipt, err := provider.Receipt(cmd.Context(), txHash)
	if err != nil {
		slog.Warn("Unable to fetch transaction receipt", "tx", txHash, "err", err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", receipt.Status)
}
