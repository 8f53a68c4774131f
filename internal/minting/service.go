package minting

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/originlabs/ipminter/internal/ipfs"
	"github.com/originlabs/ipminter/internal/license"
	"github.com/originlabs/ipminter/internal/metrics"
	"github.com/originlabs/ipminter/internal/mintresult"
	"github.com/originlabs/ipminter/internal/models"
	"github.com/originlabs/ipminter/internal/validate"
)

// MaxFileSizeMB is the largest file accepted for minting
const MaxFileSizeMB = 10

// Minter is the minting SDK boundary. Its response is untrusted.
type Minter interface {
	MintFile(ctx context.Context, file *models.File, metadata models.UploadMetadata, terms license.Terms) (json.RawMessage, error)
}

// Uploader pins files to IPFS
type Uploader interface {
	Upload(ctx context.Context, file *models.File) (*ipfs.Pin, error)
}

// Request is a single mint attempt
type Request struct {
	Origin        Minter
	WalletAddress string
	File          *models.File
	Name          string
	Description   string
}

// Job is a prepared mint: validated, uploaded, ready for the SDK call
type Job struct {
	File     *models.File
	Metadata models.UploadMetadata
	Terms    license.Terms
	Pin      *ipfs.Pin
	Minter   Minter
}

// Service orchestrates minting
type Service struct {
	uploader Uploader
	terms    license.Terms
}

// NewService creates a mint orchestrator that attaches terms to every mint
func NewService(uploader Uploader, terms license.Terms) *Service {
	return &Service{uploader: uploader, terms: terms}
}

// Prepare validates the request, checks preconditions and uploads the file.
// Validation and precondition failures happen before any network call.
func (s *Service) Prepare(ctx context.Context, req Request) (*Job, error) {
	if err := validate.Validate(req.Name, req.Description); err != nil {
		metrics.MintAttempts.WithLabelValues("validation").Inc()
		return nil, err
	}
	if err := checkPreconditions(req); err != nil {
		metrics.MintAttempts.WithLabelValues("precondition").Inc()
		return nil, err
	}
	if err := s.terms.Validate(); err != nil {
		metrics.MintAttempts.WithLabelValues("precondition").Inc()
		return nil, &PreconditionError{Reason: err.Error()}
	}

	slog.Info("Uploading file to IPFS", "file", req.File.Name, "size", req.File.Size)
	pin, err := s.uploader.Upload(ctx, req.File)
	if err != nil {
		metrics.PinUploads.WithLabelValues("error").Inc()
		metrics.MintAttempts.WithLabelValues("upload").Inc()
		return nil, err
	}
	metrics.PinUploads.WithLabelValues("success").Inc()

	return &Job{
		File: req.File,
		Metadata: models.UploadMetadata{
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			Mimetype:    req.File.Type,
			Image:       pin.URL,
		},
		Terms:  s.terms,
		Pin:    pin,
		Minter: req.Origin,
	}, nil
}

// Execute makes the single SDK call for a prepared job.
// A response without a transaction hash is still a success.
func (s *Service) Execute(ctx context.Context, job *Job) (mintresult.Outcome, error) {
	start := time.Now()
	raw, err := job.Minter.MintFile(ctx, job.File, job.Metadata, job.Terms)
	metrics.MintDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		mintErr := Classify(err)
		metrics.MintErrors.WithLabelValues(mintErr.Title).Inc()
		metrics.MintAttempts.WithLabelValues("failed").Inc()
		slog.Error("Minting failed", "file", job.File.Name, "title", mintErr.Title, "err", err)
		return mintresult.Outcome{}, mintErr
	}

	outcome := mintresult.Normalize(raw)
	if outcome.TransactionHash == "" {
		metrics.MissingTxHash.Inc()
		slog.Warn("Mint succeeded but no transaction hash found in response", "response", truncateResponse(raw))
	}
	metrics.MintAttempts.WithLabelValues("success").Inc()
	slog.Info("Minting successful", "file", job.File.Name, "tx", outcome.TransactionHash, "token_id", outcome.TokenID)
	return outcome, nil
}

// Mint runs Prepare then Execute. onMinting, when set, is called after
// preparation succeeds and before the SDK call is issued.
func (s *Service) Mint(ctx context.Context, req Request, onMinting func()) (mintresult.Outcome, error) {
	job, err := s.Prepare(ctx, req)
	if err != nil {
		return mintresult.Outcome{}, err
	}
	if onMinting != nil {
		onMinting()
	}
	return s.Execute(ctx, job)
}

// checkPreconditions short-circuits on the first failure
func checkPreconditions(req Request) error {
	if req.Origin == nil {
		return &PreconditionError{Reason: "Please connect your wallet and authenticate first."}
	}
	if strings.TrimSpace(req.WalletAddress) == "" {
		return &PreconditionError{Reason: "Wallet address not found. Please reconnect your wallet."}
	}
	if req.File == nil {
		return &PreconditionError{Reason: "Please select a file to upload."}
	}
	if req.File.SizeMB() > MaxFileSizeMB {
		return &PreconditionError{Reason: fmt.Sprintf("File size must be less than %dMB.", MaxFileSizeMB)}
	}
	return nil
}

func truncateResponse(raw []byte) string {
	const limit = 512
	if len(raw) > limit {
		return string(raw[:limit]) + "..."
	}
	return string(raw)
}
