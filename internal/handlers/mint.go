package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/originlabs/ipminter/internal/chain"
	"github.com/originlabs/ipminter/internal/minting"
	"github.com/originlabs/ipminter/internal/models"
	"github.com/originlabs/ipminter/internal/session"
	"github.com/originlabs/ipminter/internal/validate"
	"github.com/originlabs/ipminter/internal/wizard"
)

type mintRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleMint validates the form, reserves the minting step and uploads
// synchronously, then finishes the SDK call in the background. The file
// is read after the step is reserved so it cannot change under the upload.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if step := sess.Wizard.Snapshot().Step; step != wizard.StepMetadataEntry {
		h.writeErrorNotice(w, &wizard.TransitionError{From: step, Event: "begin mint"})
		return
	}
	// invalid input keeps the wizard on metadata entry
	if err := validate.Validate(req.Name, req.Description); err != nil {
		h.writeErrorNotice(w, err)
		return
	}

	if err := sess.Wizard.BeginMint(); err != nil {
		h.writeErrorNotice(w, err)
		return
	}
	sess.SetNotice(nil)
	state := sess.Wizard.Snapshot()

	// uploads are not cancelled when the client goes away
	ctx := context.WithoutCancel(r.Context())
	job, err := h.opts.Minting.Prepare(ctx, minting.Request{
		Origin:        sess.Origin(),
		WalletAddress: sess.WalletAddress(),
		File:          state.File,
		Name:          req.Name,
		Description:   req.Description,
	})
	if err != nil {
		if rewindErr := sess.Wizard.MintFailed(); rewindErr != nil {
			slog.Error("Failed to rewind wizard", "session_id", sess.ID, "err", rewindErr)
		}
		h.writeErrorNotice(w, err)
		return
	}

	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		h.finishMint(sess, job)
	}()

	h.writeJSONStatus(w, http.StatusAccepted, sess.View())
}

func (h *Handler) finishMint(sess *session.Session, job *minting.Job) {
	outcome, err := h.opts.Minting.Execute(context.Background(), job)
	if err != nil {
		if rewindErr := sess.Wizard.MintFailed(); rewindErr != nil {
			slog.Error("Failed to rewind wizard", "session_id", sess.ID, "err", rewindErr)
		}
		var mintErr *minting.MintError
		if errors.As(err, &mintErr) {
			sess.SetNotice(&models.Notice{Level: "error", Title: mintErr.Title, Description: mintErr.Description})
		} else {
			sess.SetNotice(&models.Notice{Level: "error", Title: "Minting failed. Please try again later.", Description: err.Error()})
		}
		return
	}

	if err := sess.Wizard.MintSucceeded(outcome); err != nil {
		slog.Error("Failed to record mint result", "session_id", sess.ID, "err", err)
		return
	}
	sess.RecordMint(&session.MintRecord{
		Outcome:  outcome,
		Metadata: job.Metadata,
		Pin:      job.Pin,
		MintedAt: time.Now(),
	})

	notice := &models.Notice{Level: "success", Title: "Minting successful! Your IP NFT is now live."}
	if outcome.TransactionHash != "" {
		short := outcome.TransactionHash
		if len(short) > 10 {
			short = short[:10]
		}
		notice.Description = "Transaction: " + short + "..."
	}
	sess.SetNotice(notice)
}

type receiptResponse struct {
	session.MintRecord
	ExplorerURL string         `json:"explorer_url,omitempty"`
	ShortHash   string         `json:"short_hash,omitempty"`
	ShareText   string         `json:"share_text"`
	ChainID     string         `json:"chain_id,omitempty"`
	Chain       *chain.Receipt `json:"chain,omitempty"`
}

// HandleReceipt describes the last successful mint, with on-chain status
// when an RPC endpoint is configured
func (h *Handler) HandleReceipt(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	rec := sess.LastMint()
	if rec == nil {
		h.writeError(w, "No mint recorded for this session", http.StatusNotFound)
		return
	}

	hash := rec.Outcome.TransactionHash
	resp := receiptResponse{
		MintRecord:  *rec,
		ExplorerURL: chain.TxURL(h.opts.ExplorerURL, hash),
		ShareText:   chain.ShareText(hash),
	}
	if hash != "" {
		resp.ShortHash = chain.Truncate(hash, 8, 6)
		if provider, ok := sess.Provider().(*chain.Provider); ok {
			if id := provider.ChainID(); id != nil {
				resp.ChainID = id.String()
			}
			receipt, err := provider.Receipt(r.Context(), hash)
			switch {
			case err == nil:
				resp.Chain = receipt
			case !errors.Is(err, chain.ErrNoRPC):
				slog.Warn("Failed to fetch transaction receipt", "tx", hash, "err", err)
			}
		}
	}
	h.writeJSON(w, resp)
}
