package handlers

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/originlabs/ipminter/internal/gallery"
)

// HandleGallery lists minted IP NFTs from the subgraph
func (h *Handler) HandleGallery(w http.ResponseWriter, r *http.Request) {
	if h.opts.Gallery == nil {
		h.writeError(w, "Gallery is not configured", http.StatusServiceUnavailable)
		return
	}

	owner := r.URL.Query().Get("owner")
	if owner != "" && !common.IsHexAddress(owner) {
		h.writeError(w, "Invalid owner address", http.StatusBadRequest)
		return
	}

	first := 0
	if v := r.URL.Query().Get("first"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			h.writeError(w, "first must be between 1 and 1000", http.StatusBadRequest)
			return
		}
		first = n
	}

	assets, err := h.opts.Gallery.ListAssets(r.Context(), owner, first)
	if err != nil {
		h.writeError(w, "Failed to load gallery: "+err.Error(), http.StatusBadGateway)
		return
	}
	if assets == nil {
		assets = []gallery.Asset{}
	}
	h.writeJSON(w, assets)
}
