package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/metabolica/metanet/internal/config"
	"github.com/metabolica/metanet/internal/domain"
	"github.com/metabolica/metanet/internal/network"
	"github.com/metabolica/metanet/internal/reaction"
	"github.com/metabolica/metanet/internal/search"
)

// SearchHandler answers path-search requests against a node space and
// reaction index loaded once at startup.
type SearchHandler struct {
	logger  *slog.Logger
	space   *network.Space
	index   *reaction.Index
	cfg     config.SearchConfig
	timeout time.Duration
}

// NewSearchHandler constructs a SearchHandler.
func NewSearchHandler(logger *slog.Logger, space *network.Space, index *reaction.Index, cfg config.SearchConfig, timeout time.Duration) *SearchHandler {
	return &SearchHandler{
		logger:  logger,
		space:   space,
		index:   index,
		cfg:     cfg,
		timeout: timeout,
	}
}

type searchRequest struct {
	StartMass float64 `json:"startMass"`
	EndMass   float64 `json:"endMass"`
	MaxDepth  int     `json:"maxDepth"`
}

type searchResponse struct {
	Paths   []domain.ResultPath `json:"paths"`
	Count   int                 `json:"count"`
	Aborted bool                `json:"aborted"`
}

func (h *SearchHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.StartMass <= 0 || req.EndMass <= 0 {
		writeError(w, http.StatusBadRequest, "startMass and endMass must be positive")
		return
	}

	cfg := h.cfg
	if req.MaxDepth > 0 {
		cfg.MaxDepth = req.MaxDepth
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	engine := search.New(h.space, h.index, h.logger, search.Config{
		MaxDepth:     cfg.MaxDepth,
		DuplicatePPM: cfg.DuplicatePPM,
		GoalPPM:      cfg.GoalPPM,
		Workers:      cfg.Workers,
		MaxStates:    cfg.MaxStates,
	})

	paths, err := engine.Run(ctx, req.StartMass, req.EndMass)
	switch {
	case errors.Is(err, search.ErrStartNotFound):
		writeError(w, http.StatusNotFound, "start mass has no node in the search space")
		return
	case errors.Is(err, search.ErrAborted):
		// Partial results are still worth returning; the flag tells the
		// caller the search did not run to completion.
		respondJSON(w, http.StatusOK, searchResponse{Paths: paths, Count: len(paths), Aborted: true})
		return
	case err != nil:
		h.logger.Error("search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	if paths == nil {
		paths = []domain.ResultPath{}
	}
	respondJSON(w, http.StatusOK, searchResponse{Paths: paths, Count: len(paths)})
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
