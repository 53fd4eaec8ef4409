// Package handlers provides HTTP handlers for the pairalign API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aria-lang/pairalign/pkg/pairalign"
)

// SequenceRequest represents a request with a sequence.
type SequenceRequest struct {
	Sequence string `json:"sequence"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// ValidateResponse represents validation result.
type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	Length  int    `json:"length,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidateHandler handles sequence validation requests.
func ValidateHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seq, err := pairalign.NewSequence(req.Sequence)
	if err != nil {
		writeJSON(w, http.StatusOK, ValidateResponse{
			Valid:   false,
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:  true,
		Length: seq.Len(),
	})
}

// ReverseComplementResponse represents the response for reverse complement.
type ReverseComplementResponse struct {
	ReverseComplement string `json:"reverse_complement"`
}

// ReverseComplementHandler handles reverse complement requests.
func ReverseComplementHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seq, err := pairalign.NewSequence(req.Sequence)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rc, err := seq.ReverseComplement()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ReverseComplementResponse{
		ReverseComplement: rc.String(),
	})
}

// RunResponse is one homopolymer run.
type RunResponse struct {
	Base   string `json:"base"`
	Start  int    `json:"start"`
	Length int    `json:"length"`
}

// HomopolymerResponse represents the homopolymer profile of a sequence.
type HomopolymerResponse struct {
	Length    int           `json:"length"`
	Runs      []RunResponse `json:"runs"`
	GapOpenAt []float64     `json:"gap_open_at"`
	Floor     float64       `json:"floor"`
}

// HomopolymersHandler reports the homopolymer runs of a sequence and the gap
// open penalty the 454 gap model charges at each position. Runs shorter than
// min_length are left out of the run list.
func (h *Handlers) HomopolymersHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SequenceRequest
		MinLength int `json:"min_length"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seq, err := h.newSequence("sequence", req.Sequence)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := pairalign.Profile(seq, h.matrix)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	runs := make([]RunResponse, 0, len(profile.Runs))
	for _, run := range profile.Runs {
		if run.Length < req.MinLength {
			continue
		}
		runs = append(runs, RunResponse{
			Base:   string(run.Base),
			Start:  run.Start + 1,
			Length: run.Length,
		})
	}

	writeJSON(w, http.StatusOK, HomopolymerResponse{
		Length:    seq.Len(),
		Runs:      runs,
		GapOpenAt: profile.GapOpenAt,
		Floor:     profile.Floor,
	})
}
