package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aria-lang/pairalign/internal/config"
	"github.com/aria-lang/pairalign/pkg/pairalign"
)

// maxBatchTargets caps the number of targets of one batch request.
const maxBatchTargets = 1000

// Handlers serves the alignment endpoints with one configured matrix.
type Handlers struct {
	cfg    *config.Config
	matrix *pairalign.Matrix
}

// New creates handlers from cfg.
func New(cfg *config.Config) (*Handlers, error) {
	m, err := cfg.Substitution()
	if err != nil {
		return nil, err
	}
	return &Handlers{cfg: cfg, matrix: m}, nil
}

// AlignmentRequest represents an alignment request.
type AlignmentRequest struct {
	Database    string `json:"database"`
	Query       string `json:"query"`
	DatabaseID  string `json:"database_id,omitempty"`
	QueryID     string `json:"query_id,omitempty"`
	Homopolymer bool   `json:"homopolymer,omitempty"`
}

// AlignmentResponse represents the response for alignment.
type AlignmentResponse struct {
	Found         bool    `json:"found"`
	Type          string  `json:"type,omitempty"`
	Database      string  `json:"database,omitempty"`
	Similarity    string  `json:"similarity,omitempty"`
	Query         string  `json:"query,omitempty"`
	Score         float64 `json:"score"`
	Identity      float64 `json:"identity"`
	CIGAR         string  `json:"cigar,omitempty"`
	Matches       int     `json:"matches"`
	Mismatches    int     `json:"mismatches"`
	Gaps          int     `json:"gaps"`
	GapOpenings   int     `json:"gap_openings"`
	StartDatabase int     `json:"start_database,omitempty"`
	EndDatabase   int     `json:"end_database,omitempty"`
	StartQuery    int     `json:"start_query,omitempty"`
	EndQuery      int     `json:"end_query,omitempty"`
}

func newAlignmentResponse(md *pairalign.Metadata) AlignmentResponse {
	return AlignmentResponse{
		Found:         true,
		Type:          md.Type.String(),
		Database:      md.Alignment.Database().String(),
		Similarity:    md.Alignment.Similarity(),
		Query:         md.Alignment.Query().String(),
		Score:         md.Score,
		Identity:      md.Identity(),
		CIGAR:         md.CIGAR(),
		Matches:       md.Counts.Matches,
		Mismatches:    md.Counts.Mismatches,
		Gaps:          md.TotalGaps(),
		GapOpenings:   md.Counts.GapOpenings,
		StartDatabase: md.StartDatabase,
		EndDatabase:   md.EndDatabase,
		StartQuery:    md.StartQuery,
		EndQuery:      md.EndQuery,
	}
}

func (h *Handlers) sequences(req AlignmentRequest) (*pairalign.Sequence, *pairalign.Sequence, error) {
	db, err := h.newSequence("database", req.Database)
	if err != nil {
		return nil, nil, err
	}
	db.ID = req.DatabaseID

	query, err := h.newSequence("query", req.Query)
	if err != nil {
		return nil, nil, err
	}
	query.ID = req.QueryID

	return db, query, nil
}

// newSequence validates bases and enforces the configured length cap.
func (h *Handlers) newSequence(field, bases string) (*pairalign.Sequence, error) {
	if limit := h.cfg.Server.MaxLength; limit > 0 && len(bases) > limit {
		return nil, fieldErr(field, fmt.Errorf("sequence length %d exceeds the limit of %d", len(bases), limit))
	}

	s, err := pairalign.NewSequence(bases)
	if err != nil {
		return nil, fieldErr(field, err)
	}
	return s, nil
}

func fieldErr(field string, err error) error {
	return &fieldError{field: field, err: err}
}

type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string {
	return e.field + ": " + e.err.Error()
}

func (h *Handlers) run(w http.ResponseWriter, r *http.Request, p pairalign.Policy) {
	var req AlignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	db, query, err := h.sequences(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Homopolymer {
		p = p.WithHomopolymerGaps(h.cfg.Homopolymer.BoundaryPenalty)
	}

	md, err := pairalign.Run(db, query, h.matrix, p)
	if errors.Is(err, pairalign.ErrNoAlignment) {
		writeJSON(w, http.StatusOK, AlignmentResponse{Found: false})
		return
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, newAlignmentResponse(md))
}

// LocalAlignHandler handles local alignment requests.
func (h *Handlers) LocalAlignHandler(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, pairalign.LocalPolicy())
}

// GlobalAlignHandler handles global alignment requests.
func (h *Handlers) GlobalAlignHandler(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, pairalign.GlobalPolicy())
}

// ExtendRequest represents an anchored extension request.
type ExtendRequest struct {
	AlignmentRequest
	// Direction is "left" to anchor the last letters or "right" to anchor
	// the first.
	Direction string `json:"direction"`
	Band      *int   `json:"band,omitempty"`
}

// ExtendHandler handles anchored extension requests.
func (h *Handlers) ExtendHandler(w http.ResponseWriter, r *http.Request) {
	var req ExtendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var dir pairalign.Direction
	switch strings.ToLower(req.Direction) {
	case "left":
		dir = pairalign.Reverse
	case "right", "":
		dir = pairalign.Forward
	default:
		writeError(w, http.StatusBadRequest, "direction must be left or right")
		return
	}

	band := h.cfg.Extension.Band
	if req.Band != nil {
		band = *req.Band
	}

	db, query, err := h.sequences(req.AlignmentRequest)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	policy := pairalign.ExtensionPolicy(dir, band)
	if req.Homopolymer {
		policy = policy.WithHomopolymerGaps(h.cfg.Homopolymer.BoundaryPenalty)
	}

	md, err := pairalign.Run(db, query, h.matrix, policy)
	if errors.Is(err, pairalign.ErrNoAlignment) {
		writeJSON(w, http.StatusOK, AlignmentResponse{Found: false})
		return
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, newAlignmentResponse(md))
}

// ScoreRequest carries an externally produced gapped alignment.
type ScoreRequest struct {
	Database string `json:"database"`
	Query    string `json:"query"`
}

// ScoreResponse represents the response for alignment score.
type ScoreResponse struct {
	Score float64 `json:"score"`
}

// AlignmentScoreHandler scores a gapped alignment under the configured matrix.
func (h *Handlers) AlignmentScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seqType := pairalign.DNA
	if h.cfg.Matrix.Kind == config.BLOSUM62 {
		seqType = pairalign.Protein
	}

	score, err := pairalign.ScoreRows(req.Database, req.Query, h.matrix, seqType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ScoreResponse{Score: score})
}

// BatchTarget is one database sequence of a batch request.
type BatchTarget struct {
	ID       string `json:"id"`
	Sequence string `json:"sequence"`
}

// BatchRequest aligns one query against many targets.
type BatchRequest struct {
	Query   string        `json:"query"`
	Targets []BatchTarget `json:"targets"`
	// Top limits the number of ranked hits returned. Zero returns all.
	Top         int  `json:"top,omitempty"`
	Homopolymer bool `json:"homopolymer,omitempty"`
}

// HitResponse is one ranked hit.
type HitResponse struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	AlignmentResponse
}

// SummaryResponse summarizes a batch.
type SummaryResponse struct {
	Count        int     `json:"count"`
	Aligned      int     `json:"aligned"`
	MeanScore    float64 `json:"mean_score"`
	MedianScore  float64 `json:"median_score"`
	MaxScore     float64 `json:"max_score"`
	MeanIdentity float64 `json:"mean_identity"`
}

// BatchResponse represents the response for a batch alignment.
type BatchResponse struct {
	Hits    []HitResponse   `json:"hits"`
	Summary SummaryResponse `json:"summary"`
}

// BatchAlignHandler aligns a query against every target and returns the
// ranked hits.
func (h *Handlers) BatchAlignHandler(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Targets) == 0 {
		writeError(w, http.StatusBadRequest, "targets cannot be empty")
		return
	}
	if len(req.Targets) > maxBatchTargets {
		writeError(w, http.StatusRequestEntityTooLarge, "too many targets")
		return
	}

	query, err := h.newSequence("query", req.Query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	targets := make([]*pairalign.Sequence, len(req.Targets))
	for i, t := range req.Targets {
		s, err := h.newSequence("target "+t.ID, t.Sequence)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.ID = t.ID
		targets[i] = s
	}

	policy := pairalign.LocalPolicy()
	if req.Homopolymer {
		policy = policy.WithHomopolymerGaps(h.cfg.Homopolymer.BoundaryPenalty)
	}

	hits, err := pairalign.AlignAgainstMultiple(r.Context(), query, targets, pairalign.BatchOptions{
		Matrix:  h.matrix,
		Policy:  policy,
		Workers: h.cfg.Batch.Workers,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	summary, err := pairalign.Summarize(hits)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ranked := pairalign.Rank(hits)
	if req.Top > 0 && len(ranked) > req.Top {
		ranked = ranked[:req.Top]
	}

	resp := BatchResponse{
		Hits: make([]HitResponse, len(ranked)),
		Summary: SummaryResponse{
			Count:        summary.Count,
			Aligned:      summary.Aligned,
			MeanScore:    summary.MeanScore,
			MedianScore:  summary.MedianScore,
			MaxScore:     summary.MaxScore,
			MeanIdentity: summary.MeanIdentity,
		},
	}
	for i, hit := range ranked {
		resp.Hits[i] = HitResponse{
			Index:             hit.Index,
			ID:                hit.Target.ID,
			AlignmentResponse: newAlignmentResponse(hit.Metadata),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
