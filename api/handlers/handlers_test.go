package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/pairalign/internal/config"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	h, err := New(config.Default())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/api", h.Routes)
	return r
}

func post(t *testing.T, srv http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestLocalAlignHandler(t *testing.T) {
	srv := newServer(t)
	rec := post(t, srv, "/api/alignment/local", `{
		"database": "TTTTTTTTTTACGTACGTACGTTTTTTTTTTT",
		"query": "CCCCCCCCCCACGTCCCCACGTCCCCCCCCCC"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AlignmentResponse
	decode(t, rec, &resp)

	assert.True(t, resp.Found)
	assert.Equal(t, "local", resp.Type)
	assert.Equal(t, "ACGTACGTACGT", resp.Database)
	assert.Equal(t, "||||.|..||||", resp.Similarity)
	assert.Equal(t, "ACGTCCCCACGT", resp.Query)
	assert.Equal(t, 6.0, resp.Score)
	assert.Equal(t, "4=1X1=2X4=", resp.CIGAR)
	assert.Equal(t, 11, resp.StartDatabase)
	assert.Equal(t, 22, resp.EndQuery)
}

func TestLocalAlignHandlerNotFound(t *testing.T) {
	rec := post(t, newServer(t), "/api/alignment/local", `{"database": "TTTT", "query": "AAAA"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AlignmentResponse
	decode(t, rec, &resp)
	assert.False(t, resp.Found)
	assert.Empty(t, resp.CIGAR)
}

func TestGlobalAlignHandler(t *testing.T) {
	rec := post(t, newServer(t), "/api/alignment/global", `{"database": "AAACCCC", "query": "AAA"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AlignmentResponse
	decode(t, rec, &resp)
	assert.Equal(t, "global", resp.Type)
	assert.Equal(t, -5.0, resp.Score)
	assert.Equal(t, "AAA----", resp.Query)
	assert.Equal(t, 4, resp.Gaps)
	assert.Equal(t, 1, resp.GapOpenings)
}

func TestExtendHandler(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantScore float64
		wantStart int
	}{
		{
			name:      "right",
			body:      `{"database": "ACGTTTTT", "query": "ACGTAAAA", "direction": "right"}`,
			wantScore: 4, wantStart: 1,
		},
		{
			name:      "left",
			body:      `{"database": "TTTTACGT", "query": "AAAAACGT", "direction": "left"}`,
			wantScore: 4, wantStart: 5,
		},
		{
			name:      "left with homopolymer gaps",
			body:      `{"database": "ACGTAAAAACGT", "query": "ACGTAAAACGT", "direction": "left", "homopolymer": true}`,
			wantScore: 7.9, wantStart: 1,
		},
	}

	srv := newServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, srv, "/api/alignment/extend", tt.body)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp AlignmentResponse
			decode(t, rec, &resp)
			assert.Equal(t, "extension", resp.Type)
			assert.InDelta(t, tt.wantScore, resp.Score, 1e-6)
			assert.Equal(t, tt.wantStart, resp.StartDatabase)
		})
	}
}

func TestAlignmentScoreHandler(t *testing.T) {
	rec := post(t, newServer(t), "/api/alignment/score", `{"database": "AC-GT", "query": "ACTGT"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ScoreResponse
	decode(t, rec, &resp)
	assert.Equal(t, -1.0, resp.Score)
}

func TestBatchAlignHandler(t *testing.T) {
	rec := post(t, newServer(t), "/api/alignment/batch", `{
		"query": "ACGTACGT",
		"targets": [
			{"id": "t0", "sequence": "NNNN"},
			{"id": "t1", "sequence": "TTACGTACGTTT"},
			{"id": "t2", "sequence": "ACGTA"}
		],
		"top": 1
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BatchResponse
	decode(t, rec, &resp)

	require.Len(t, resp.Hits, 1)
	assert.Equal(t, "t1", resp.Hits[0].ID)
	assert.Equal(t, 1, resp.Hits[0].Index)
	assert.Equal(t, 8.0, resp.Hits[0].Score)
	assert.Equal(t, 3, resp.Summary.Count)
	assert.Equal(t, 2, resp.Summary.Aligned)
	assert.Equal(t, 8.0, resp.Summary.MaxScore)
}

func TestHomopolymersHandler(t *testing.T) {
	rec := post(t, newServer(t), "/api/sequence/homopolymers", `{"sequence": "AAACGGGGGT", "min_length": 3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HomopolymerResponse
	decode(t, rec, &resp)

	assert.Equal(t, 10, resp.Length)
	assert.Equal(t, []RunResponse{
		{Base: "A", Start: 1, Length: 3},
		{Base: "G", Start: 5, Length: 5},
	}, resp.Runs)
	assert.Len(t, resp.GapOpenAt, 10)
	assert.InDelta(t, 3.1, resp.Floor, 1e-9)
}

func TestSequenceHandlers(t *testing.T) {
	srv := newServer(t)

	rec := post(t, srv, "/api/sequence/validate", `{"sequence": "ACGTN"}`)
	var valid ValidateResponse
	decode(t, rec, &valid)
	assert.True(t, valid.Valid)
	assert.Equal(t, 5, valid.Length)

	rec = post(t, srv, "/api/sequence/validate", `{"sequence": "AC#T"}`)
	var invalid ValidateResponse
	decode(t, rec, &invalid)
	assert.False(t, invalid.Valid)
	assert.NotEmpty(t, invalid.Message)

	rec = post(t, srv, "/api/sequence/reverse-complement", `{"sequence": "AACG"}`)
	var rc ReverseComplementResponse
	decode(t, rec, &rc)
	assert.Equal(t, "CGTT", rc.ReverseComplement)
}

func TestSequenceLengthLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxLength = 8
	h, err := New(cfg)
	require.NoError(t, err)

	srv := chi.NewRouter()
	srv.Route("/api", h.Routes)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
	}{
		{"at the limit", "/api/alignment/local", `{"database": "ACGTACGT", "query": "ACGT"}`, http.StatusOK},
		{"long database", "/api/alignment/local", `{"database": "ACGTACGTA", "query": "ACGT"}`, http.StatusBadRequest},
		{"long query", "/api/alignment/global", `{"database": "ACGT", "query": "ACGTACGTA"}`, http.StatusBadRequest},
		{"long extension", "/api/alignment/extend", `{"database": "ACGTACGTA", "query": "ACGT"}`, http.StatusBadRequest},
		{"long target", "/api/alignment/batch", `{"query": "ACGT", "targets": [{"id": "x", "sequence": "ACGTACGTA"}]}`, http.StatusBadRequest},
		{"long profile", "/api/sequence/homopolymers", `{"sequence": "AAAAAAAAA"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, srv, tt.path, tt.body)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				var resp ErrorResponse
				decode(t, rec, &resp)
				assert.Contains(t, resp.Error, "exceeds the limit of 8")
			}
		})
	}
}

func TestHandlerErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
	}{
		{"bad json", "/api/alignment/local", `{`, http.StatusBadRequest},
		{"invalid database", "/api/alignment/local", `{"database": "AC#", "query": "ACG"}`, http.StatusBadRequest},
		{"empty query", "/api/alignment/global", `{"database": "ACG", "query": ""}`, http.StatusBadRequest},
		{"bad direction", "/api/alignment/extend", `{"database": "ACG", "query": "ACG", "direction": "up"}`, http.StatusBadRequest},
		{"negative band", "/api/alignment/extend", `{"database": "ACG", "query": "ACG", "band": -1}`, http.StatusUnprocessableEntity},
		{"unequal rows", "/api/alignment/score", `{"database": "ACG", "query": "AC"}`, http.StatusBadRequest},
		{"no targets", "/api/alignment/batch", `{"query": "ACG", "targets": []}`, http.StatusBadRequest},
		{"bad target", "/api/alignment/batch", `{"query": "ACG", "targets": [{"id": "x", "sequence": "A#"}]}`, http.StatusBadRequest},
		{"bad profile", "/api/sequence/homopolymers", `{"sequence": ""}`, http.StatusBadRequest},
	}

	srv := newServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, srv, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)

			var resp ErrorResponse
			decode(t, rec, &resp)
			assert.NotEmpty(t, resp.Error)
		})
	}
}
