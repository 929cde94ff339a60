package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/specdex/specdex/internal/document"
)

// listLimit reads the optional top_k query parameter; 0 means unlimited.
func listLimit(r *http.Request) int {
	v := r.URL.Query().Get("top_k")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// handleDocumentChunks lists a document's chunks in order. An optional
// top_k query parameter caps the list.
func (s *Server) handleDocumentChunks(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	chunks, err := s.store.GetByDocument(r.Context(), docID, listLimit(r))
	if err != nil {
		jsonError(w, "failed to list chunks: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if chunks == nil {
		chunks = []document.Evidence{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id": docID,
		"chunks": chunks,
	})
}

// handleContributionChunks lists every chunk filed under one contribution
// number, which may span several uploaded documents.
func (s *Server) handleContributionChunks(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	chunks, err := s.store.GetByContribution(r.Context(), number, listLimit(r))
	if err != nil {
		jsonError(w, "failed to list chunks: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if chunks == nil {
		chunks = []document.Evidence{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"contribution_number": number,
		"chunks":              chunks,
	})
}

// handleDeleteDocument removes a document's chunks from the index and
// releases its content hash so the same file can be ingested again.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	deleted := s.store.ChunkCount(docID)
	if err := s.store.Delete(r.Context(), docID); err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.orchestrator.Hashes().Forget(docID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":         docID,
		"chunks_deleted": deleted,
	})
}
