package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/specdex/specdex/internal/document"
	"github.com/specdex/specdex/internal/evidence"
)

const defaultTopK = 10

// handleSearch runs semantic retrieval over the chunk index. Filters are
// query parameters; meeting_ids takes a comma-separated list and wins
// over meeting_id when both are present.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := q.Get("q")
	if strings.TrimSpace(query) == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}

	topK := defaultTopK
	if v := q.Get("top_k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "top_k must be a positive integer", http.StatusBadRequest)
			return
		}
		topK = n
	}

	filters := evidence.Filters{
		MeetingID:          q.Get("meeting_id"),
		ContributionNumber: q.Get("contribution_number"),
		DocumentID:         q.Get("document_id"),
		ClauseNumber:       q.Get("clause_number"),
	}
	if v := q.Get("meeting_ids"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filters.MeetingIDs = append(filters.MeetingIDs, id)
			}
		}
	}

	results, err := s.store.Search(r.Context(), query, topK, filters)
	if err != nil {
		s.log.Error("search failed", "error", err)
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []document.Evidence{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"query":   query,
		"results": results,
	})
}
