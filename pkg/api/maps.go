package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/integrations/openai"
	"github.com/matzehuels/topicmap/pkg/store"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// =============================================================================
// Saved maps
// =============================================================================

type createMapRequest struct {
	Title  string      `json:"title"`
	Source string      `json:"source"`
	Tree   *topic.Tree `json:"tree"`
}

type updateMapRequest struct {
	Title *string     `json:"title"`
	Tree  *topic.Tree `json:"tree"`
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no map store configured"))
		return false
	}
	return true
}

// ownedMap loads the map named in the URL. Maps owned by other users are
// reported as missing so their ids are not disclosed.
func (s *Server) ownedMap(r *http.Request) (*store.Map, error) {
	id := chi.URLParam(r, "id")
	m, err := s.store.GetMap(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if m.UserID != userID(r) {
		return nil, errors.Wrap(errors.ErrCodeMapNotFound, store.ErrNotFound, "map %q not found", id)
	}
	return m, nil
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	maps, err := s.store.ListMaps(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, maps)
}

func (s *Server) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var req createMapRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Tree == nil {
		writeError(w, errors.New(errors.ErrCodeInvalidTree, "tree is required"))
		return
	}

	m := &store.Map{UserID: userID(r), Title: req.Title, Source: req.Source, Tree: *req.Tree}
	if err := s.store.CreateMap(r.Context(), m); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/maps/"+m.ID)
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	m, err := s.ownedMap(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleUpdateMap(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var req updateMapRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Title == nil && req.Tree == nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "nothing to update: set title and/or tree"))
		return
	}
	m, err := s.ownedMap(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	if req.Title != nil {
		if err := s.store.RenameMap(ctx, m.ID, *req.Title); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Tree != nil {
		if err := s.store.UpdateMap(ctx, m.ID, *req.Tree); err != nil {
			writeError(w, err)
			return
		}
	}

	updated, err := s.store.GetMap(ctx, m.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	m, err := s.ownedMap(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.DeleteMap(r.Context(), m.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMapLayout lays out a saved map. With ?format= it renders the layout
// instead of returning it as JSON.
func (s *Server) handleMapLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	opts, err := s.pipelineOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := s.ownedMap(r)
	if err != nil {
		writeError(w, err)
		return
	}

	layout, err := s.runner.ComputeLayout(r.Context(), m.Tree, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(opts.Formats) == 0 {
		writeJSON(w, http.StatusOK, layout)
		return
	}
	s.writeArtifact(w, r, layout, opts)
}

// =============================================================================
// Saved topics
// =============================================================================

type topicRequest struct {
	Topic string `json:"topic"`
}

// topicName reads the topic from ?topic= or, failing that, a JSON body.
func topicName(w http.ResponseWriter, r *http.Request) (string, error) {
	if name := strings.TrimSpace(r.URL.Query().Get("topic")); name != "" {
		return name, nil
	}
	var req topicRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return "", err
	}
	return req.Topic, nil
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	topics, err := s.store.Topics(r.Context(), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"topics": topics})
}

func (s *Server) handleSaveTopic(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	name, err := topicName(w, r)
	if err == nil {
		err = s.store.SaveTopic(r.Context(), userID(r), name)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	s.handleListTopics(w, r)
}

func (s *Server) handleRemoveTopic(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	name, err := topicName(w, r)
	if err == nil {
		err = s.store.RemoveTopic(r.Context(), userID(r), name)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	s.handleListTopics(w, r)
}

// =============================================================================
// Recommendations
// =============================================================================

type recommendRequest struct {
	Interests  []string            `json:"interests"`
	Engagement []openai.Engagement `json:"engagement"`
	Refresh    bool                `json:"refresh"`
}

type recommendResponse struct {
	Recommendations []openai.Recommendation `json:"recommendations"`
}

// handleRecommend suggests topics. When the request names no interests the
// caller's saved topics are used.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if s.recommender == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no recommender configured"))
		return
	}
	var req recommendRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	if len(req.Interests) == 0 && s.store != nil {
		saved, err := s.store.Topics(r.Context(), userID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		req.Interests = saved
	}

	recs, err := s.recommender.Recommend(r.Context(), req.Interests, req.Engagement, req.Refresh)
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []openai.Recommendation{}
	}
	writeJSON(w, http.StatusOK, recommendResponse{Recommendations: recs})
}
