package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"pyball/internal/constants"
	"pyball/internal/search"
	"pyball/internal/service"
	"pyball/internal/table"
	"strconv"

	"github.com/rs/zerolog"
)

type StatsServer struct {
	searchSvc  *service.SearchService
	tableSvc   *service.TableService
	compareSvc *service.CompareService
}

func NewStatsServer(searchSvc *service.SearchService, tableSvc *service.TableService, compareSvc *service.CompareService) *StatsServer {
	return &StatsServer{searchSvc: searchSvc, tableSvc: tableSvc, compareSvc: compareSvc}
}

func (s *StatsServer) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.Health)
	mux.HandleFunc("GET /api/players/suggest", s.SuggestPlayers)
	mux.HandleFunc("GET /api/players/search", s.SearchPlayer)
	mux.HandleFunc("GET /api/players/recent", s.RecentSearches)
	mux.HandleFunc("GET /api/compare", s.ComparePlayers)
	mux.HandleFunc("GET /api/positions/{position}/table", s.PositionTable)
	return mux
}

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Player string `json:"player,omitempty"`
}

func (s *StatsServer) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *StatsServer) SuggestPlayers(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", constants.DefaultSuggestionLimit)
	if err != nil || limit < 0 || limit > constants.MaxSuggestionLimit {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid limit", Kind: "invalid_limit"})
		return
	}

	suggestions := s.searchSvc.Suggest(r.Context(), r.URL.Query().Get("q"), limit)
	writeJSON(w, r, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *StatsServer) SearchPlayer(w http.ResponseWriter, r *http.Request) {
	result, err := s.searchSvc.Submit(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *StatsServer) RecentSearches(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", constants.RecentSearchLimit)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid limit", Kind: "invalid_limit"})
		return
	}

	entries, err := s.searchSvc.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"searches": entries})
}

func (s *StatsServer) ComparePlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	comparison, err := s.compareSvc.Compare(r.Context(), q.Get("player1"), q.Get("player2"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, comparison)
}

// PositionTable treats every query parameter named after a column as that
// column's filter value.
func (s *StatsServer) PositionTable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	refresh, _ := strconv.ParseBool(q.Get("refresh"))

	filters := make(map[string]string)
	for _, col := range table.Columns {
		if v := q.Get(col.Accessor); v != "" {
			filters[col.Accessor] = v
		}
	}

	result, err := s.tableSvc.GetTable(r.Context(), r.PathValue("position"), refresh, filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Error: err.Error()}

	var playerErr *service.PlayerError
	if errors.As(err, &playerErr) {
		resp.Player = playerErr.Player
	}

	var validationErr *search.ValidationError
	switch {
	case errors.As(err, &validationErr):
		resp.Error = validationErr.Message
		resp.Kind = validationErr.KindName()
		writeJSON(w, r, http.StatusBadRequest, resp)
	case errors.Is(err, service.ErrInvalidPosition):
		resp.Kind = "invalid_position"
		writeJSON(w, r, http.StatusBadRequest, resp)
	case errors.Is(err, service.ErrInvalidFilter):
		resp.Kind = "invalid_filter"
		writeJSON(w, r, http.StatusBadRequest, resp)
	case errors.Is(err, service.ErrUpstream):
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("stats API request failed")
		resp.Kind = "upstream"
		writeJSON(w, r, http.StatusBadGateway, resp)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		resp.Error = http.StatusText(http.StatusInternalServerError)
		resp.Kind = "internal"
		writeJSON(w, r, http.StatusInternalServerError, resp)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to write response")
	}
}
