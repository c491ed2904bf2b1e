// Package server exposes the posts collection over HTTP, mirroring
// the REST surface the console's client consumes: envelope-wrapped
// JSON, bearer-token auth, and page/limit/status/search list filters.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "postdeck/internal/errors"
	"postdeck/internal/log"
	"postdeck/internal/memory"
	"postdeck/pkg/types"

	"postdeck/internal/api"
)

// Server serves the collection API from an in-memory store.
type Server struct {
	store *memory.Store
	addr  string
}

// New creates a server for the given store.
func New(store *memory.Store, addr string) *Server {
	return &Server{store: store, addr: addr}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("DELETE /auth/logout", s.handleLogout)
	mux.HandleFunc("GET /users/profile", s.requireAuth(s.handleProfile))

	mux.HandleFunc("GET /posts", s.requireAuth(s.handleList))
	mux.HandleFunc("POST /posts", s.requireAuth(s.handleCreate))
	mux.HandleFunc("GET /posts/stats/summary", s.requireAuth(s.handleStatsSummary))
	mux.HandleFunc("GET /posts/{id}", s.requireAuth(s.handleGet))
	mux.HandleFunc("PUT /posts/{id}", s.requireAuth(s.handleUpdate))
	mux.HandleFunc("DELETE /posts/{id}", s.requireAuth(s.handleDelete))
	mux.HandleFunc("POST /posts/{id}/publish", s.requireAuth(s.handlePublish))
	mux.HandleFunc("GET /dashboard/stats", s.requireAuth(s.handleDashboard))

	return mux
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.LogWithFields(log.F("addr", s.addr)).Info("serving posts API")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || !s.store.ValidateToken(token) {
			writeEnvelope(w, http.StatusUnauthorized, false, "authentication required", nil)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "invalid login request", nil)
		return
	}

	token, user, err := s.store.IssueToken(req.Email, req.Password)
	if err != nil {
		// Failed logins keep a 200 status; the envelope carries the
		// outcome, matching the rest of the API.
		writeEnvelope(w, http.StatusOK, false, apperrors.UserMessage(err), nil)
		return
	}

	writeEnvelope(w, http.StatusOK, true, "login successful", api.LoginData{
		AccessToken: token,
		User:        *user,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "invalid register request", nil)
		return
	}

	if err := s.store.Register(r.Context(), req.Username, req.Email, req.Password, req.ConfirmPassword); err != nil {
		// Like login, rejected registrations keep a 200 status with
		// the outcome in the envelope.
		writeEnvelope(w, http.StatusOK, false, apperrors.UserMessage(err), nil)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "registration successful", nil)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	user, ok := s.store.UserForToken(token)
	if !ok {
		writeEnvelope(w, http.StatusUnauthorized, false, "authentication required", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "profile retrieved", user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token != "" {
		s.store.RevokeToken(token)
	}
	writeEnvelope(w, http.StatusOK, true, "logout successful", nil)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := api.ListParams{
		Search: query.Get("search"),
		Status: types.Status(query.Get("status")),
	}
	if v, err := strconv.Atoi(query.Get("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(query.Get("limit")); err == nil {
		params.PerPage = v
	}

	result, err := s.store.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "post list retrieved", result)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	post, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "post retrieved", post)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var cmd types.CreatePost
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "invalid post payload", nil)
		return
	}
	post, err := s.store.Create(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "post created", post)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	var cmd types.UpdatePost
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "invalid post payload", nil)
		return
	}
	post, err := s.store.Update(r.Context(), id, cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "post updated", post)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "post deleted", map[string]int{"deleted_id": id})
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	post, err := s.store.Publish(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "post published", post)
}

func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.StatsSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "stats retrieved", stats)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.DashboardStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, true, "stats retrieved", stats)
}

func postID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, false, "invalid post id", nil)
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch apperrors.KindOf(err) {
	case apperrors.NotFound:
		status = http.StatusNotFound
	case apperrors.Unauthorized:
		status = http.StatusUnauthorized
	}
	writeEnvelope(w, status, false, apperrors.UserMessage(err), nil)
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data interface{}) {
	env := api.Envelope{Success: success, Message: message}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			log.LogWithError(err).Error("response payload not serializable")
			status = http.StatusInternalServerError
			env = api.Envelope{Success: false, Message: "internal error"}
		} else {
			env.Data = raw
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.LogWithError(err).Error("response write failed")
	}
}
