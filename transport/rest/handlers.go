package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/usecase"
)

const sessionCookie = "session_id"

type gameManager interface {
	GetOrCreateSession(ctx context.Context, id string) (*usecase.Snapshot, error)
	Snapshot(ctx context.Context, id string) (*usecase.Snapshot, error)
	MakeTurn(ctx context.Context, id string, cell int) (*usecase.Snapshot, error)
	Reset(ctx context.Context, id string) (*usecase.Snapshot, error)
	AcceptConsent(ctx context.Context, id string) (*usecase.Snapshot, error)
}

type turnRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger  *slog.Logger
	manager gameManager
}

// NewRouter wires the game routes and returns an http.Handler.
func NewRouter(logger *slog.Logger, manager gameManager) http.Handler {
	h := &handlers{
		logger:  logger.With("component", "rest"),
		manager: manager,
	}

	r := chi.NewRouter()
	r.Get("/ping", h.ping)
	r.Post("/sessions", h.createSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.getSession)
		r.Post("/moves", h.makeTurn)
		r.Post("/reset", h.reset)
		r.Post("/consent", h.acceptConsent)
	})

	return r
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// createSession resumes the session named by the cookie (200), or starts a new one (201).
func (that *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	var id string
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		id = cookie.Value
	}

	snapshot, err := that.manager.GetOrCreateSession(r.Context(), id)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		snapshot, err = that.manager.GetOrCreateSession(r.Context(), "")
	}

	if err != nil {
		that.writeError(w, "createSession", err)
		return
	}

	status := http.StatusCreated
	if id != "" && snapshot.SessionID == id {
		status = http.StatusOK
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    snapshot.SessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	that.writeJSON(w, status, snapshot)
}

func (that *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.manager.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "getSession", err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) makeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"cell\": <0-8>}"})
		return
	}

	snapshot, err := that.manager.MakeTurn(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	if err != nil {
		that.writeError(w, "makeTurn", err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) reset(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.manager.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "reset", err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) acceptConsent(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.manager.AcceptConsent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "acceptConsent", err)
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *handlers) writeError(w http.ResponseWriter, method string, err error) {
	if errors.Is(err, apperror.ErrSessionNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
		return
	}

	that.logger.Error("request failed", "method", method, "error", err)
	that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
