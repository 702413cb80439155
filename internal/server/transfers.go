package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/crossfade/internal/models"
	"github.com/desertthunder/crossfade/internal/session"
	"github.com/desertthunder/crossfade/internal/shared"
	"github.com/desertthunder/crossfade/internal/tasks"
)

// EngineProvider builds a transfer engine for a source/destination catalog
// pair. Returns an error when either catalog is unknown or unauthenticated.
type EngineProvider func(source, dest string) (*tasks.TransferEngine, error)

// TransferHandler serves the transfer review API. Resolution and commit run
// in background goroutines; clients poll session status.
type TransferHandler struct {
	store    session.Store
	provider EngineProvider
	logger   *log.Logger
	baseCtx  context.Context

	mu      sync.Mutex
	engines map[string]*tasks.TransferEngine
}

// NewTransferHandler creates a TransferHandler. ctx bounds the background
// resolution and commit work spawned by requests.
func NewTransferHandler(ctx context.Context, store session.Store, provider EngineProvider, logger *log.Logger) *TransferHandler {
	if ctx == nil {
		ctx = context.Background()
	}
	return &TransferHandler{
		store:    store,
		provider: provider,
		logger:   logger,
		baseCtx:  ctx,
		engines:  make(map[string]*tasks.TransferEngine),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *TransferHandler) Routes() []string {
	return []string{
		"POST /api/transfers",
		"GET /api/transfers",
		"GET /api/transfers/{id}",
		"POST /api/transfers/{id}/review",
		"POST /api/transfers/{id}/execute",
	}
}

// transferDetail is the full session payload returned for single-session reads.
type transferDetail struct {
	session.Summary
	DestName        string                    `json:"dest_name,omitempty"`
	Results         []models.ResolutionResult `json:"results,omitempty"`
	CreatedPlaylist *models.Playlist          `json:"created_playlist,omitempty"`
}

func (h *TransferHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch {
	case r.Method == http.MethodPost && id == "":
		h.create(w, r)
	case r.Method == http.MethodGet && id == "":
		h.list(w, r)
	case r.Method == http.MethodGet:
		h.get(w, r, id)
	case strings.HasSuffix(r.URL.Path, "/review"):
		h.review(w, r, id)
	case strings.HasSuffix(r.URL.Path, "/execute"):
		h.execute(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

type createTransferRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Playlist    string `json:"playlist"` // source playlist ID or name
	DestName    string `json:"dest_name,omitempty"`
}

func (h *TransferHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Source == "" || req.Destination == "" || req.Playlist == "" {
		writeError(w, http.StatusBadRequest, "source, destination, and playlist are required")
		return
	}

	engine, err := h.provider(req.Source, req.Destination)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := session.New(req.Source, req.Destination, req.DestName)
	if err := h.store.Put(sess); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store session")
		return
	}

	h.mu.Lock()
	h.engines[sess.ID] = engine
	h.mu.Unlock()

	go h.resolve(sess, engine, req.Playlist)

	writeJSON(w, http.StatusAccepted, sess.Summarize())
}

// dropEngine releases the engine for a session that reached a terminal state.
func (h *TransferHandler) dropEngine(id string) {
	h.mu.Lock()
	delete(h.engines, id)
	h.mu.Unlock()
}

// resolve runs the resolution phase and records the outcome on the session.
func (h *TransferHandler) resolve(sess *session.ReviewSession, engine *tasks.TransferEngine, playlist string) {
	export, results, err := engine.ResolvePlaylist(h.baseCtx, nil, playlist)
	if err != nil {
		h.logger.Error("transfer resolution failed", "session", sess.ID, "error", err)
		sess.Fail(err)
		h.dropEngine(sess.ID)
		return
	}
	if err := sess.SetResults(export, results); err != nil {
		h.logger.Error("failed to record results", "session", sess.ID, "error", err)
	}
}

func (h *TransferHandler) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"transfers": h.store.List()})
}

func (h *TransferHandler) get(w http.ResponseWriter, _ *http.Request, id string) {
	sess, err := h.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, transferDetail{
		Summary:         sess.Summarize(),
		DestName:        sess.DestName,
		Results:         sess.Results,
		CreatedPlaylist: sess.DestPlaylist,
	})
}

type reviewRequest struct {
	Decisions []session.Decision `json:"decisions"`
}

func (h *TransferHandler) review(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := h.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := sess.SubmitDecisions(req.Decisions); err != nil {
		if errors.Is(err, shared.ErrInvalidState) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sess.Summarize())
}

func (h *TransferHandler) execute(w http.ResponseWriter, _ *http.Request, id string) {
	sess, err := h.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	h.mu.Lock()
	engine, ok := h.engines[sess.ID]
	h.mu.Unlock()
	if !ok {
		writeError(w, http.StatusConflict, "session is no longer executable")
		return
	}

	if err := sess.BeginExecution(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	go h.commit(sess, engine)

	writeJSON(w, http.StatusAccepted, sess.Summarize())
}

// commit creates the destination playlist and adds the session's commit list.
// The engine is released afterwards; completed and failed sessions cannot be
// re-executed, so holding it would only leak as the store evicts sessions.
func (h *TransferHandler) commit(sess *session.ReviewSession, engine *tasks.TransferEngine) {
	defer h.dropEngine(sess.ID)

	ids := sess.CommitList()
	if len(ids) == 0 {
		sess.Fail(errors.New("no tracks to commit"))
		return
	}

	name := sess.DestName
	if name == "" && sess.Playlist != nil {
		name = sess.Playlist.Playlist.Name
	}
	description := "Transferred from " + sess.SourceService

	pl, err := engine.CommitTracks(h.baseCtx, nil, name, description, ids)
	if err != nil {
		h.logger.Error("transfer commit failed", "session", sess.ID, "error", err)
		sess.Fail(err)
		return
	}
	if err := sess.Complete(pl); err != nil {
		h.logger.Error("failed to complete session", "session", sess.ID, "error", err)
	}
}
