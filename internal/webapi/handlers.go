package webapi

import (
	"errors"
	"net/http"

	"github.com/fpang/archigen-transform/internal/filehandler"
	"github.com/fpang/archigen-transform/internal/intake"
	"github.com/fpang/archigen-transform/internal/presenter"
	"github.com/fpang/archigen-transform/internal/prompt"
	"github.com/fpang/archigen-transform/internal/session"
	"github.com/fpang/archigen-transform/internal/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// stateResponse is the session state plus server-level flags.
type stateResponse struct {
	session.State
	Configured bool   `json:"configured"`
	Notice     string `json:"notice,omitempty"`
}

func (s *Server) state(sess *session.Session, notice string) stateResponse {
	return stateResponse{State: sess.State(), Configured: s.opts.Configured, Notice: notice}
}

// session resolves {id}, writing a 404 when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.opts.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

func (s *Server) slot(w http.ResponseWriter, r *http.Request, sess *session.Session) (*intake.Slot, bool) {
	slot, err := sess.Slot(chi.URLParam(r, "slot"))
	if err != nil {
		httpError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return slot, true
}

// GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"configured":   s.opts.Configured,
		"textModel":    s.opts.TextModel,
		"imageModel":   s.opts.ImageModel,
		"nativePicker": s.opts.NativePicker,
		"sessions":     s.opts.Store.Len(),
	})
}

// GET /api/catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"presets":    prompt.Presets,
		"quickEdits": prompt.QuickEdits,
	})
}

// POST /api/sessions
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.opts.Store.Create()
	respondJSON(w, http.StatusCreated, s.state(sess, ""))
}

// GET /api/sessions/{id}
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, s.state(sess, ""))
}

// POST /api/sessions/{id}/images/{slot}
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	slot, ok := s.slot(w, r, sess)
	if !ok {
		return
	}

	if s.opts.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+uploadOverhead)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpError(w, http.StatusRequestEntityTooLarge, intake.ErrTooLarge.Error())
			return
		}
		httpError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	_, err = slot.Submit(r.Context(), intake.File{
		Name:   header.Filename,
		Type:   header.Header.Get("Content-Type"),
		Size:   header.Size,
		Reader: file,
	})
	if err != nil {
		s.intakeError(w, err)
		return
	}
	sess.Orchestrator.ClearValidation()
	respondJSON(w, http.StatusOK, s.state(sess, ""))
}

func (s *Server) intakeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, intake.ErrNotImage):
		httpError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, intake.ErrTooLarge):
		httpError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, intake.ErrCleared):
		httpError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("Image intake failed")
		httpError(w, http.StatusBadRequest, err.Error())
	}
}

// DELETE /api/sessions/{id}/images/{slot}
func (s *Server) handleClearImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	slot, ok := s.slot(w, r, sess)
	if !ok {
		return
	}
	slot.Clear()
	sess.Orchestrator.ClearValidation()
	respondJSON(w, http.StatusOK, s.state(sess, ""))
}

// POST /api/sessions/{id}/images/{slot}/pick
// Opens a native OS file dialog on the machine running the server.
func (s *Server) handlePick(w http.ResponseWriter, r *http.Request) {
	if !s.opts.NativePicker {
		httpError(w, http.StatusNotFound, "native picker is disabled")
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	slot, ok := s.slot(w, r, sess)
	if !ok {
		return
	}

	title := "Select source image"
	if chi.URLParam(r, "slot") == session.SlotReference {
		title = "Select style reference image"
	}
	path, err := s.opts.Picker(title)
	if err != nil {
		if errors.Is(err, filehandler.ErrPickCanceled) {
			respondJSON(w, http.StatusOK, s.state(sess, ""))
			return
		}
		log.Error().Err(err).Msg("File picker failed")
		httpError(w, http.StatusInternalServerError, "file picker failed")
		return
	}

	f, closer, err := filehandler.OpenImage(path)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer closer.Close()

	if _, err := slot.Submit(r.Context(), f); err != nil {
		s.intakeError(w, err)
		return
	}
	log.Info().Str("path", path).Msg("Image picked via native dialog")
	sess.Orchestrator.ClearValidation()
	respondJSON(w, http.StatusOK, s.state(sess, ""))
}

type textRequest struct {
	Text string `json:"text"`
}

type shortcutRequest struct {
	ID string `json:"id"`
}

// PUT /api/sessions/{id}/prompt
func (s *Server) handleSetPrompt(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req textRequest
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.Composer.SetText(req.Text)
	sess.Orchestrator.ClearValidation()
	respondJSON(w, http.StatusOK, s.state(sess, ""))
}

// POST /api/sessions/{id}/prompt/preset
func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	s.applyShortcut(w, r, func(sess *session.Session, id string) (string, error) {
		return sess.Composer.ApplyPreset(id)
	})
}

// POST /api/sessions/{id}/prompt/quick-edit
func (s *Server) handleQuickEdit(w http.ResponseWriter, r *http.Request) {
	s.applyShortcut(w, r, func(sess *session.Session, id string) (string, error) {
		return sess.Composer.ApplyQuickEdit(id)
	})
}

func (s *Server) applyShortcut(w http.ResponseWriter, r *http.Request, apply func(*session.Session, string) (string, error)) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req shortcutRequest
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := apply(sess, req.ID); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.Orchestrator.ClearValidation()
	respondJSON(w, http.StatusOK, s.state(sess, ""))
}

// POST /api/sessions/{id}/prompt/enhance
func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Enhance(r.Context())
	respondJSON(w, http.StatusOK, s.state(sess, ""))
}

// POST /api/sessions/{id}/generate
// Validation failures are 400 with the inline message; a failed transform is
// still 200 because the error is part of the workflow state.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	err := sess.Generate(r.Context())
	switch {
	case err == nil:
	case workflow.IsValidationError(err):
		respondJSON(w, http.StatusBadRequest, s.state(sess, err.Error()))
		return
	case errors.Is(err, workflow.ErrSuperseded):
		log.Debug().Str("session_id", sess.ID).Msg("Generate response superseded")
	default:
		log.Debug().Err(err).Str("session_id", sess.ID).Msg("Generate ended in error state")
	}
	respondJSON(w, http.StatusOK, s.state(sess, ""))
}

// GET /api/sessions/{id}/result
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	original := ""
	if src := sess.Source.Current(); src != nil {
		original = src.PreviewURI
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := presenter.ResultPanel(sess.Orchestrator.Snapshot(), original).Render(r.Context(), w); err != nil {
		log.Error().Err(err).Msg("Failed to render result panel")
	}
}
