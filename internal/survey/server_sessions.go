package survey

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ayberkarici/fucom/internal/fucom"
)

type sessionView struct {
	ID       string         `json:"id"`
	Step     fucom.Step     `json:"step"`
	StepName string         `json:"stepName"`
	Complete bool           `json:"complete"`
	Response fucom.Response `json:"response"`
}

func viewOf(id string, sess *fucom.Session) sessionView {
	return sessionView{
		ID:       id,
		Step:     sess.Step(),
		StepName: sess.Step().String(),
		Complete: sess.Complete(),
		Response: sess.Response(),
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	id, step, resp := s.sessions.Create()
	writeJSON(w, http.StatusCreated, sessionView{ID: id, Step: step, StepName: step.String(), Response: resp})
}

// withSession applies op to the session named in the path and replies with
// the resulting session state.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, op func(*fucom.Session) error) {
	id := r.PathValue("id")
	var view sessionView
	err := s.sessions.With(id, func(sess *fucom.Session) error {
		if err := op(sess); err != nil {
			return err
		}
		view = viewOf(id, sess)
		return nil
	})
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(*fucom.Session) error { return nil })
}

func (s *Server) handleSessionDemographics(w http.ResponseWriter, r *http.Request) {
	var d fucom.Demographics
	if !decodeJSON(w, r, &d) {
		return
	}
	s.withSession(w, r, func(sess *fucom.Session) error { return sess.SetDemographics(d) })
}

func (s *Server) handleSessionOrdering(w http.ResponseWriter, r *http.Request) {
	g, err := fucom.ParseGroup(r.PathValue("group"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		IDs  []string `json:"ids"`
		From *int     `json:"from"`
		To   *int     `json:"to"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	switch {
	case len(req.IDs) > 0:
		s.withSession(w, r, func(sess *fucom.Session) error { return sess.Reorder(g, req.IDs) })
	case req.From != nil && req.To != nil:
		s.withSession(w, r, func(sess *fucom.Session) error { return sess.Move(g, *req.From, *req.To) })
	default:
		writeError(w, http.StatusBadRequest, "ids or from/to is required")
	}
}

func (s *Server) handleSessionStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Step fucom.Step `json:"step"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.withSession(w, r, func(sess *fucom.Session) error { return sess.GoTo(req.Step) })
}

func (s *Server) handleSessionScore(w http.ResponseWriter, r *http.Request) {
	g, err := fucom.ParseGroup(r.PathValue("group"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	var req struct {
		Value string `json:"value"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	s.withSession(w, r, func(sess *fucom.Session) error { return sess.Score(g, index, req.Value) })
}

// handleSessionSubmit holds the session for the duration of the upload so a
// session is submitted at most once.
func (s *Server) handleSessionSubmit(w http.ResponseWriter, r *http.Request) {
	var res Result
	err := s.sessions.With(r.PathValue("id"), func(sess *fucom.Session) error {
		resp, err := sess.Finalize()
		if err != nil {
			return err
		}
		res, err = s.submitter.Submit(r.Context(), &resp)
		if err != nil {
			return err
		}
		sess.MarkSubmitted()
		return nil
	})
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, submitPayload(res))
}

func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	var verr *fucom.ValidationError
	var serr *SubmitError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &serr):
		s.writeSubmitError(w, serr)
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, fucom.ErrIncomplete):
		writeError(w, http.StatusBadRequest, msgIncomplete)
	case errors.Is(err, fucom.ErrStepLocked), errors.Is(err, fucom.ErrWrongStep), errors.Is(err, fucom.ErrStale):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, fucom.ErrOutOfRange), errors.Is(err, fucom.ErrUnknownGroup), errors.Is(err, fucom.ErrInvalidStep):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("session")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("session: %v", err))
	}
}
