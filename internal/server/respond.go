package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/session"
)

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// classify maps package sentinels onto error codes.
func classify(err error) error {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.GetCode(err) != "":
		return err
	case stderrors.Is(err, session.ErrNotFound):
		return errors.Wrap(errors.ErrCodeSessionNotFound, err, "no such session")
	case stderrors.Is(err, session.ErrClosed):
		return errors.Wrap(errors.ErrCodeSessionNotFound, err, "session closed")
	case stderrors.As(err, &maxBytes):
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body too large")
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "request timed out")
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "internal error")
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = classify(err)
	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}
