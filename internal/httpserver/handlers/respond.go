package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/drivemark/internal/auth"
	"github.com/MrSnakeDoc/drivemark/internal/docstore"
	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

const maxBodySize = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to its status. Not-found responses have no body;
// server errors hide their cause from the client.
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status := apperr.HTTPStatus(err)
	switch {
	case status == http.StatusNotFound:
		w.WriteHeader(status)
		return
	case status >= http.StatusInternalServerError:
		log.Error("request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err))
		writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	resp := errorResponse{Error: err.Error()}
	var e *apperr.Error
	if apperr.As(err, &e) {
		resp.Error = e.Message
		resp.Code = string(e.Code)
		resp.Details = e.Details
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	return nil
}

// decodeValid decodes the body and validates it.
func decodeValid(d deps.Deps, r *http.Request, dst any) error {
	if err := decodeJSON(r, dst); err != nil {
		return err
	}
	return d.Validator.Validate(dst)
}

// account binds the request's session to a document store account.
// Call save once the store operation is done so a freshly resolved
// container id is remembered by the session.
type account struct {
	*docstore.Account
	sess *auth.Session
}

func openAccount(d deps.Deps, r *http.Request) (*account, error) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		return nil, apperr.Unauthorized("not authenticated")
	}
	cred, err := d.Auth.Credential(r.Context(), sess)
	if err != nil {
		return nil, err
	}
	return &account{
		Account: &docstore.Account{Credential: cred, ContainerID: sess.ContainerID},
		sess:    sess,
	}, nil
}

func (a *account) save(d deps.Deps, r *http.Request) {
	if a.ContainerID == "" || a.ContainerID == a.sess.ContainerID {
		return
	}
	a.sess.ContainerID = a.ContainerID
	if err := d.Auth.Persist(r.Context(), a.sess); err != nil {
		d.Logger.Warn("remember container id failed", logger.Error(err))
	}
}

// withAccount runs fn against the caller's document and writes either
// the value it returns with status, or the error.
func withAccount(d deps.Deps, status int, fn func(r *http.Request, acct *docstore.Account) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acct, err := openAccount(d, r)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		v, err := fn(r, acct.Account)
		acct.save(d, r)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		if status == http.StatusNoContent {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, v)
	}
}
