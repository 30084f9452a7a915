// internal/controller/respond.go
package controller

import (
    "encoding/json"
    "errors"
    "net/http"

    appErrors "github.com/unclebandit/ggph-smms/internal/errors"
    "github.com/unclebandit/ggph-smms/internal/middleware"
    "github.com/unclebandit/ggph-smms/internal/observability"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(v)
}

func json200(w http.ResponseWriter, v any) {
    w.Header().Set("Content-Type", "application/json")
    json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto status codes. Unknown errors are
// reported to Sentry and surface as 500.
func writeError(w http.ResponseWriter, err error) {
    var (
        ve       *appErrors.ValidationError
        conflict *appErrors.ErrConflict
        fe       *appErrors.FetchError
    )
    switch {
    case errors.As(err, &ve):
        http.Error(w, err.Error(), http.StatusBadRequest)
    case appErrors.IsNotFound(err):
        http.Error(w, err.Error(), http.StatusNotFound)
    case errors.As(err, &conflict):
        http.Error(w, err.Error(), http.StatusConflict)
    case errors.Is(err, appErrors.ErrUnauthorized):
        http.Error(w, "unauthorized", http.StatusUnauthorized)
    case errors.Is(err, appErrors.ErrForbidden):
        http.Error(w, "forbidden", http.StatusForbidden)
    case errors.As(err, &fe):
        http.Error(w, err.Error(), http.StatusServiceUnavailable)
    default:
        observability.CaptureErr(err)
        http.Error(w, "internal error", http.StatusInternalServerError)
    }
}

// writeFetchFailure answers 503 but still ships the empty-state body.
func writeFetchFailure(w http.ResponseWriter, err error, body any) {
    var fe *appErrors.FetchError
    if errors.As(err, &fe) {
        w.Header().Set("X-Fetch-Error", fe.Source)
        writeJSON(w, http.StatusServiceUnavailable, body)
        return
    }
    writeError(w, err)
}

func decode(r *http.Request, v any) error {
    if err := json.NewDecoder(r.Body).Decode(v); err != nil {
        return &appErrors.ValidationError{Field: "body", Reason: "invalid body"}
    }
    return nil
}

// actor names the signed-in user for change events.
func actor(r *http.Request) string {
    if sess, ok := middleware.SessionFrom(r.Context()); ok {
        return sess.User.Username
    }
    return ""
}
