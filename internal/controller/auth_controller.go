// internal/controller/auth_controller.go
package controller

import (
    "net/http"

    "github.com/unclebandit/ggph-smms/internal/middleware"
    "github.com/unclebandit/ggph-smms/internal/service"
)

type AuthController struct {
    AuthService *service.AuthService
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
    var body struct {
        Username string `json:"username"`
        Password string `json:"password"`
    }
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }

    sess, err := c.AuthService.Login(r.Context(), body.Username, body.Password)
    if err != nil {
        writeError(w, err)
        return
    }
    json200(w, sess)
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
    if token := middleware.BearerToken(r); token != "" {
        c.AuthService.Logout(token)
    }
    w.WriteHeader(http.StatusNoContent)
}

// Me returns the account behind the bearer token.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
    sess, ok := middleware.SessionFrom(r.Context())
    if !ok {
        http.Error(w, "unauthorized", http.StatusUnauthorized)
        return
    }
    json200(w, sess.User)
}
