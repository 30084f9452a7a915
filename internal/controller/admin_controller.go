// internal/controller/admin_controller.go
package controller

import (
    "net/http"

    "github.com/go-chi/chi/v5"

    "github.com/unclebandit/ggph-smms/internal/model"
    "github.com/unclebandit/ggph-smms/internal/service"
)

// AdminController exposes reference data and user accounts. Reads are open to
// every signed-in user; the router restricts writes to admins.
type AdminController struct {
    AdminService *service.AdminService
}

// Routes mounts the reference data and user endpoints. write guards every
// mutation and the user list.
func (c *AdminController) Routes(r chi.Router, write func(http.Handler) http.Handler) {
    r.Get("/branches", c.ListBranches)
    r.Get("/categories", c.ListCategories)
    r.Get("/event-types", c.ListEventTypes)

    r.Group(func(r chi.Router) {
        r.Use(write)
        r.Post("/branches", c.CreateBranch)
        r.Put("/branches/{id}", c.UpdateBranch)
        r.Delete("/branches/{id}", c.DeleteBranch)

        r.Post("/categories", c.CreateCategory)
        r.Put("/categories/{id}", c.UpdateCategory)
        r.Delete("/categories/{id}", c.DeleteCategory)

        r.Post("/event-types", c.CreateEventType)
        r.Put("/event-types/{id}", c.UpdateEventType)
        r.Delete("/event-types/{id}", c.DeleteEventType)

        r.Get("/users", c.ListUsers)
        r.Post("/users", c.CreateUser)
        r.Put("/users/{id}", c.UpdateUser)
        r.Delete("/users/{id}", c.DeleteUser)
    })
}

func (c *AdminController) ListBranches(w http.ResponseWriter, r *http.Request) {
    v, err := c.AdminService.ListBranches(r.Context())
    respondList(w, v, err)
}

func (c *AdminController) CreateBranch(w http.ResponseWriter, r *http.Request) {
    var body model.Branch
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }
    v, err := c.AdminService.CreateBranch(r.Context(), body)
    respondCreated(w, v, err)
}

func (c *AdminController) UpdateBranch(w http.ResponseWriter, r *http.Request) {
    var body model.Branch
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }
    v, err := c.AdminService.UpdateBranch(r.Context(), chi.URLParam(r, "id"), body)
    respondOne(w, v, err)
}

func (c *AdminController) DeleteBranch(w http.ResponseWriter, r *http.Request) {
    respondDeleted(w, c.AdminService.DeleteBranch(r.Context(), chi.URLParam(r, "id")))
}

func (c *AdminController) ListCategories(w http.ResponseWriter, r *http.Request) {
    v, err := c.AdminService.ListCategories(r.Context())
    respondList(w, v, err)
}

func (c *AdminController) CreateCategory(w http.ResponseWriter, r *http.Request) {
    var body model.Category
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }
    v, err := c.AdminService.CreateCategory(r.Context(), body)
    respondCreated(w, v, err)
}

func (c *AdminController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
    var body model.Category
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }
    v, err := c.AdminService.UpdateCategory(r.Context(), chi.URLParam(r, "id"), body)
    respondOne(w, v, err)
}

func (c *AdminController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
    respondDeleted(w, c.AdminService.DeleteCategory(r.Context(), chi.URLParam(r, "id")))
}

func (c *AdminController) ListEventTypes(w http.ResponseWriter, r *http.Request) {
    v, err := c.AdminService.ListEventTypes(r.Context())
    respondList(w, v, err)
}

func (c *AdminController) CreateEventType(w http.ResponseWriter, r *http.Request) {
    var body model.EventType
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }
    v, err := c.AdminService.CreateEventType(r.Context(), body)
    respondCreated(w, v, err)
}

func (c *AdminController) UpdateEventType(w http.ResponseWriter, r *http.Request) {
    var body model.EventType
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }
    v, err := c.AdminService.UpdateEventType(r.Context(), chi.URLParam(r, "id"), body)
    respondOne(w, v, err)
}

func (c *AdminController) DeleteEventType(w http.ResponseWriter, r *http.Request) {
    respondDeleted(w, c.AdminService.DeleteEventType(r.Context(), chi.URLParam(r, "id")))
}

func (c *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
    v, err := c.AdminService.ListUsers(r.Context())
    respondList(w, v, err)
}

func (c *AdminController) CreateUser(w http.ResponseWriter, r *http.Request) {
    var body service.UserInput
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }
    v, err := c.AdminService.CreateUser(r.Context(), body)
    respondCreated(w, v, err)
}

func (c *AdminController) UpdateUser(w http.ResponseWriter, r *http.Request) {
    var body service.UserInput
    if err := decode(r, &body); err != nil {
        writeError(w, err)
        return
    }
    v, err := c.AdminService.UpdateUser(r.Context(), chi.URLParam(r, "id"), body)
    respondOne(w, v, err)
}

func (c *AdminController) DeleteUser(w http.ResponseWriter, r *http.Request) {
    respondDeleted(w, c.AdminService.DeleteUser(r.Context(), chi.URLParam(r, "id")))
}

func respondList[T any](w http.ResponseWriter, items []T, err error) {
    if err != nil {
        writeError(w, err)
        return
    }
    json200(w, map[string]interface{}{"data": items})
}

func respondOne[T any](w http.ResponseWriter, v *T, err error) {
    if err != nil {
        writeError(w, err)
        return
    }
    json200(w, v)
}

func respondCreated[T any](w http.ResponseWriter, v *T, err error) {
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusCreated, v)
}

func respondDeleted(w http.ResponseWriter, err error) {
    if err != nil {
        writeError(w, err)
        return
    }
    w.WriteHeader(http.StatusNoContent)
}
