// internal/service/admin_service.go
package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/unclebandit/ggph-smms/internal/errors"
	"github.com/unclebandit/ggph-smms/internal/ids"
	"github.com/unclebandit/ggph-smms/internal/model"
	"github.com/unclebandit/ggph-smms/internal/queue"
	"github.com/unclebandit/ggph-smms/internal/repository"
)

// SessionRevoker drops every session of a user.
type SessionRevoker interface {
	RevokeUser(userID string)
}

// AdminService manages reference data and user accounts.
type AdminService struct {
	Branches   repository.BranchRepositoryInterface
	Categories repository.CategoryRepositoryInterface
	EventTypes repository.EventTypeRepositoryInterface
	Users      repository.UserRepositoryInterface
	Sessions   SessionRevoker // optional
	Queue      queue.Queue    // optional
	Dashboards Invalidator    // optional
	Log        *zap.Logger
	HashCost   int
}

// ====================== Branches ======================

func (s *AdminService) ListBranches(ctx context.Context) ([]model.Branch, error) {
	return s.Branches.List(ctx)
}

func (s *AdminService) CreateBranch(ctx context.Context, b model.Branch) (*model.Branch, error) {
	if err := requireName(b.Name); err != nil {
		return nil, err
	}
	b.ID = ids.New()
	b.Name = strings.TrimSpace(b.Name)
	if err := s.Branches.Create(ctx, &b); err != nil {
		return nil, err
	}
	s.changed("branch", b.ID, queue.OpCreated)
	return &b, nil
}

func (s *AdminService) UpdateBranch(ctx context.Context, id string, b model.Branch) (*model.Branch, error) {
	if err := requireName(b.Name); err != nil {
		return nil, err
	}
	b.ID = id
	b.Name = strings.TrimSpace(b.Name)
	if err := s.Branches.Update(ctx, &b); err != nil {
		return nil, err
	}
	s.changed("branch", id, queue.OpUpdated)
	return &b, nil
}

func (s *AdminService) DeleteBranch(ctx context.Context, id string) error {
	if err := s.Branches.Delete(ctx, id); err != nil {
		return err
	}
	s.changed("branch", id, queue.OpDeleted)
	return nil
}

// ====================== Categories ======================

func (s *AdminService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.Categories.List(ctx)
}

func (s *AdminService) CreateCategory(ctx context.Context, c model.Category) (*model.Category, error) {
	if err := requireName(c.Name); err != nil {
		return nil, err
	}
	c.ID = ids.New()
	c.Name = strings.TrimSpace(c.Name)
	if err := s.Categories.Create(ctx, &c); err != nil {
		return nil, err
	}
	s.changed("category", c.ID, queue.OpCreated)
	return &c, nil
}

func (s *AdminService) UpdateCategory(ctx context.Context, id string, c model.Category) (*model.Category, error) {
	if err := requireName(c.Name); err != nil {
		return nil, err
	}
	c.ID = id
	c.Name = strings.TrimSpace(c.Name)
	if err := s.Categories.Update(ctx, &c); err != nil {
		return nil, err
	}
	s.changed("category", id, queue.OpUpdated)
	return &c, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.Categories.Delete(ctx, id); err != nil {
		return err
	}
	s.changed("category", id, queue.OpDeleted)
	return nil
}

// ====================== Event types ======================

func (s *AdminService) ListEventTypes(ctx context.Context) ([]model.EventType, error) {
	return s.EventTypes.List(ctx)
}

func (s *AdminService) CreateEventType(ctx context.Context, e model.EventType) (*model.EventType, error) {
	if err := requireName(e.Name); err != nil {
		return nil, err
	}
	e.ID = ids.New()
	e.Name = strings.TrimSpace(e.Name)
	if err := s.EventTypes.Create(ctx, &e); err != nil {
		return nil, err
	}
	s.changed("event_type", e.ID, queue.OpCreated)
	return &e, nil
}

func (s *AdminService) UpdateEventType(ctx context.Context, id string, e model.EventType) (*model.EventType, error) {
	if err := requireName(e.Name); err != nil {
		return nil, err
	}
	e.ID = id
	e.Name = strings.TrimSpace(e.Name)
	if err := s.EventTypes.Update(ctx, &e); err != nil {
		return nil, err
	}
	s.changed("event_type", id, queue.OpUpdated)
	return &e, nil
}

func (s *AdminService) DeleteEventType(ctx context.Context, id string) error {
	if err := s.EventTypes.Delete(ctx, id); err != nil {
		return err
	}
	s.changed("event_type", id, queue.OpDeleted)
	return nil
}

// ====================== Users ======================

// UserInput is the admin form for an account. Password is plain text and
// only hashed here.
type UserInput struct {
	Username string     `json:"username"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
	Password string     `json:"password"`
}

func (in *UserInput) normalize() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	if in.Username == "" {
		return appErrors.Required("username")
	}
	if in.Name == "" {
		return appErrors.Required("name")
	}
	if in.Role == "" {
		in.Role = model.RoleStaff
	}
	if !in.Role.Valid() {
		return &appErrors.ValidationError{Field: "role", Reason: "unknown role " + string(in.Role)}
	}
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.Users.List(ctx)
}

func (s *AdminService) CreateUser(ctx context.Context, in UserInput) (*model.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, appErrors.Required("password")
	}
	hash, err := HashPassword(in.Password, s.HashCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{ID: ids.New(), Username: in.Username, Name: in.Name, Role: in.Role, PasswordHash: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.changed("user", u.ID, queue.OpCreated)
	return u, nil
}

// UpdateUser keeps the stored hash when no new password is given.
func (s *AdminService) UpdateUser(ctx context.Context, id string, in UserInput) (*model.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	revoke := u.Role != in.Role || in.Password != ""
	u.Username, u.Name, u.Role = in.Username, in.Name, in.Role
	if in.Password != "" {
		if u.PasswordHash, err = HashPassword(in.Password, s.HashCost); err != nil {
			return nil, err
		}
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	// Sessions carry the user as of login.
	if revoke && s.Sessions != nil {
		s.Sessions.RevokeUser(id)
	}
	s.changed("user", id, queue.OpUpdated)
	return u, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	if s.Sessions != nil {
		s.Sessions.RevokeUser(id)
	}
	s.changed("user", id, queue.OpDeleted)
	return nil
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return appErrors.Required("name")
	}
	return nil
}

// HashPassword bcrypts password. cost 0 means bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *AdminService) changed(entity, id string, op queue.Op) {
	if s.Dashboards != nil && entity != "user" {
		s.Dashboards.Purge()
	}
	if s.Queue == nil {
		return
	}
	ev := queue.ReferenceEvent{Entity: entity, ID: id, Op: op, At: time.Now().UTC()}
	if err := s.Queue.Publish(queue.TopicReferenceChanges, ev); err != nil {
		orNop(s.Log).Warn("failed to publish reference event", zap.String("entity", entity), zap.String("id", id), zap.Error(err))
	}
}
