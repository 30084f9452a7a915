package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/unclebandit/ggph-smms/internal/errors"
	"github.com/unclebandit/ggph-smms/internal/model"
	"github.com/unclebandit/ggph-smms/internal/repository"
	"github.com/unclebandit/ggph-smms/internal/session"
)

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// compareDummy burns one bcrypt comparison for unknown usernames.
func compareDummy(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unknown-user"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

type AuthService struct {
	Users    repository.UserRepositoryInterface
	Sessions *session.Store
	Log      *zap.Logger
}

// Authenticate checks the credentials and returns the account. Any mismatch
// is reported as appErrors.ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, appErrors.ErrUnauthorized
	}
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if appErrors.IsNotFound(err) {
			compareDummy(password)
			return nil, appErrors.ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, appErrors.ErrUnauthorized
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (session.Session, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		orNop(s.Log).Info("login rejected", zap.String("username", username))
		return session.Session{}, err
	}
	return s.Sessions.Create(*u), nil
}

func (s *AuthService) Logout(token string) {
	s.Sessions.Revoke(token)
}
