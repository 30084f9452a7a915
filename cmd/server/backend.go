package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/unclebandit/ggph-smms/internal/config"
	"github.com/unclebandit/ggph-smms/internal/db"
	"github.com/unclebandit/ggph-smms/internal/ids"
	"github.com/unclebandit/ggph-smms/internal/model"
	"github.com/unclebandit/ggph-smms/internal/repository"
	"github.com/unclebandit/ggph-smms/internal/service"
)

// stores is one data store implementation per collection.
type stores struct {
	campaigns  repository.CampaignRepositoryInterface
	branches   repository.BranchRepositoryInterface
	categories repository.CategoryRepositoryInterface
	eventTypes repository.EventTypeRepositoryInterface
	users      repository.UserRepositoryInterface
	audit      repository.AuditRepositoryInterface
	close      func()
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		return memoryStores(ctx, cfg, log)
	default:
		conn, err := db.Open(ctx, cfg.DSN(), log)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(conn); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return postgresStores(conn, log), nil
	}
}

func postgresStores(conn *sql.DB, log *zap.Logger) *stores {
	return &stores{
		campaigns:  &repository.CampaignRepository{DB: conn, Log: log},
		branches:   &repository.BranchRepository{DB: conn},
		categories: &repository.CategoryRepository{DB: conn},
		eventTypes: &repository.EventTypeRepository{DB: conn},
		users:      &repository.UserRepository{DB: conn},
		audit:      &repository.AuditRepository{DB: conn},
		close:      func() { _ = conn.Close() },
	}
}

// memoryStores starts empty apart from the bootstrap admin account.
func memoryStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	s := &stores{
		campaigns:  repository.NewMemoryCampaignRepository(),
		branches:   repository.NewMemoryBranchRepository(),
		categories: repository.NewMemoryCategoryRepository(),
		eventTypes: repository.NewMemoryEventTypeRepository(),
		users:      repository.NewMemoryUserRepository(),
		audit:      repository.NewMemoryAuditRepository(),
		close:      func() {},
	}
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		log.Warn("memory backend without ADMIN_USERNAME/ADMIN_PASSWORD: nobody can log in")
		return s, nil
	}
	hash, err := service.HashPassword(cfg.AdminPassword, 0)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	admin := &model.User{ID: ids.New(), Username: cfg.AdminUsername, Name: "Administrator", Role: model.RoleAdmin, PasswordHash: hash}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	log.Info("memory backend ready", zap.String("admin", admin.Username))
	return s, nil
}
