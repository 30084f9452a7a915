//cmd/seeder/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/unclebandit/ggph-smms/internal/config"
	"github.com/unclebandit/ggph-smms/internal/db"
	appErrors "github.com/unclebandit/ggph-smms/internal/errors"
	"github.com/unclebandit/ggph-smms/internal/ids"
	"github.com/unclebandit/ggph-smms/internal/logging"
	"github.com/unclebandit/ggph-smms/internal/model"
	"github.com/unclebandit/ggph-smms/internal/repository"
	"github.com/unclebandit/ggph-smms/internal/service"
)

var seedFiles = []string{
	"branches.sql",
	"reference.sql",
	"campaigns.sql",
}

func main() {
	dir := flag.String("dir", "seed", "directory holding the seed SQL files")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()
	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Closer()
	logger := lg.Base

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("failed to connect to DB", zap.Error(err))
	}
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	for _, file := range seedFiles {
		path := filepath.Join(*dir, file)
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Fatal("failed to read seed file", zap.String("file", path), zap.Error(err))
		}
		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			logger.Fatal("failed to execute seed file", zap.String("file", path), zap.Error(err))
		}
		logger.Info("seeded", zap.String("file", path))
	}

	if err := seedAdmin(ctx, &repository.UserRepository{DB: conn}, cfg); err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	}

	fmt.Println("Database seeding completed successfully!")
}

// seedAdmin creates the ADMIN_USERNAME account unless it already exists.
func seedAdmin(ctx context.Context, users repository.UserRepositoryInterface, cfg *config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}
	if _, err := users.GetByUsername(ctx, cfg.AdminUsername); err == nil {
		return nil
	} else if !appErrors.IsNotFound(err) {
		return err
	}

	hash, err := service.HashPassword(cfg.AdminPassword, 0)
	if err != nil {
		return err
	}
	return users.Create(ctx, &model.User{
		ID:           ids.New(),
		Username:     cfg.AdminUsername,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
		PasswordHash: hash,
	})
}
