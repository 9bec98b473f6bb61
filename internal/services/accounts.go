package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmin creates the initial admin account when no admin exists yet.
// It does nothing when password is empty.
func EnsureAdmin(ctx context.Context, users repositories.UserRepository, email, password string, logger *zap.Logger) error {
	if password == "" {
		logger.Warn("ADMIN_PASSWORD not set; skipping admin seed")
		return nil
	}
	exists, err := users.AdminExists(ctx)
	if err != nil {
		return fmt.Errorf("checking for admin: %w", err)
	}
	if exists {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	admin := &models.User{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: string(hashed),
		Name:     "Admin",
		Role:     models.RoleAdmin,
	}
	if err := users.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	logger.Info("admin account created", zap.String("email", admin.Email))
	return nil
}
