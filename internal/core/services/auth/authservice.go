package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/global/logger"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

type IAuthService interface {
	ProviderName() domain.Provider
	Login(ctx context.Context, users *domain.Users) (string, error)
}

// ILocalAuthService additionally creates password accounts.
type ILocalAuthService interface {
	IAuthService
	SignUp(ctx context.Context, input SignUpInput) (string, error)
}

// issueToken signs the identity claims the HTTP middleware turns back into an Actor.
func issueToken(ctx context.Context, jwtProvider primary.JWTService, user *domain.Users) (string, error) {
	role := user.Role
	if role == "" {
		role = domain.RoleUser
	}
	claims := map[string]interface{}{
		"user_id":  user.ID.String(),
		"username": user.UserName,
		"role":     string(role),
	}
	token, err := jwtProvider.GenerateTokenHMAC(ctx, jwt.SigningMethodHS256.Name, claims)
	if err != nil {
		logger.Error("Failed to sign token", "error", err)
		return "", errs.GeneratingToken
	}
	return token, nil
}
