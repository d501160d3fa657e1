package auth

import (
	"context"
	"strings"

	"gitlab.com/fcv-2025.net/codearena/internal/config"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/global/logger"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

const fptDomain = "@fpt.edu.vn"

var _ IAuthService = &googleAuthService{}

type googleAuthService struct {
	userPort    secondary.UserPort
	jwtProvider primary.JWTService
	Config      *config.GGAuthConfig
}

func NewGoogleAuthService(userPort secondary.UserPort, jwtProvider primary.JWTService, Config *config.GGAuthConfig) IAuthService {
	return &googleAuthService{
		userPort:    userPort,
		jwtProvider: jwtProvider,
		Config:      Config,
	}
}

func (g googleAuthService) ProviderName() domain.Provider {
	return domain.ProviderGoogle
}

// Login signs in a Google identity, creating the user on first sight.
func (g googleAuthService) Login(ctx context.Context, users *domain.Users) (string, error) {
	if users.GoogleID == nil || *users.GoogleID == "" {
		return "", errs.InvalidCredentials
	}

	if users.AuthProvider != string(domain.ProviderGoogle) {
		return "", errs.InvalidCredentials
	}

	if users.Email == nil || *users.Email == "" {
		return "", errs.EmailRequired
	}

	if g.Config.ForceFPTDomain && !strings.HasSuffix(strings.ToLower(*users.Email), fptDomain) {
		return "", errs.ShouldUseFPTEmail
	}

	usr, err := g.userPort.GetByGoogleID(ctx, *users.GoogleID)
	if err != nil {
		return "", err
	}

	if usr != nil {
		return issueToken(ctx, g.jwtProvider, usr)
	}

	localPart := strings.Split(*users.Email, "@")[0]
	users.PasswordHash = nil
	users.UserName = localPart
	users.StudentCode = localPart
	users.Role = domain.RoleUser
	if err := g.userPort.Create(ctx, users); err != nil {
		logger.Error("Failed to create google user", "error", err)
		return "", errs.FailedToCreateUser
	}

	return issueToken(ctx, g.jwtProvider, users)
}
