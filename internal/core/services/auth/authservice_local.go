package auth

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/global/logger"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

var _ ILocalAuthService = &localAuthService{}

type SignUpInput struct {
	UserName    string
	Password    string
	StudentCode string
}

func (in SignUpInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.UserName, validation.Required, validation.Length(3, 64)),
		validation.Field(&in.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&in.StudentCode, validation.Length(0, 32)),
	)
}

type localAuthService struct {
	userPort    secondary.UserPort
	jwtProvider primary.JWTService
}

func NewLocalAuthService(
	userPort secondary.UserPort,
	jwtProvider primary.JWTService,
) ILocalAuthService {
	return &localAuthService{
		userPort:    userPort,
		jwtProvider: jwtProvider,
	}
}

func (g localAuthService) ProviderName() domain.Provider {
	return domain.ProviderLocal
}

// Login expects the plain password in users.PasswordHash.
func (g localAuthService) Login(ctx context.Context, users *domain.Users) (string, error) {
	if users.UserName == "" || users.PasswordHash == nil {
		return "", errs.InvalidCredentials
	}
	usr, err := g.userPort.GetByUserName(ctx, users.UserName)
	if err != nil {
		return "", err
	}
	if usr == nil || usr.PasswordHash == nil {
		return "", errs.InvalidCredentials
	}
	valid, err := g.jwtProvider.VerifyPassword(ctx, *usr.PasswordHash, *users.PasswordHash)
	if err != nil || !valid {
		return "", errs.InvalidCredentials
	}

	return issueToken(ctx, g.jwtProvider, usr)
}

func (g localAuthService) SignUp(ctx context.Context, input SignUpInput) (string, error) {
	input.UserName = strings.TrimSpace(input.UserName)
	if err := input.Validate(); err != nil {
		return "", errs.Validation(err)
	}

	existing, err := g.userPort.GetByUserName(ctx, input.UserName)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", errs.UserNameTaken
	}

	hash, err := g.jwtProvider.EncryptPassword(ctx, input.Password)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return "", errs.InternalError
	}

	user := &domain.Users{
		UserName:     input.UserName,
		PasswordHash: &hash,
		StudentCode:  input.StudentCode,
		AuthProvider: string(domain.ProviderLocal),
		Role:         domain.RoleUser,
	}
	if err := g.userPort.Create(ctx, user); err != nil {
		logger.Error("Failed to create user", "error", err)
		return "", errs.FailedToCreateUser
	}

	return issueToken(ctx, g.jwtProvider, user)
}
