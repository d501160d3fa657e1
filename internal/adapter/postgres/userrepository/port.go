package userrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	querybuilder "gitlab.com/fcv-2025.net/codearena/internal/utils"
)

var _ secondary.UserPort = &userRepo{}

type userRepo struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func New(db *sqlx.DB, logger primary.Logger, schema string) secondary.UserPort {
	return &userRepo{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

func (u userRepo) Create(ctx context.Context, user *domain.Users) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	userTbl := domain.GetUserTable()
	query, args := querybuilder.NewQueryBuilder(u.schema).Insert(
		userTbl.ID, userTbl.UserName, userTbl.Email, userTbl.PasswordHash,
		userTbl.StudentCode,
		userTbl.AuthProvider, userTbl.GoogleID, userTbl.Role,
	).
		Into(userTbl.GetTableName()).
		Values(
			user.ID, user.UserName, user.Email, user.PasswordHash,
			user.StudentCode,
			user.AuthProvider, user.GoogleID, user.Role,
		).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	if _, err := u.db.ExecContext(ctx, query, args...); err != nil {
		u.logger.Error("Failed to create user", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (u userRepo) getBy(ctx context.Context, column string, value interface{}) (*domain.Users, error) {
	userTbl := domain.GetUserTable()
	query, args := querybuilder.NewQueryBuilder(u.schema).
		Select(userTbl.Columns()...).
		From(userTbl.GetTableName()).
		Where(fmt.Sprintf("%s = ?", column), value).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	var user domain.Users
	err := u.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		u.logger.Error("Failed to get user", "by", column, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (u userRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Users, error) {
	return u.getBy(ctx, domain.GetUserTable().ID, id)
}

func (u userRepo) GetByUserName(ctx context.Context, userName string) (*domain.Users, error) {
	return u.getBy(ctx, domain.GetUserTable().UserName, userName)
}

func (u userRepo) GetByGoogleID(ctx context.Context, googleID string) (*domain.Users, error) {
	return u.getBy(ctx, domain.GetUserTable().GoogleID, googleID)
}
