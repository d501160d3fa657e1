package languagerepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

var _ secondary.LanguageRepository = (*LanguageRepository)(nil)

// defaultLanguages seeds an empty catalogue with Judge0 CE language ids.
var defaultLanguages = []domain.Language{
	{Name: "cpp", DisplayName: "C++ (GCC 9.2.0)", JudgeLanguageID: 54, Active: true},
	{Name: "c", DisplayName: "C (GCC 9.2.0)", JudgeLanguageID: 50, Active: true},
	{Name: "java", DisplayName: "Java (OpenJDK 13.0.1)", JudgeLanguageID: 62, Active: true},
	{Name: "python", DisplayName: "Python (3.8.1)", JudgeLanguageID: 71, Active: true},
	{Name: "javascript", DisplayName: "JavaScript (Node.js 12.14.0)", JudgeLanguageID: 63, Active: true},
	{Name: "go", DisplayName: "Go (1.13.5)", JudgeLanguageID: 60, Active: true},
	{Name: "csharp", DisplayName: "C# (Mono 6.6.0.161)", JudgeLanguageID: 51, Active: true},
}

type languageRow struct {
	Name            string    `db:"name"`
	DisplayName     string    `db:"display_name"`
	JudgeLanguageID int       `db:"judge_language_id"`
	Active          bool      `db:"active"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (row languageRow) toDomain() *domain.Language {
	return &domain.Language{
		Name:            row.Name,
		DisplayName:     row.DisplayName,
		JudgeLanguageID: row.JudgeLanguageID,
		Active:          row.Active,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

// LanguageRepository implements the LanguageRepository interface with PostgreSQL
type LanguageRepository struct {
	db     *sqlx.DB
	schema string
	logger primary.Logger
}

// NewLanguageRepository creates a new PostgreSQL language catalogue
func NewLanguageRepository(db *sqlx.DB, schema string, logger primary.Logger) *LanguageRepository {
	return &LanguageRepository{
		db:     db,
		schema: schema,
		logger: logger,
	}
}

// GetLanguage retrieves a language by name
func (r *LanguageRepository) GetLanguage(ctx context.Context, name string) (*domain.Language, error) {
	query := fmt.Sprintf(`
		SELECT name, display_name, judge_language_id, active, created_at, updated_at
		FROM %s.languages
		WHERE name = $1
	`, r.schema)

	var row languageRow
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get language", "name", name, "error", err)
		return nil, fmt.Errorf("failed to get language: %w", err)
	}

	return row.toDomain(), nil
}

// GetActiveLanguages retrieves all languages accepting submissions
func (r *LanguageRepository) GetActiveLanguages(ctx context.Context) ([]*domain.Language, error) {
	query := fmt.Sprintf(`
		SELECT name, display_name, judge_language_id, active, created_at, updated_at
		FROM %s.languages
		WHERE active = true
		ORDER BY name
	`, r.schema)

	var rows []languageRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.logger.Error("Failed to get active languages", "error", err)
		return nil, fmt.Errorf("failed to get active languages: %w", err)
	}

	languages := make([]*domain.Language, 0, len(rows))
	for _, row := range rows {
		languages = append(languages, row.toDomain())
	}
	return languages, nil
}

// SaveLanguage inserts or updates a language
func (r *LanguageRepository) SaveLanguage(ctx context.Context, language *domain.Language) error {
	if language.Name == "" {
		return fmt.Errorf("language name cannot be empty")
	}
	if language.JudgeLanguageID <= 0 {
		return fmt.Errorf("judge language id must be positive")
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.languages (
			name, display_name, judge_language_id, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			judge_language_id = EXCLUDED.judge_language_id,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`, r.schema)

	now := time.Now()
	if language.CreatedAt.IsZero() {
		language.CreatedAt = now
	}
	language.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		language.Name,
		language.DisplayName,
		language.JudgeLanguageID,
		language.Active,
		language.CreatedAt,
		language.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to save language", "name", language.Name, "error", err)
		return fmt.Errorf("failed to save language: %w", err)
	}

	r.logger.Info("Saved language", "name", language.Name, "active", language.Active)
	return nil
}

// EnsureTableExists creates the catalogue and seeds defaults when it is empty
func (r *LanguageRepository) EnsureTableExists(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.languages (
			name VARCHAR(50) PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			judge_language_id INTEGER NOT NULL,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL
		)
	`, r.schema)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		r.logger.Error("Failed to create languages table", "error", err)
		return fmt.Errorf("failed to create languages table: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s.languages", r.schema)); err != nil {
		r.logger.Error("Failed to count languages", "error", err)
		return fmt.Errorf("failed to count languages: %w", err)
	}

	if count == 0 {
		for _, lang := range defaultLanguages {
			lang := lang
			if err := r.SaveLanguage(ctx, &lang); err != nil {
				r.logger.Error("Failed to save default language", "name", lang.Name, "error", err)
				continue
			}
		}
	}

	return nil
}
