package secondary

import (
	"context"

	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

type LanguageRepository interface {
	// GetLanguage retrieves a language by name, nil when unknown
	GetLanguage(ctx context.Context, name string) (*domain.Language, error)

	// GetActiveLanguages retrieves all languages accepting submissions
	GetActiveLanguages(ctx context.Context) ([]*domain.Language, error)

	// SaveLanguage inserts or updates a language
	SaveLanguage(ctx context.Context, language *domain.Language) error
}
