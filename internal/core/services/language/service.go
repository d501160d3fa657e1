package language

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

// ILanguageService exposes the submission language catalogue.
type ILanguageService interface {
	// ListActive returns the languages currently accepted for submissions, by name
	ListActive(ctx context.Context) ([]*domain.Language, error)
}

var _ ILanguageService = (*LanguageService)(nil)

type LanguageService struct {
	languages secondary.LanguageRepository
	logger    primary.Logger
}

func NewLanguageService(languages secondary.LanguageRepository, logger primary.Logger) *LanguageService {
	return &LanguageService{
		languages: languages,
		logger:    logger,
	}
}

func (s *LanguageService) ListActive(ctx context.Context) ([]*domain.Language, error) {
	languages, err := s.languages.GetActiveLanguages(ctx)
	if err != nil {
		s.logger.Error("Failed to list languages", "error", err)
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	slices.SortFunc(languages, func(a, b *domain.Language) int {
		return strings.Compare(a.Name, b.Name)
	})
	return languages, nil
}
