package languages

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/services/language"
	"gitlab.com/fcv-2025.net/codearena/internal/handlers/response"
)

type languageView struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// LanguageHandler lists the languages a submission may use
type LanguageHandler struct {
	languageService language.ILanguageService
	logger          primary.Logger
}

func NewLanguageHandler(languageService language.ILanguageService, logger primary.Logger) *LanguageHandler {
	return &LanguageHandler{
		languageService: languageService,
		logger:          logger,
	}
}

func (h *LanguageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/languages", h.ListLanguages).Methods("GET")
}

func (h *LanguageHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.languageService.ListActive(r.Context())
	if err != nil {
		response.WriteAppError(w, h.logger, err)
		return
	}

	views := make([]languageView, 0, len(languages))
	for _, l := range languages {
		views = append(views, languageView{Name: l.Name, DisplayName: l.DisplayName})
	}
	response.WriteSuccess(w, map[string][]languageView{"languages": views})
}
