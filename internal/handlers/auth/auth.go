package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"gitlab.com/fcv-2025.net/codearena/internal/config"
	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/services/auth"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/handlers/response"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	stateCookie       = "oauth_state"
)

var errInvalidBody = errs.New(errs.KindValidation, "Invalid request body")
var errInvalidState = errs.New(errs.KindUnauthenticated, "Invalid oauth state")

type ServiceDependencies struct {
	GGAuthService    auth.IAuthService
	LocalAuthService auth.ILocalAuthService
}

// GoogleUser struct to decode Google API response
type GoogleUser struct {
	ID    string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	UserName    string `json:"username"`
	Password    string `json:"password"`
	StudentCode string `json:"studentCode"`
}

type Handler struct {
	providerHandler map[domain.Provider]auth.IAuthService
	localAuth       auth.ILocalAuthService
	oauthConfig     *oauth2.Config
	logger          primary.Logger
}

func NewHandler(cfg *config.GGAuthConfig, logger primary.Logger) *Handler {
	return &Handler{
		providerHandler: make(map[domain.Provider]auth.IAuthService),
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router, svcDep *ServiceDependencies) {
	h.providerHandler[domain.ProviderGoogle] = svcDep.GGAuthService
	h.providerHandler[domain.ProviderLocal] = svcDep.LocalAuthService
	h.localAuth = svcDep.LocalAuthService
	router.HandleFunc("/auth/login", h.LoginHandler).Methods("POST")
	router.HandleFunc("/auth/register", h.SignUpHandler).Methods("POST")
	router.HandleFunc("/auth/google", h.GoogleLoginHandler).Methods("GET")
	router.HandleFunc("/auth/callback", h.GoogleCallbackHandler).Methods("GET")
}

// LoginHandler signs in with a local username and password
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteAppError(w, h.logger, errInvalidBody)
		return
	}

	tokenStr, err := h.providerHandler[domain.ProviderLocal].Login(r.Context(), &domain.Users{
		UserName:     req.UserName,
		PasswordHash: &req.Password,
		AuthProvider: string(domain.ProviderLocal),
	})
	if err != nil {
		response.WriteAppError(w, h.logger, err)
		return
	}
	response.WriteSuccess(w, domain.LoginResponse{Token: tokenStr})
}

// SignUpHandler creates a local account and signs it in
func (h *Handler) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteAppError(w, h.logger, errInvalidBody)
		return
	}

	tokenStr, err := h.localAuth.SignUp(r.Context(), auth.SignUpInput{
		UserName:    req.UserName,
		Password:    req.Password,
		StudentCode: req.StudentCode,
	})
	if err != nil {
		response.WriteAppError(w, h.logger, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, domain.LoginResponse{Token: tokenStr})
}

// GoogleLoginHandler redirects user to Google OAuth2 login
func (h *Handler) GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		response.WriteAppError(w, h.logger, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallbackHandler handles Google OAuth2 callback
func (h *Handler) GoogleCallbackHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		response.WriteAppError(w, h.logger, errInvalidState)
		return
	}

	// Get authorization code from URL
	code := r.URL.Query().Get("code")
	if code == "" {
		response.WriteError(w, response.ErrorMessage{Message: "No code in URL", StatusCode: http.StatusBadRequest})
		return
	}
	// Exchange code for access token
	token, err := h.oauthConfig.Exchange(ctx, code)
	if err != nil {
		h.logger.Error("Failed to exchange oauth code", "error", err)
		response.WriteAppError(w, h.logger, errs.InvalidCredentials)
		return
	}
	// Fetch user info from Google API
	client := h.oauthConfig.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		response.WriteAppError(w, h.logger, err)
		return
	}
	defer resp.Body.Close()
	// Decode Google user info
	var googleUser GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		response.WriteAppError(w, h.logger, err)
		return
	}

	tokenStr, err := h.providerHandler[domain.ProviderGoogle].Login(ctx, &domain.Users{
		GoogleID:     &googleUser.ID,
		Email:        &googleUser.Email,
		AuthProvider: string(domain.ProviderGoogle),
	})
	if err != nil {
		response.WriteAppError(w, h.logger, err)
		return
	}

	response.WriteSuccess(w, domain.LoginResponse{Token: tokenStr})
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
