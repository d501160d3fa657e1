package contests

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/core/services/contest"
	"gitlab.com/fcv-2025.net/codearena/internal/handlers"
	"gitlab.com/fcv-2025.net/codearena/internal/handlers/response"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

var errInvalidBody = errs.New(errs.KindValidation, "Invalid request body")
var errInvalidQuery = errs.New(errs.KindValidation, "Invalid query parameters")

// ContestHandler handles contest API requests
type ContestHandler struct {
	contestService contest.IContestService
	decoder        *schema.Decoder
	logger         primary.Logger
}

// NewContestHandler creates a new contest handler
func NewContestHandler(contestService contest.IContestService, logger primary.Logger) *ContestHandler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &ContestHandler{
		contestService: contestService,
		decoder:        decoder,
		logger:         logger,
	}
}

// RegisterRoutes registers the routes on a router already guarded by the JWT middleware
func (h *ContestHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/contests", h.CreateContest).Methods("POST")
	router.HandleFunc("/contests", h.ListContests).Methods("GET")
	router.HandleFunc("/contests/{contestId}", h.GetContest).Methods("GET")
	router.HandleFunc("/contests/{contestId}", h.UpdateContest).Methods("PATCH")
	router.HandleFunc("/contests/{contestId}", h.DeleteContest).Methods("DELETE")
	router.HandleFunc("/contests/{contestId}/register", h.Register).Methods("POST")
	router.HandleFunc("/contests/{contestId}/problems/{problemId}/submit", h.Submit).Methods("POST")
	router.HandleFunc("/contests/{contestId}/leaderboard", h.GetLeaderboard).Methods("GET")
	router.HandleFunc("/contests/{contestId}/submissions", h.ListSubmissions).Methods("GET")
}

func (h *ContestHandler) fail(w http.ResponseWriter, err error) {
	response.WriteAppError(w, h.logger, err)
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, errs.ErrInvalidID
	}
	return id, nil
}

func (h *ContestHandler) CreateContest(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.ActorFromContext(r.Context())
	if !ok {
		h.fail(w, errs.MissingToken)
		return
	}

	var req contest.CreateContestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Failed to decode request", "error", err)
		h.fail(w, errInvalidBody)
		return
	}

	created, err := h.contestService.CreateContest(r.Context(), actor, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, created)
}

func (h *ContestHandler) ListContests(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.ActorFromContext(r.Context())
	if !ok {
		h.fail(w, errs.MissingToken)
		return
	}

	var q listContestsQuery
	if err := h.decoder.Decode(&q, r.URL.Query()); err != nil {
		h.logger.Debug("Failed to decode query", "error", err)
		h.fail(w, errInvalidQuery)
		return
	}

	page, err := h.contestService.ListContests(r.Context(), actor, contest.ListContestsInput{
		Page:   q.Page,
		Limit:  q.Limit,
		Status: q.Status,
		Search: q.Search,
		Sort:   q.Sort,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	response.WriteSuccess(w, page)
}

func (h *ContestHandler) GetContest(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.ActorFromContext(r.Context())
	if !ok {
		h.fail(w, errs.MissingToken)
		return
	}
	contestID, err := pathID(r, "contestId")
	if err != nil {
		h.fail(w, err)
		return
	}

	detail, err := h.contestService.GetContest(r.Context(), actor, contestID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.WriteSuccess(w, detail)
}

func (h *ContestHandler) UpdateContest(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.ActorFromContext(r.Context())
	if !ok {
		h.fail(w, errs.MissingToken)
		return
	}
	contestID, err := pathID(r, "contestId")
	if err != nil {
		h.fail(w, err)
		return
	}

	var req contest.UpdateContestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Failed to decode request", "error", err)
		h.fail(w, errInvalidBody)
		return
	}

	updated, err := h.contestService.UpdateContest(r.Context(), actor, contestID, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.WriteSuccess(w, updated)
}

func (h *ContestHandler) DeleteContest(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.ActorFromContext(r.Context())
	if !ok {
		h.fail(w, errs.MissingToken)
		return
	}
	contestID, err := pathID(r, "contestId")
	if err != nil {
		h.fail(w, err)
		return
	}

	if err := h.contestService.DeleteContest(r.Context(), actor, contestID); err != nil {
		h.fail(w, err)
		return
	}
	response.WriteSuccess(w, map[string]string{"message": "Contest deleted"})
}

func (h *ContestHandler) Register(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.ActorFromContext(r.Context())
	if !ok {
		h.fail(w, errs.MissingToken)
		return
	}
	contestID, err := pathID(r, "contestId")
	if err != nil {
		h.fail(w, err)
		return
	}

	participant, err := h.contestService.Register(r.Context(), actor, contestID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Message:     "Registered",
		Participant: participant,
	})
}

func (h *ContestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.ActorFromContext(r.Context())
	if !ok {
		h.fail(w, errs.MissingToken)
		return
	}
	contestID, err := pathID(r, "contestId")
	if err != nil {
		h.fail(w, err)
		return
	}
	problemID, err := pathID(r, "problemId")
	if err != nil {
		h.fail(w, err)
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Failed to decode request", "error", err)
		h.fail(w, errInvalidBody)
		return
	}

	result, err := h.contestService.Submit(r.Context(), actor, contest.SubmitInput{
		ContestID: contestID,
		ProblemID: problemID,
		Code:      req.Code,
		Language:  req.Language,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	response.WriteSuccess(w, result)
}

func (h *ContestHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.ActorFromContext(r.Context())
	if !ok {
		h.fail(w, errs.MissingToken)
		return
	}
	contestID, err := pathID(r, "contestId")
	if err != nil {
		h.fail(w, err)
		return
	}

	view, err := h.contestService.GetLeaderboard(r.Context(), actor, contestID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.WriteSuccess(w, view)
}

func (h *ContestHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := handlers.ActorFromContext(r.Context())
	if !ok {
		h.fail(w, errs.MissingToken)
		return
	}
	contestID, err := pathID(r, "contestId")
	if err != nil {
		h.fail(w, err)
		return
	}

	submissions, err := h.contestService.ListUserContestSubmissions(r.Context(), actor, contestID)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.WriteSuccess(w, map[string]interface{}{"submissions": submissions})
}
