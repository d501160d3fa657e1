package contests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/matryer/is"

	"gitlab.com/fcv-2025.net/codearena/internal/adapter/crypto"
	"gitlab.com/fcv-2025.net/codearena/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/codearena/internal/core/services/contest"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/handlers"
	"gitlab.com/fcv-2025.net/codearena/internal/handlers/response"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

// stubService records the last call and answers with err when set.
type stubService struct {
	err       error
	actor     domain.Actor
	listInput contest.ListContestsInput
	submit    contest.SubmitInput
	contestID uuid.UUID
}

var _ contest.IContestService = (*stubService)(nil)

func (s *stubService) CreateContest(_ context.Context, actor domain.Actor, in contest.CreateContestInput) (*domain.Contest, error) {
	s.actor = actor
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Contest{ID: uuid.New(), Name: in.Name}, nil
}

func (s *stubService) ListContests(_ context.Context, actor domain.Actor, in contest.ListContestsInput) (*contest.ContestPage, error) {
	s.actor = actor
	s.listInput = in
	if s.err != nil {
		return nil, s.err
	}
	return &contest.ContestPage{Contests: []*domain.Contest{}, Page: 1, Limit: 20}, nil
}

func (s *stubService) GetContest(_ context.Context, actor domain.Actor, contestID uuid.UUID) (*contest.ContestDetail, error) {
	s.actor = actor
	s.contestID = contestID
	if s.err != nil {
		return nil, s.err
	}
	return &contest.ContestDetail{Contest: &domain.Contest{ID: contestID}}, nil
}

func (s *stubService) UpdateContest(_ context.Context, actor domain.Actor, contestID uuid.UUID, in contest.UpdateContestInput) (*domain.Contest, error) {
	s.actor = actor
	s.contestID = contestID
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Contest{ID: contestID}, nil
}

func (s *stubService) DeleteContest(_ context.Context, actor domain.Actor, contestID uuid.UUID) error {
	s.actor = actor
	s.contestID = contestID
	return s.err
}

func (s *stubService) Register(_ context.Context, actor domain.Actor, contestID uuid.UUID) (*domain.Participant, error) {
	s.actor = actor
	s.contestID = contestID
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Participant{UserID: actor.UserID}, nil
}

func (s *stubService) Submit(_ context.Context, actor domain.Actor, in contest.SubmitInput) (*contest.SubmitResult, error) {
	s.actor = actor
	s.submit = in
	if s.err != nil {
		return nil, s.err
	}
	return &contest.SubmitResult{Accepted: true, PointsAwarded: 150, TestCasesPassed: 3, TestCasesTotal: 3}, nil
}

func (s *stubService) GetLeaderboard(_ context.Context, actor domain.Actor, contestID uuid.UUID) (*contest.LeaderboardView, error) {
	s.actor = actor
	s.contestID = contestID
	if s.err != nil {
		return nil, s.err
	}
	return &contest.LeaderboardView{ContestID: contestID, Leaderboard: []domain.LeaderboardEntry{}}, nil
}

func (s *stubService) RecomputeLeaderboard(_ context.Context, contestID uuid.UUID) (*domain.Contest, error) {
	return nil, s.err
}

func (s *stubService) ListUserContestSubmissions(_ context.Context, actor domain.Actor, contestID uuid.UUID) ([]*domain.Submission, error) {
	s.actor = actor
	s.contestID = contestID
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Submission{}, nil
}

type fixture struct {
	router *mux.Router
	svc    *stubService
	jwt    *crypto.JWTServiceImpl
}

func newFixture() *fixture {
	logger := logging.NewNopLogger()
	jwtSvc := &crypto.JWTServiceImpl{HMACSecretKey: "handler-secret", TokenTTL: time.Minute}
	svc := &stubService{}

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Use(handlers.New(jwtSvc, logger).JWTMiddleware)
	NewContestHandler(svc, logger).RegisterRoutes(api)

	return &fixture{router: router, svc: svc, jwt: jwtSvc}
}

func (f *fixture) token(t *testing.T, id uuid.UUID, role domain.Role) string {
	t.Helper()
	tok, err := f.jwt.GenerateTokenHMAC(context.Background(), "HS256", map[string]interface{}{
		"user_id":  id.String(),
		"username": "tester",
		"role":     string(role),
	})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func (f *fixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorMessage {
	t.Helper()
	var msg response.ErrorMessage
	if err := json.NewDecoder(rec.Body).Decode(&msg); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return msg
}

func TestRequiresToken(t *testing.T) {
	is := is.New(t)
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/contests", "", nil)
	is.Equal(rec.Code, http.StatusUnauthorized)

	rec = f.do(http.MethodGet, "/api/contests", "not-a-token", nil)
	is.Equal(rec.Code, http.StatusUnauthorized)
	is.Equal(decodeError(t, rec).Message, errs.InvalidToken.Message)
}

func TestActorReachesService(t *testing.T) {
	is := is.New(t)
	f := newFixture()
	userID := uuid.New()

	rec := f.do(http.MethodPost, "/api/contests", f.token(t, userID, domain.RoleAdmin), map[string]interface{}{
		"name": "Weekly",
	})
	is.Equal(rec.Code, http.StatusCreated)
	is.Equal(f.svc.actor.UserID, userID)
	is.Equal(f.svc.actor.Role, domain.RoleAdmin)
}

func TestListContestsDecodesQuery(t *testing.T) {
	is := is.New(t)
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/contests?page=2&limit=5&status=live&search=go&sort=startTime&extra=1", f.token(t, uuid.New(), domain.RoleUser), nil)
	is.Equal(rec.Code, http.StatusOK)
	is.Equal(f.svc.listInput, contest.ListContestsInput{Page: 2, Limit: 5, Status: "live", Search: "go", Sort: "startTime"})

	rec = f.do(http.MethodGet, "/api/contests?page=abc", f.token(t, uuid.New(), domain.RoleUser), nil)
	is.Equal(rec.Code, http.StatusBadRequest)
}

func TestInvalidContestID(t *testing.T) {
	is := is.New(t)
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/contests/not-a-uuid", f.token(t, uuid.New(), domain.RoleUser), nil)
	is.Equal(rec.Code, http.StatusBadRequest)
	is.Equal(decodeError(t, rec).Message, errs.ErrInvalidID.Message)
}

func TestSubmitPassesPathAndBody(t *testing.T) {
	is := is.New(t)
	f := newFixture()
	contestID, problemID := uuid.New(), uuid.New()

	rec := f.do(http.MethodPost, "/api/contests/"+contestID.String()+"/problems/"+problemID.String()+"/submit",
		f.token(t, uuid.New(), domain.RoleUser), SubmitRequest{Code: "int main(){}", Language: "cpp"})
	is.Equal(rec.Code, http.StatusOK)
	is.Equal(f.svc.submit.ContestID, contestID)
	is.Equal(f.svc.submit.ProblemID, problemID)
	is.Equal(f.svc.submit.Language, "cpp")

	var result contest.SubmitResult
	is.NoErr(json.NewDecoder(rec.Body).Decode(&result))
	is.True(result.Accepted)
	is.Equal(result.PointsAwarded, 150)
}

func TestErrorKindsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{errs.ErrContestNotFound, http.StatusNotFound, errs.ErrContestNotFound.Message},
		{errs.ErrContestFull, http.StatusConflict, errs.ErrContestFull.Message},
		{errs.ErrNotParticipant, http.StatusForbidden, errs.ErrNotParticipant.Message},
		{errs.ErrDurationMismatch, http.StatusBadRequest, errs.ErrDurationMismatch.Message},
		{errs.ErrJudgeTimeout, http.StatusServiceUnavailable, errs.ErrJudgeTimeout.Message},
		{context.DeadlineExceeded, http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			is := is.New(t)
			f := newFixture()
			f.svc.err = tc.err

			rec := f.do(http.MethodPost, "/api/contests/"+uuid.NewString()+"/register", f.token(t, uuid.New(), domain.RoleUser), nil)
			is.Equal(rec.Code, tc.code)
			msg := decodeError(t, rec)
			is.Equal(msg.Message, tc.msg)
			is.Equal(msg.StatusCode, tc.code)
		})
	}
}

func TestRegisterCreated(t *testing.T) {
	is := is.New(t)
	f := newFixture()
	userID := uuid.New()

	rec := f.do(http.MethodPost, "/api/contests/"+uuid.NewString()+"/register", f.token(t, userID, domain.RoleUser), nil)
	is.Equal(rec.Code, http.StatusCreated)

	var body RegisterResponse
	is.NoErr(json.NewDecoder(rec.Body).Decode(&body))
	is.Equal(body.Participant.UserID, userID)
}
