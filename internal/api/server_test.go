package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/jobmarket/internal/api/handlers"
	"github.com/maxaizer/jobmarket/internal/auth"
	"github.com/maxaizer/jobmarket/internal/clients/local"
	"github.com/maxaizer/jobmarket/internal/config"
	"github.com/maxaizer/jobmarket/internal/repositories"
	"github.com/maxaizer/jobmarket/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx := context.Background()

	dbCtx, err := repositories.NewDbContext(repositories.DriverSqlite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())
	require.NoError(t, dbCtx.SeedIfEmpty())
	t.Cleanup(func() { _ = dbCtx.Close() })
	db := dbCtx.DB

	identities := repositories.NewIdentitiesRepository(db)
	provider := local.NewProvider(repositories.NewCredentialsRepository(db), identities, time.Hour).
		WithHashCost(bcrypt.MinCost)
	for _, account := range repositories.DemoAccounts {
		require.NoError(t, provider.EnsureAccount(ctx, account.Identity.ID, account.Identity.Email, account.Password))
	}

	bus := EventBus.New()
	workers := repositories.NewWorkersRepository(db)
	employers := repositories.NewEmployersRepository(db)

	tokens, err := auth.NewTokenIssuer("test-secret-0123456789", time.Hour)
	require.NoError(t, err)

	return NewRouter(config.ServerConfig{Mode: gin.TestMode}, Dependencies{
		Sessions: services.NewSessions(provider, repositories.NewDataRepository(db),
			repositories.NewRegistrationsRepository(db), bus, time.Hour),
		Listings: services.NewListings(repositories.NewJobsRepository(db), workers, employers, bus),
		Messaging: services.NewMessaging(repositories.NewConversationsRepository(db),
			repositories.NewMessagesRepository(db), services.NewDirectory(workers, employers, identities), bus),
		Tokens: tokens,
	})
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doSessionRequest(t, router, method, path, token, "", body)
}

func doSessionRequest(t *testing.T, router http.Handler, method, path, token, sessionID string,
	body any) *httptest.ResponseRecorder {

	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if sessionID != "" {
		req.Header.Set(handlers.SessionHeader, sessionID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func login(t *testing.T, router http.Handler, email string) string {
	t.Helper()
	w := doRequest(t, router, http.MethodPost, "/v1/auth/login", "", gin.H{"email": email, "password": "password"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

func Test_Healthz_ShouldReportOk(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func Test_Login_WhenDemoWorker_ShouldReturnTokenAndRole(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/v1/auth/login", "",
		gin.H{"email": "worker@example.com", "password": "password"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "worker", body["user"].(map[string]any)["role"])

	me := doRequest(t, router, http.MethodGet, "/v1/users/me", body["token"].(string), nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "worker1", decode(t, me)["user"].(map[string]any)["id"])
}

func Test_Login_WhenPasswordWrong_ShouldReturnUnauthorized(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/v1/auth/login", "",
		gin.H{"email": "worker@example.com", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func Test_Login_WhenFieldsMissing_ShouldReturnFieldErrors(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/v1/auth/login", "", gin.H{"email": ""})

	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["fields"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func Test_ProtectedRoute_WhenTokenMissingOrForged_ShouldReturnUnauthorized(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, router, http.MethodGet, "/v1/users/me", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, router, http.MethodGet, "/v1/users/me", "forged", nil).Code)
}

func Test_Logout_ShouldInvalidateToken(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "worker@example.com")

	w := doRequest(t, router, http.MethodPost, "/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, router, http.MethodGet, "/v1/users/me", token, nil).Code)
}

func Test_Register_ShouldCreateAccountAndRejectDuplicate(t *testing.T) {
	router := newTestRouter(t)
	form := gin.H{
		"name":            "Meera Joshi",
		"email":           "meera@example.com",
		"role":            "employer",
		"password":        "secret1",
		"confirmPassword": "secret1",
	}

	w := doRequest(t, router, http.MethodPost, "/v1/auth/register", "", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "employer", decode(t, w)["user"].(map[string]any)["role"])

	duplicate := doRequest(t, router, http.MethodPost, "/v1/auth/register", "", form)
	assert.Equal(t, http.StatusConflict, duplicate.Code)

	relogin := doRequest(t, router, http.MethodPost, "/v1/auth/login", "",
		gin.H{"email": "meera@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, relogin.Code)
}

func Test_Register_WhenPasswordsDiffer_ShouldReturnBadRequest(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/v1/auth/register", "", gin.H{
		"name": "Meera Joshi", "email": "meera@example.com", "role": "worker",
		"password": "secret1", "confirmPassword": "secret2",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "confirmPassword")
}

func Test_UpdateMe_ShouldMergePatch(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "worker@example.com")

	w := doRequest(t, router, http.MethodPatch, "/v1/users/me", token, gin.H{"name": "Raj K."})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "Raj K.", user["name"])
	assert.Equal(t, "worker@example.com", user["email"])

	me := doRequest(t, router, http.MethodGet, "/v1/users/me", token, nil)
	assert.Equal(t, "Raj K.", decode(t, me)["user"].(map[string]any)["name"])
}

func Test_SetLanguage_ShouldValidateCode(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "worker@example.com")

	assert.Equal(t, http.StatusBadRequest,
		doRequest(t, router, http.MethodPut, "/v1/users/me/language", token, gin.H{"language": "fr"}).Code)

	w := doRequest(t, router, http.MethodPut, "/v1/users/me/language", token, gin.H{"language": "kn"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "kn", decode(t, w)["language"])
}

func Test_Session_ShouldKeepLanguageAcrossLogoutAndLogin(t *testing.T) {
	router := newTestRouter(t)
	credentials := gin.H{"email": "worker@example.com", "password": "password"}

	created := doRequest(t, router, http.MethodPost, "/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, created.Code)
	sessionID := decode(t, created)["sessionId"].(string)

	chosen := doRequest(t, router, http.MethodPut, "/v1/sessions/"+sessionID+"/language", "", gin.H{"language": "hi"})
	require.Equal(t, http.StatusOK, chosen.Code, chosen.Body.String())

	first := doSessionRequest(t, router, http.MethodPost, "/v1/auth/login", "", sessionID, credentials)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	firstBody := decode(t, first)
	assert.Equal(t, sessionID, firstBody["sessionId"])
	assert.Equal(t, "hi", firstBody["language"])
	firstToken := firstBody["token"].(string)

	require.Equal(t, http.StatusNoContent, doRequest(t, router, http.MethodPost, "/v1/auth/logout", firstToken, nil).Code)

	anonymous := decode(t, doRequest(t, router, http.MethodGet, "/v1/sessions/"+sessionID, "", nil))
	assert.Equal(t, false, anonymous["authenticated"])
	assert.Equal(t, "hi", anonymous["language"])

	second := doSessionRequest(t, router, http.MethodPost, "/v1/auth/login", "", sessionID, credentials)
	require.Equal(t, http.StatusOK, second.Code)
	secondBody := decode(t, second)
	assert.Equal(t, "hi", secondBody["language"])

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, router, http.MethodGet, "/v1/users/me", firstToken, nil).Code)
	me := doRequest(t, router, http.MethodGet, "/v1/users/me", secondBody["token"].(string), nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "hi", decode(t, me)["language"])
}

func Test_Session_WhenIdMalformed_ShouldReturnBadRequest(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest,
		doRequest(t, router, http.MethodPut, "/v1/sessions/not-a-uuid/language", "", gin.H{"language": "hi"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		doSessionRequest(t, router, http.MethodPost, "/v1/auth/login", "", "not-a-uuid",
			gin.H{"email": "worker@example.com", "password": "password"}).Code)
}

func Test_ListEmployerJobs_ShouldServeJobsOrNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/v1/employers/emp1/jobs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["jobs"], 1)

	assert.Equal(t, http.StatusNotFound, doRequest(t, router, http.MethodGet, "/v1/employers/nope/jobs", "", nil).Code)
}

func Test_ListJobs_ShouldApplyQueryFilters(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/v1/jobs?skills=Plumbing,Carpentry&salaryMin=abc", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["jobs"], 2)
	assert.Equal(t, false, body["empty"])

	none := decode(t, doRequest(t, router, http.MethodGet, "/v1/jobs?search=astronaut", "", nil))
	assert.Equal(t, true, none["empty"])
}

func Test_GetJob_WhenMissing_ShouldReturnEmptyState(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/v1/jobs/missing", "", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, true, decode(t, w)["empty"])
}

func Test_Listings_ShouldServeWorkersAndEmployers(t *testing.T) {
	router := newTestRouter(t)

	workers := decode(t, doRequest(t, router, http.MethodGet, "/v1/workers?availability=immediate", "", nil))
	assert.NotEmpty(t, workers["workers"])

	worker := doRequest(t, router, http.MethodGet, "/v1/workers/worker1", "", nil)
	require.Equal(t, http.StatusOK, worker.Code)
	assert.Equal(t, "Raj Kumar", decode(t, worker)["name"])

	employers := decode(t, doRequest(t, router, http.MethodGet, "/v1/employers", "", nil))
	assert.Len(t, employers["employers"], 3)

	assert.Equal(t, http.StatusNotFound, doRequest(t, router, http.MethodGet, "/v1/employers/nope", "", nil).Code)
}

func Test_PostJob_ShouldRequireEmployerRole(t *testing.T) {
	router := newTestRouter(t)
	draft := gin.H{
		"title":       "Tile Setter",
		"description": "Bathroom renovation",
		"skills":      []string{"Tiling"},
		"location":    gin.H{"city": "Mumbai", "state": "Maharashtra"},
	}

	workerToken := login(t, router, "worker@example.com")
	assert.Equal(t, http.StatusForbidden, doRequest(t, router, http.MethodPost, "/v1/jobs", workerToken, draft).Code)

	employerToken := login(t, router, "employer@example.com")
	w := doRequest(t, router, http.MethodPost, "/v1/jobs", employerToken, draft)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "BuildRight Construction", decode(t, w)["employerName"])
}

func Test_Conversations_ShouldSendAndMarkRead(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "worker@example.com")

	list := decode(t, doRequest(t, router, http.MethodGet, "/v1/conversations", token, nil))
	conversations := list["conversations"].([]any)
	require.Len(t, conversations, 1)
	assert.Equal(t, float64(1), conversations[0].(map[string]any)["unread"])

	blank := doRequest(t, router, http.MethodPost, "/v1/conversations/conv1/messages", token, gin.H{"content": "  "})
	assert.Equal(t, http.StatusNoContent, blank.Code)

	sent := doRequest(t, router, http.MethodPost, "/v1/conversations/conv1/messages", token, gin.H{"content": "hello"})
	require.Equal(t, http.StatusCreated, sent.Code)
	assert.Equal(t, float64(5), decode(t, sent)["seq"])
	assert.Equal(t, false, decode(t, sent)["read"])

	read := doRequest(t, router, http.MethodPost, "/v1/conversations/conv1/read", token, nil)
	require.Equal(t, http.StatusOK, read.Code)
	assert.Equal(t, float64(1), decode(t, read)["marked"])

	messages := decode(t, doRequest(t, router, http.MethodGet, "/v1/conversations/conv1/messages", token, nil))
	assert.Len(t, messages["messages"], 5)
}

func Test_Conversations_WhenNotParticipant_ShouldReturnNotFound(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "worker@example.com")

	assert.Equal(t, http.StatusNotFound,
		doRequest(t, router, http.MethodGet, "/v1/conversations/conv2/messages", token, nil).Code)
	assert.Equal(t, http.StatusNotFound,
		doRequest(t, router, http.MethodPost, "/v1/conversations/conv2/messages", token, gin.H{"content": "hi"}).Code)
}

func Test_StartConversation_ShouldReuseExistingPair(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "employer@example.com")

	w := doRequest(t, router, http.MethodPost, "/v1/conversations", token, gin.H{"participantId": "worker1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "conv1", decode(t, w)["id"])

	assert.Equal(t, http.StatusBadRequest,
		doRequest(t, router, http.MethodPost, "/v1/conversations", token, gin.H{"participantId": "emp1"}).Code)
}
