package onboarding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := newTestEnv(t)
	router := gin.New()
	handler := NewHandler(env.svc, zap.NewNop())
	handler.RegisterRoutes(router.Group(""))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed), "body: %s", rec.Body.String())
	return rec, parsed
}

func TestSellerScenario(t *testing.T) {
	router := newTestRouter(t)

	// Registration yields the accept_terms step.
	rec, body := doJSON(t, router, http.MethodPost, "/user-type/process_user",
		gin.H{"user_type": "seller", "username": "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Seller profile created. Please accept terms and conditions.", body["message"])

	nextStep := body["next_step"].(map[string]interface{})
	require.Equal(t, ActionAcceptTerms, nextStep["action"])
	require.Equal(t, "POST", nextStep["method"])

	data := body["data"].(map[string]interface{})
	profileID := data["id"].(string)
	require.Equal(t, "alice", data["user"].(map[string]interface{})["username"])

	// Accepting terms chains into day selection.
	rec, body = doJSON(t, router, http.MethodPost, fmt.Sprintf("/sellers/%s/accept_terms", profileID),
		gin.H{"terms_accepted": true})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Terms acceptance updated. Please select a day.", body["message"])

	nextStep = body["next_step"].(map[string]interface{})
	require.Equal(t, ActionSelectDay, nextStep["action"])
	require.Equal(t, "monday", nextStep["payload"].(map[string]interface{})["selected_day"])
	require.Contains(t, nextStep["url"], fmt.Sprintf("/sellers/%s/select_day", profileID))

	// Day selection completes the flow.
	rec, body = doJSON(t, router, http.MethodPost, fmt.Sprintf("/sellers/%s/select_day", profileID),
		gin.H{"selected_day": "tuesday"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Day selected. Seller process completed.", body["message"])
	require.Nil(t, body["next_step"])
	require.Equal(t, "tuesday", body["data"].(map[string]interface{})["selected_day"])
}

func TestBuyerScenario(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/user-type/process_user",
		gin.H{"user_type": "buyer", "username": "bob"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Buyer profile created. Please accept terms and conditions.", body["message"])

	profileID := body["data"].(map[string]interface{})["id"].(string)
	nextStep := body["next_step"].(map[string]interface{})
	require.Contains(t, nextStep["url"], fmt.Sprintf("/buyers/%s/accept_terms", profileID))

	rec, body = doJSON(t, router, http.MethodPost, fmt.Sprintf("/buyers/%s/accept_terms", profileID),
		gin.H{"terms_accepted": true})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Terms acceptance updated. Buyer process completed.", body["message"])
	require.Nil(t, body["next_step"])

	// Re-processing reports the completed status.
	rec, body = doJSON(t, router, http.MethodPost, "/user-type/process_user",
		gin.H{"user_type": "buyer", "username": "bob"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Buyer API executed. Terms already accepted.", body["message"])
	require.Nil(t, body["next_step"])
}

func TestProcessUser_InvalidPayload(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/user-type/process_user",
		gin.H{"user_type": "admin", "username": "carol"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "VALIDATION_ERROR", body["code"])

	rec, body = doJSON(t, router, http.MethodPost, "/user-type/process_user",
		gin.H{"user_type": "buyer"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "VALIDATION_ERROR", body["code"])
	require.Contains(t, body["details"].(map[string]interface{}), "Username")
}

func TestAcceptTerms_BadRequests(t *testing.T) {
	router := newTestRouter(t)

	// Malformed profile id.
	rec, _ := doJSON(t, router, http.MethodPost, "/buyers/not-a-uuid/accept_terms",
		gin.H{"terms_accepted": true})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown profile id.
	rec, body := doJSON(t, router, http.MethodPost,
		"/buyers/00000000-0000-0000-0000-000000000001/accept_terms",
		gin.H{"terms_accepted": true})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotEmpty(t, body["error"])

	// Missing boolean.
	rec, body = doJSON(t, router, http.MethodPost,
		"/buyers/00000000-0000-0000-0000-000000000001/accept_terms", gin.H{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestSelectDay_WhitelistEnforcedAtBinding(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/user-type/process_user",
		gin.H{"user_type": "seller", "username": "dave"})
	require.Equal(t, http.StatusOK, rec.Code)
	profileID := body["data"].(map[string]interface{})["id"].(string)

	rec, body = doJSON(t, router, http.MethodPost, fmt.Sprintf("/sellers/%s/select_day", profileID),
		gin.H{"selected_day": "funday"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "VALIDATION_ERROR", body["code"])

	// Exact match only; a capitalized day never reaches the service.
	rec, body = doJSON(t, router, http.MethodPost, fmt.Sprintf("/sellers/%s/select_day", profileID),
		gin.H{"selected_day": "Monday"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "VALIDATION_ERROR", body["code"])
}
