package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSubscriptionRouter() *gin.Engine {
	r := gin.New()
	handler := NewHandler(nil, nil, nil)
	r.PUT("/api/subscriptions", handler.PutSubscription)
	r.DELETE("/api/subscriptions", handler.DeleteSubscription)
	r.GET("/api/subscriptions", handler.GetSubscription)
	return r
}

func TestPutSubscription(t *testing.T) {
	router := setupSubscriptionRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/subscriptions", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
}

func TestSubscriptionValidation(t *testing.T) {
	router := setupSubscriptionRouter()

	t.Run("put without keys", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/subscriptions", bytes.NewBufferString(`{"endpoint":"https://push.example/a"}`))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete without endpoint", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/subscriptions", bytes.NewBufferString(`{}`))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get without endpoint", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/subscriptions", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"endpoint is required"}`, w.Body.String())
	})
}

func TestSubscriptionLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)
	const endpoint = "https://push.example/send/abc123"

	body := `{"endpoint":"` + endpoint + `","p256dh":"key","auth":"secret","subscribed_locations":[1,2]}`
	w := do(router, http.MethodPut, "/api/subscriptions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(router, http.MethodGet, "/api/subscriptions?endpoint="+endpoint, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		SubscribedLocations []int64 `json:"subscribed_locations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.ElementsMatch(t, []int64{1, 2}, got.SubscribedLocations)

	// Replacing narrows the followed set.
	body = `{"endpoint":"` + endpoint + `","p256dh":"key2","auth":"secret2","subscribed_locations":[3]}`
	w = do(router, http.MethodPut, "/api/subscriptions", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(router, http.MethodGet, "/api/subscriptions?endpoint="+endpoint, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []int64{3}, got.SubscribedLocations)

	w = do(router, http.MethodDelete, "/api/subscriptions", `{"endpoint":"`+endpoint+`"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(router, http.MethodGet, "/api/subscriptions?endpoint="+endpoint, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
