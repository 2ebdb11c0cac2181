package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func doAuthRequest(t *testing.T, handler http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_DisabledWhenNoKeys(t *testing.T) {
	h := BearerAuthMiddleware(nil)(okHandler())

	rec := doAuthRequest(t, h, "/retrieve", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected pass-through, got %d", rec.Code)
	}
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	h := BearerAuthMiddleware([]string{"key1"})(okHandler())

	rec := doAuthRequest(t, h, "/retrieve", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestBearerAuth_WrongScheme(t *testing.T) {
	h := BearerAuthMiddleware([]string{"key1"})(okHandler())

	rec := doAuthRequest(t, h, "/retrieve", "Basic key1")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestBearerAuth_InvalidKey(t *testing.T) {
	h := BearerAuthMiddleware([]string{"key1"})(okHandler())

	rec := doAuthRequest(t, h, "/retrieve", "Bearer wrong")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestBearerAuth_ValidKey(t *testing.T) {
	h := BearerAuthMiddleware([]string{"key1", "key2"})(okHandler())

	rec := doAuthRequest(t, h, "/retrieve", "Bearer key2")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestBearerAuth_HealthAndMetricsExempt(t *testing.T) {
	h := BearerAuthMiddleware([]string{"key1"})(okHandler())

	for _, path := range []string{"/health", "/metrics"} {
		rec := doAuthRequest(t, h, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("expected %s exempt, got %d", path, rec.Code)
		}
	}
}

func TestBearerAuth_EmptyKeyIgnored(t *testing.T) {
	h := BearerAuthMiddleware([]string{""})(okHandler())

	rec := doAuthRequest(t, h, "/retrieve", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected auth disabled with only empty keys, got %d", rec.Code)
	}
}
