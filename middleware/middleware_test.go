package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/gamevault/handlers"
	"github.com/akinalp/gamevault/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestTierMiddleware(t *testing.T) {
	mw := NewTierMiddleware(models.TierAdmin)
	h := mw.Require(okHandler())

	tests := []struct {
		name    string
		account *models.Account
		status  int
	}{
		{"no account", nil, http.StatusUnauthorized},
		{"member", &models.Account{Tier: models.TierMember}, http.StatusForbidden},
		{"admin", &models.Account{Tier: models.TierAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			if tt.account != nil {
				r = r.WithContext(handlers.WithAccount(r.Context(), tt.account))
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAccessLog(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	level := logrus.GetLevel()
	logrus.SetLevel(logrus.DebugLevel)
	defer logrus.SetLevel(level)

	failing := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	failing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/catalog/most-played", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, http.StatusBadGateway, entry.Data["status"])
	assert.Equal(t, "/api/catalog/most-played", entry.Data["path"])
	assert.Equal(t, "http", entry.Data["component"])

	AccessLog(okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
}
