package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/lootbox-api/internal/domain"
)

type stubLootboxService struct {
	openCalls    int
	historyCalls int
}

func (s *stubLootboxService) Open(ctx context.Context, req domain.OpenRequest) (*domain.OpenResult, error) {
	s.openCalls++
	return nil, domain.ErrMissingParameters
}

func (s *stubLootboxService) History(ctx context.Context, walletAddress string) ([]domain.HistoryEntry, error) {
	s.historyCalls++
	return []domain.HistoryEntry{}, nil
}

type stubLedger struct {
	err error
}

func (l stubLedger) Health(ctx context.Context) error { return l.err }

const testWallet = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"

func newTestRouter(ledgerErr error) (http.Handler, *stubLootboxService) {
	svc := &stubLootboxService{}
	info := Info{ServiceName: "lootbox-api", Version: "1.2.3", Network: "devnet"}
	return NewRouter(info, svc, stubLedger{err: ledgerErr}), svc
}

func TestRouter_Routes(t *testing.T) {
	router, _ := newTestRouter(nil)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"liveness", http.MethodGet, "/healthz", http.StatusOK},
		{"readiness", http.MethodGet, "/readyz", http.StatusOK},
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"version", http.MethodGet, "/version", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"swagger doc", http.MethodGet, "/swagger/doc.json", http.StatusOK},
		{"history", http.MethodGet, "/api/lootbox/history/" + testWallet, http.StatusOK},
		{"open requires POST", http.MethodGet, "/api/lootbox/open", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/api/lootbox/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
		})
	}
}

func TestRouter_ReadinessFollowsLedger(t *testing.T) {
	router, _ := newTestRouter(errors.New("rpc down"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_OpenReachesService(t *testing.T) {
	router, svc := newTestRouter(nil)

	body, err := json.Marshal(map[string]string{"walletAddress": testWallet})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/lootbox/open", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.ErrMsgMissingParameters)
	assert.Equal(t, 1, svc.openCalls)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestRouter_RejectsOversizedBody(t *testing.T) {
	router, svc := newTestRouter(nil)

	payload := `{"walletAddress":"` + testWallet + `","tier":"` + strings.Repeat("A", MaxRequestBodyBytes) + `"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/lootbox/open", strings.NewReader(payload)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.openCalls)
}

func TestRouter_RecordsRouteMetrics(t *testing.T) {
	router, _ := newTestRouter(nil)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/lootbox/history/"+testWallet, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/lootbox/history/{walletAddress}")
}
