package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	portssvc "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_transfer_engine/internal/handlers"
	"github.com/SscSPs/ledger_transfer_engine/internal/platform/config"
	"github.com/SscSPs/ledger_transfer_engine/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoutes_CountsUnauthorizedRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cfg := &config.Config{JWTSecret: jwtSecret, IsProduction: true}
	services := &portssvc.ServiceContainer{
		Account:  new(MockAccountService),
		Transfer: new(MockTransferService),
		Ledger:   new(MockLedgerService),
	}
	require.NoError(t, handlers.RegisterRoutes(router, cfg, services))

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/api/v1/transfers", "401")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
