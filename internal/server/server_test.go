package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"evcharge-be/internal/bootstrap"
	"evcharge-be/internal/config"
	"evcharge-be/internal/dto"
	"evcharge-be/internal/pkg/idempotency"
	"evcharge-be/internal/pkg/serverutils"
	"evcharge-be/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type harness struct {
	app        *fiber.App
	adminToken string
}

func testConfig(t *testing.T, burst int) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogFilePath:        filepath.Join(t.TempDir(), "app.log"),
			CorsAllowedOrigins: "http://localhost:5173",
			StorageDriver:      "memory",
		},
		Auth:        config.AuthConfig{JwtSecret: testSecret},
		Ledger:      config.LedgerConfig{ExpirySweepInterval: time.Hour, ExpiringSoonDays: 7},
		RateLimit:   config.RateLimitConfig{AdminPerSecond: 0.001, AdminBurst: burst},
		Idempotency: config.IdempotencyConfig{TTL: time.Hour},
	}
}

func newHarnessWith(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	container := bootstrap.NewContainer(nil, cfg)
	t.Cleanup(container.Close)

	return &harness{
		app:        server.New(cfg, container).GetApp(),
		adminToken: token(t, serverutils.Actor{Id: "admin-1", Role: serverutils.RoleAdmin}),
	}
}

func newHarness(t *testing.T, burst int) *harness {
	t.Helper()
	return newHarnessWith(t, testConfig(t, burst))
}

func token(t *testing.T, actor serverutils.Actor) string {
	t.Helper()
	tok, err := serverutils.IssueToken(testSecret, actor, time.Hour)
	require.NoError(t, err)
	return tok
}

func (h *harness) do(t *testing.T, method, path, tok string, body interface{}, headers ...string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) serverutils.BaseResponse[T] {
	t.Helper()
	defer resp.Body.Close()
	var out serverutils.BaseResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (h *harness) registerVendor(t *testing.T, name string) uuid.UUID {
	t.Helper()
	resp := h.do(t, http.MethodPost, "/api/admin/vendors", h.adminToken, dto.RegisterVendorRequest{
		BusinessName: name,
		Email:        "ops-" + uuid.NewString()[:8] + "@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.VendorRegistrationResponse](t, resp).Data.Vendor.Id
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, 100)

	resp := h.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWildcardOriginServesWithoutCredentials(t *testing.T) {
	cfg := testConfig(t, 100)
	cfg.App.CorsAllowedOrigins = "*"

	var h *harness
	require.NotPanics(t, func() { h = newHarnessWith(t, cfg) })

	resp := h.do(t, http.MethodGet, "/healthz", "", nil, fiber.HeaderOrigin, "http://dashboard.example.com")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
}

func TestConfiguredOriginAllowsCredentials(t *testing.T) {
	h := newHarness(t, 100)

	resp := h.do(t, http.MethodGet, "/healthz", "", nil, fiber.HeaderOrigin, "http://localhost:5173")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", resp.Header.Get(fiber.HeaderAccessControlAllowCredentials))
}

func TestMetricsEndpointExposesLedgerCounters(t *testing.T) {
	h := newHarness(t, 100)

	resp := h.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "evcharge_bookings_credited_total")
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	h := newHarness(t, 100)

	resp := h.do(t, http.MethodGet, "/api/admin/vendors", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = h.do(t, http.MethodGet, "/api/admin/vendors", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	vendorTok := token(t, serverutils.Actor{Id: "vendor-1", Role: serverutils.RoleVendor, VendorId: uuid.New()})
	resp = h.do(t, http.MethodGet, "/api/admin/vendors", vendorTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestValidationErrorsAreUnprocessable(t *testing.T) {
	h := newHarness(t, 100)

	resp := h.do(t, http.MethodPost, "/api/admin/vendors", h.adminToken, dto.RegisterVendorRequest{
		BusinessName: "Volt Hub",
		Email:        "not-an-email",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[any](t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, "VALIDATION", body.Kind)
}

func TestUnknownVendorIsNotFound(t *testing.T) {
	h := newHarness(t, 100)

	resp := h.do(t, http.MethodGet, "/api/admin/vendors/"+uuid.NewString(), h.adminToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[any](t, resp).Kind)
}

func TestSettlementLifecycleOverHTTP(t *testing.T) {
	h := newHarness(t, 100)
	vendorId := h.registerVendor(t, "Volt Hub")
	vendorPath := "/api/admin/vendors/" + vendorId.String()

	resp := h.do(t, http.MethodPut, vendorPath+"/bank-details", h.adminToken, dto.BankDetailsRequest{
		AccountName:   "Volt Hub",
		AccountNumber: "12345678",
		BankName:      "First Bank",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.do(t, http.MethodPost, "/api/admin/bookings", h.adminToken, dto.RecordBookingRequest{
		BookingId:   uuid.New(),
		VendorId:    vendorId,
		FinalAmount: decimal.RequireFromString("80.25"),
		CompletedAt: time.Now().UTC().Add(-time.Hour),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	daily := decode[dto.DailySettlementResponse](t, resp).Data
	assert.True(t, daily.PendingSettlement.Equal(decimal.RequireFromString("80.25")))

	initiate := dto.InitiateSettlementRequest{
		VendorId: vendorId,
		Date:     daily.Date,
		Amount:   decimal.RequireFromString("80.25"),
	}
	resp = h.do(t, http.MethodPost, "/api/admin/settlements", h.adminToken, initiate)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	started := decode[dto.SettlementResultResponse](t, resp).Data
	assert.Equal(t, "processing", started.Request.Status)
	assert.True(t, started.Ledger.PendingSettlement.IsZero())

	resp = h.do(t, http.MethodPost, "/api/admin/settlements", h.adminToken, initiate)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SETTLEMENT_ALREADY_IN_PROGRESS", decode[any](t, resp).Kind)

	resp = h.do(t, http.MethodPost, "/api/admin/settlements/"+started.Request.Id.String()+"/complete", h.adminToken,
		dto.CompleteSettlementRequest{PaymentReference: "TRX-0001"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	done := decode[dto.SettlementResultResponse](t, resp).Data
	assert.Equal(t, "completed", done.Request.Status)

	resp = h.do(t, http.MethodGet, vendorPath+"/settlements/"+daily.Date, h.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[dto.DailySettlementResponse](t, resp).Data
	assert.True(t, view.PaymentSettled.Equal(decimal.RequireFromString("80.25")))
	assert.True(t, view.InSettlementProcess.IsZero())
}

func TestExtendRejectsOversizedDuration(t *testing.T) {
	h := newHarness(t, 100)
	vendorId := h.registerVendor(t, "Long Haul")

	resp := h.do(t, http.MethodPost, "/api/admin/vendors/"+vendorId.String()+"/subscription/extend", h.adminToken,
		dto.ExtendVendorSubscriptionRequest{Years: 300, Reason: "long contract"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[any](t, resp).Kind)

	resp = h.do(t, http.MethodPost, "/api/admin/vendors/"+vendorId.String()+"/subscription/extend", h.adminToken,
		dto.ExtendVendorSubscriptionRequest{Years: 10, Reason: "long contract"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sub := decode[dto.VendorSubscriptionResponse](t, resp).Data
	assert.True(t, sub.EndDate.After(sub.StartDate))
}

func TestLicensingHidesOtherVendors(t *testing.T) {
	h := newHarness(t, 100)
	own := h.registerVendor(t, "Own Vendor")
	other := h.registerVendor(t, "Other Vendor")
	vendorTok := token(t, serverutils.Actor{Id: "vendor-1", Role: serverutils.RoleVendor, VendorId: own})

	resp := h.do(t, http.MethodGet, "/api/licensing/vendors/"+own.String()+"/subscription", vendorTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sub := decode[dto.VendorSubscriptionResponse](t, resp).Data
	assert.Equal(t, own, sub.VendorId)

	resp = h.do(t, http.MethodGet, "/api/licensing/vendors/"+other.String()+"/subscription", vendorTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = h.do(t, http.MethodGet, "/api/licensing/vendors/"+other.String()+"/subscription", h.adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIdempotencyKeyReplaysFirstResponse(t *testing.T) {
	h := newHarness(t, 100)
	req := dto.RegisterVendorRequest{BusinessName: "Replay Co", Email: "replay@example.com"}

	first := h.do(t, http.MethodPost, "/api/admin/vendors", h.adminToken, req, idempotency.HeaderKey, "reg-1")
	require.Equal(t, http.StatusCreated, first.StatusCode)
	firstId := decode[dto.VendorRegistrationResponse](t, first).Data.Vendor.Id

	second := h.do(t, http.MethodPost, "/api/admin/vendors", h.adminToken, req, idempotency.HeaderKey, "reg-1")
	require.Equal(t, http.StatusCreated, second.StatusCode)
	assert.Equal(t, "true", second.Header.Get(idempotency.HeaderReplayed))
	assert.Equal(t, firstId, decode[dto.VendorRegistrationResponse](t, second).Data.Vendor.Id)

	// Without the key the duplicate e-mail is rejected.
	third := h.do(t, http.MethodPost, "/api/admin/vendors", h.adminToken, req)
	assert.Equal(t, http.StatusConflict, third.StatusCode)
}

func TestAdminWritesAreRateLimited(t *testing.T) {
	h := newHarness(t, 2)

	for i := 0; i < 2; i++ {
		resp := h.do(t, http.MethodPost, "/api/admin/vendors", h.adminToken, dto.RegisterVendorRequest{
			BusinessName: "Burst Co",
			Email:        "burst-" + uuid.NewString()[:8] + "@example.com",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := h.do(t, http.MethodPost, "/api/admin/vendors", h.adminToken, dto.RegisterVendorRequest{
		BusinessName: "Burst Co",
		Email:        "burst-last@example.com",
	})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Reads are not limited.
	resp = h.do(t, http.MethodGet, "/api/admin/vendors", h.adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
