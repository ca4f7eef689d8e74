package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orderhub/orderhub/internal/auth"
	"github.com/orderhub/orderhub/internal/model"
	"github.com/orderhub/orderhub/internal/store"
)

const (
	testSecret   = "test-secret-for-integration-tests"
	testIssuer   = "https://issuer.example"
	testAudience = "orderhub"
)

// testEnv holds the shared state for integration tests.
type testEnv struct {
	server *Server
	store  *store.Store
}

// newTestEnv creates a fresh environment with an in-memory store and a fully
// wired Server.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := store.Open(store.DriverSQLite, "")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	validator, err := auth.NewValidator(auth.Config{
		Secret:   testSecret,
		Issuer:   testIssuer,
		Audience: testAudience,
	})
	if err != nil {
		t.Fatalf("auth.NewValidator: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := DefaultConfig()
	cfg.RequestsPerMinute = 0 // keep tests independent of the limiter
	return &testEnv{
		server: New(cfg, s, validator, logger),
		store:  s,
	}
}

func (e *testEnv) token(t *testing.T, subject int64, roles ...string) string {
	t.Helper()
	token, err := auth.Mint(auth.MintInput{
		Subject:  subject,
		Roles:    roles,
		Issuer:   testIssuer,
		Audience: testAudience,
	}, testSecret)
	if err != nil {
		t.Fatalf("auth.Mint: %v", err)
	}
	return token
}

// do performs a request against the server and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

func decodeOrder(t *testing.T, rr *httptest.ResponseRecorder) model.Order {
	t.Helper()
	var order model.Order
	if err := json.Unmarshal(rr.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode order: %v (%s)", err, rr.Body.String())
	}
	return order
}

func decodeErrorKind(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp model.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v (%s)", err, rr.Body.String())
	}
	return resp.Error.Kind
}

func orderBody(owner *int64) map[string]interface{} {
	body := map[string]interface{}{
		"customer": "ACME",
		"address": map[string]string{
			"street":       "1 Main St",
			"zip_code":     "10001",
			"country_code": "US",
		},
	}
	if owner != nil {
		body["owner"] = *owner
	}
	return body
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := env.do(t, "GET", path, "", nil)
		if rr.Code != http.StatusOK {
			t.Errorf("%s: got %d", path, rr.Code)
		}
	}
}

func TestOpenAPIServed(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/openapi.json", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc["openapi"] != "3.1.0" {
		t.Errorf("openapi: got %v", doc["openapi"])
	}
}

func TestAnonymousListIsForbidden(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/v1/order", "", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	if kind := decodeErrorKind(t, rr); kind != "PERMISSION_DENIED" {
		t.Errorf("kind: got %q", kind)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/v1/order", "garbage", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("got %d", rr.Code)
	}
	if kind := decodeErrorKind(t, rr); kind != "UNAUTHENTICATED" {
		t.Errorf("kind: got %q", kind)
	}
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, 5, "CreateOrder", "GetOrder", "UpdateOrder", "DeleteOrder")

	// Create
	rr := env.do(t, "POST", "/api/v1/order", token, orderBody(nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d: %s", rr.Code, rr.Body.String())
	}
	created := decodeOrder(t, rr)
	if created.ID == 0 || created.UserID != 5 {
		t.Fatalf("created: %+v", created)
	}

	// Get
	rr = env.do(t, "GET", fmt.Sprintf("/api/v1/order/%d", created.ID), token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get: got %d", rr.Code)
	}

	// List
	rr = env.do(t, "GET", "/api/v1/order?offset=-1&count=0", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: got %d", rr.Code)
	}
	var page model.OrderPage
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Offset != 0 || page.Count != 10 || page.Total != 1 {
		t.Errorf("page: %+v", page)
	}

	// Update
	rr = env.do(t, "PUT", fmt.Sprintf("/api/v1/order/%d", created.ID), token,
		map[string]interface{}{"customer": "Globex"})
	if rr.Code != http.StatusOK {
		t.Fatalf("update: got %d: %s", rr.Code, rr.Body.String())
	}
	if updated := decodeOrder(t, rr); updated.Customer != "Globex" {
		t.Errorf("update: %+v", updated)
	}

	// Delete, then the order is gone
	rr = env.do(t, "DELETE", fmt.Sprintf("/api/v1/order/%d", created.ID), token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: got %d", rr.Code)
	}
	rr = env.do(t, "GET", fmt.Sprintf("/api/v1/order/%d", created.ID), token, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d", rr.Code)
	}
}

func TestCreateRejectsIncompleteAddress(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, 5, "CreateOrder")

	body := orderBody(nil)
	body["address"] = map[string]string{"street": "1 Main St", "country_code": "US"}
	rr := env.do(t, "POST", "/api/v1/order", token, body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d: %s", rr.Code, rr.Body.String())
	}
	if kind := decodeErrorKind(t, rr); kind != "INVALID_ARGUMENT" {
		t.Errorf("kind: got %q", kind)
	}

	// The rejected create must not have written anything.
	total, err := env.store.CountOrders(context.Background(), []int64{5})
	if err != nil {
		t.Fatalf("CountOrders: %v", err)
	}
	if total != 0 {
		t.Errorf("rejected create persisted %d orders", total)
	}
}

func TestDeleteDistinguishesStatuses(t *testing.T) {
	env := newTestEnv(t)

	// An order owned by someone else.
	ownerToken := env.token(t, 7, "CreateOrder")
	rr := env.do(t, "POST", "/api/v1/order", ownerToken, orderBody(nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rr.Code)
	}
	created := decodeOrder(t, rr)

	token := env.token(t, 5, "DeleteOrder")
	rr = env.do(t, "DELETE", "/api/v1/order/424242", token, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("absent order: got %d", rr.Code)
	}
	rr = env.do(t, "DELETE", fmt.Sprintf("/api/v1/order/%d", created.ID), token, nil)
	if rr.Code != http.StatusForbidden {
		t.Errorf("foreign order: got %d", rr.Code)
	}
}

func TestDelegatedAccessOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	ownerToken := env.token(t, 7, "CreateOrder")
	rr := env.do(t, "POST", "/api/v1/order", ownerToken, orderBody(nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rr.Code)
	}
	created := decodeOrder(t, rr)

	delegate := env.token(t, 5, "7/GetOrder")
	rr = env.do(t, "GET", fmt.Sprintf("/api/v1/order/%d", created.ID), delegate, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("delegate get: got %d: %s", rr.Code, rr.Body.String())
	}

	stranger := env.token(t, 9, "GetOrder")
	rr = env.do(t, "GET", fmt.Sprintf("/api/v1/order/%d", created.ID), stranger, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("stranger get: got %d", rr.Code)
	}
}

func TestProductEndpoints(t *testing.T) {
	env := newTestEnv(t)
	p := model.Product{Name: "Widget", Description: "A widget"}
	if err := env.store.CreateProduct(context.Background(), &p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	rr := env.do(t, "GET", "/api/v1/product", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: got %d", rr.Code)
	}
	var products []model.Product
	if err := json.Unmarshal(rr.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Widget" {
		t.Errorf("products: %+v", products)
	}

	rr = env.do(t, "GET", fmt.Sprintf("/api/v1/product/%d", p.ID), "", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("get: got %d", rr.Code)
	}
	rr = env.do(t, "GET", "/api/v1/product/999", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing product: got %d", rr.Code)
	}
}

func TestRequestIDOnResponses(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/healthz", "", nil)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}
