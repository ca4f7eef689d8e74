package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/orderhub/orderhub/internal/auth"
	"github.com/orderhub/orderhub/internal/model"
	"github.com/orderhub/orderhub/internal/store"
)

const (
	testSecret   = "mcp-test-secret"
	testIssuer   = "https://issuer.example"
	testAudience = "orderhub"
)

func newTestServer(t *testing.T, subject int64, roles ...string) (*MCPServer, *store.Store) {
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

	var token string
	if subject != 0 {
		token, err = auth.Mint(auth.MintInput{
			Subject:  subject,
			Roles:    roles,
			Issuer:   testIssuer,
			Audience: testAudience,
		}, testSecret)
		if err != nil {
			t.Fatalf("auth.Mint: %v", err)
		}
	}

	srv := NewMCPServer(Config{
		Store:     s,
		Validator: validator,
		Token:     token,
		BaseURL:   "http://localhost:8080",
		Version:   "test",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return srv, s
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}

func TestCreateAndListOrdersTools(t *testing.T) {
	srv, _ := newTestServer(t, 5, "CreateOrder", "GetOrder")

	result, err := srv.handleCreateOrder(context.Background(), toolRequest(map[string]interface{}{
		"customer":     "ACME",
		"street":       "1 Main St",
		"zip_code":     "10001",
		"country_code": "US",
	}))
	if err != nil {
		t.Fatalf("handleCreateOrder: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", resultText(t, result))
	}
	var created model.Order
	if err := json.Unmarshal([]byte(resultText(t, result)), &created); err != nil {
		t.Fatalf("decode created order: %v", err)
	}
	if created.UserID != 5 {
		t.Errorf("owner: got %d, want 5", created.UserID)
	}

	result, err = srv.handleListOrders(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handleListOrders: %v", err)
	}
	var page model.OrderPage
	if err := json.Unmarshal([]byte(resultText(t, result)), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 1 || page.Count != 10 {
		t.Errorf("page: %+v", page)
	}
}

func TestGetOrderToolHonorsOwnership(t *testing.T) {
	srv, s := newTestServer(t, 5, "GetOrder")

	// An order owned by user 7, seeded out of band.
	foreign := &model.Order{
		UserID:    7,
		Customer:  "ACME",
		CreatedBy: 7,
		CreatedAt: time.Now().UTC(),
		Address:   model.Address{Street: "1 Main St", ZipCode: "10001", CountryCode: "US"},
	}
	if err := s.CreateOrder(context.Background(), foreign); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	result, err := srv.handleGetOrder(context.Background(), toolRequest(map[string]interface{}{
		"id": float64(foreign.ID),
	}))
	if err != nil {
		t.Fatalf("handleGetOrder: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for an order outside the credential's grants")
	}
	if !strings.Contains(resultText(t, result), "not found") {
		t.Errorf("error text: %s", resultText(t, result))
	}
}

func TestCreateOrderToolRequiresCustomer(t *testing.T) {
	srv, _ := newTestServer(t, 5, "CreateOrder")

	result, err := srv.handleCreateOrder(context.Background(), toolRequest(map[string]interface{}{
		"street":       "1 Main St",
		"zip_code":     "10001",
		"country_code": "US",
	}))
	if err != nil {
		t.Fatalf("handleCreateOrder: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for missing customer")
	}
}

func TestAnonymousCredentialHasNoAccess(t *testing.T) {
	srv, _ := newTestServer(t, 0)

	result, err := srv.handleListOrders(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handleListOrders: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error without a credential")
	}
}

func TestListProductsTool(t *testing.T) {
	srv, s := newTestServer(t, 5, "GetOrder")
	p := model.Product{Name: "Widget", Description: "A widget"}
	if err := s.CreateProduct(context.Background(), &p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	result, err := srv.handleListProducts(context.Background(), toolRequest(nil))
	if err != nil {
		t.Fatalf("handleListProducts: %v", err)
	}
	var products []model.Product
	if err := json.Unmarshal([]byte(resultText(t, result)), &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Widget" {
		t.Errorf("products: %+v", products)
	}
}

func TestInt64SliceArg(t *testing.T) {
	req := toolRequest(map[string]interface{}{
		"product_ids": []interface{}{float64(1), float64(2), "x"},
	})
	got := int64SliceArg(req, "product_ids")
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v", got)
	}
	if int64SliceArg(req, "missing") != nil {
		t.Error("missing key should yield nil")
	}
}
