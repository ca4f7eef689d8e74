package openapi

import (
	"encoding/json"
	"testing"
)

func TestGenerateCoversAllRoutes(t *testing.T) {
	doc := Generate("http://localhost:8080", "test")

	for _, path := range []string{
		"/api/v1/order",
		"/api/v1/order/{id}",
		"/api/v1/product",
		"/api/v1/product/{id}",
	} {
		if doc.Paths.Find(path) == nil {
			t.Errorf("missing path %s", path)
		}
	}

	orderItem := doc.Paths.Find("/api/v1/order/{id}")
	if orderItem.Get == nil || orderItem.Put == nil || orderItem.Delete == nil {
		t.Error("order item path must expose GET, PUT and DELETE")
	}
	listItem := doc.Paths.Find("/api/v1/order")
	if listItem.Get == nil || listItem.Post == nil {
		t.Error("order collection path must expose GET and POST")
	}
}

func TestGenerateRegistersSchemas(t *testing.T) {
	doc := Generate("http://localhost:8080", "test")

	for _, name := range []string{
		"Order", "OrderPage", "Address", "Product",
		"CreateOrderRequest", "UpdateOrderRequest", "ErrorResponse",
	} {
		if _, ok := doc.Components.Schemas[name]; !ok {
			t.Errorf("missing component schema %s", name)
		}
	}
}

func TestGenerateMarshalsToJSON(t *testing.T) {
	doc := Generate("http://localhost:8080", "1.2.3")

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if decoded["openapi"] != "3.1.0" {
		t.Errorf("openapi version: got %v", decoded["openapi"])
	}
	info, _ := decoded["info"].(map[string]interface{})
	if info == nil || info["version"] != "1.2.3" {
		t.Errorf("info.version: got %v", decoded["info"])
	}
}
