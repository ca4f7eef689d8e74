package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/orderhub/orderhub/internal/apperr"
	"github.com/orderhub/orderhub/internal/model"
)

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/order?offset=5&count=abc", nil)

	if got := queryInt(req, "offset", 0); got != 5 {
		t.Errorf("offset: got %d, want 5", got)
	}
	if got := queryInt(req, "count", 7); got != 7 {
		t.Errorf("unparsable count: got %d, want default 7", got)
	}
	if got := queryInt(req, "missing", 3); got != 3 {
		t.Errorf("missing: got %d, want default 3", got)
	}
}

func TestPathID(t *testing.T) {
	r := chi.NewRouter()
	var gotID int64
	var gotErr error
	r.Get("/order/{id}", func(w http.ResponseWriter, req *http.Request) {
		gotID, gotErr = pathID(req)
	})

	req := httptest.NewRequest("GET", "/order/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	if gotErr != nil || gotID != 42 {
		t.Errorf("got %d, %v", gotID, gotErr)
	}

	req = httptest.NewRequest("GET", "/order/nope", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	if apperr.KindOf(gotErr) != apperr.KindInvalidArgument {
		t.Errorf("non-numeric id: got %v", gotErr)
	}
}

func TestWriteErrorMapsKinds(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for kind, status := range map[apperr.Kind]int{
		apperr.KindUnauthenticated:  http.StatusUnauthorized,
		apperr.KindPermissionDenied: http.StatusForbidden,
		apperr.KindNotFound:         http.StatusNotFound,
		apperr.KindInvalidArgument:  http.StatusBadRequest,
	} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/test", nil)
		writeError(rr, req, logger, apperr.New(kind, "boom"))

		if rr.Code != status {
			t.Errorf("%s: got %d, want %d", kind, rr.Code, status)
		}
		var resp model.ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Error.Kind != string(kind) || resp.Error.Message != "boom" {
			t.Errorf("%s: envelope %+v", kind, resp.Error)
		}
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)

	writeError(rr, req, logger, errors.New("password=hunter2 leaked into error"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d", rr.Code)
	}
	var resp model.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Message != "internal error" {
		t.Errorf("internal detail leaked: %q", resp.Error.Message)
	}
}

func TestWriteErrorKeepsContext(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)

	err := apperr.New(apperr.KindNotFound, "unknown product ids").
		WithContext(map[string]any{"product_ids": []int64{3}})
	writeError(rr, req, logger, err)

	var resp model.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	ids, ok := resp.Error.Context["product_ids"].([]interface{})
	if !ok || len(ids) != 1 {
		t.Errorf("context: got %+v", resp.Error.Context)
	}
}
