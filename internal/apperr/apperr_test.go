package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindUnauthenticated:  http.StatusUnauthorized,
		KindPermissionDenied: http.StatusForbidden,
		KindNotFound:         http.StatusNotFound,
		KindInvalidArgument:  http.StatusBadRequest,
		KindInternal:         http.StatusInternalServerError,
		Kind("SOMETHING"):    http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := kind.HTTPStatus(); got != want {
			t.Errorf("%s: got %d, want %d", kind, got, want)
		}
	}
}

func TestIsMatchesByKind(t *testing.T) {
	err := Newf(KindNotFound, "order %d not found", 42)
	if !errors.Is(err, New(KindNotFound, "")) {
		t.Error("expected errors.Is match on same kind")
	}
	if errors.Is(err, New(KindPermissionDenied, "")) {
		t.Error("unexpected errors.Is match across kinds")
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	inner := New(KindPermissionDenied, "unauthorized")
	err := fmt.Errorf("update order: %w", inner)
	if !errors.Is(err, New(KindPermissionDenied, "")) {
		t.Error("expected match through fmt.Errorf wrapping")
	}
	if KindOf(err) != KindPermissionDenied {
		t.Errorf("KindOf: got %s, want %s", KindOf(err), KindPermissionDenied)
	}
}

func TestKindOfUntypedError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Errorf("got %s, want %s", got, KindInternal)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, "commit order")
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Kind != KindInternal {
		t.Errorf("got %s, want %s", err.Kind, KindInternal)
	}
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := New(KindNotFound, "products not found")
	withCtx := base.WithContext(map[string]any{"missing_ids": []int64{3}})
	if base.Context != nil {
		t.Error("original error context should stay nil")
	}
	if withCtx.Context == nil {
		t.Error("copy should carry context")
	}
}
