package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vnexam/autograde/internal/rbac"
)

func TestCheckerHas(t *testing.T) {
	c := rbac.NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"grader", "grade:run", true},
		{"grader", "correction:record", false},
		{"instructor", "correction:record", true},
		{"instructor", "learning:clear", true},
		{"admin", "learning:clear", true},
		{"", "grade:run", false},
		{"unknown", "grade:run", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Fatalf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestCheckerHasPrefixPattern(t *testing.T) {
	c := rbac.NewChecker(map[string][]string{"auditor": {"learning:*"}})
	if !c.Has("auditor", "learning:view") {
		t.Fatalf("prefix pattern should grant learning:view")
	}
	if c.Has("auditor", "grade:run") {
		t.Fatalf("prefix pattern must not grant grade:run")
	}
}

func TestCheckerAny(t *testing.T) {
	c := rbac.NewChecker(nil)
	if !c.Any("instructor", "learning:view", "correction:record") {
		t.Fatalf("instructor should pass the any check")
	}
	if c.Any("grader", "learning:view", "correction:record") {
		t.Fatalf("grader must fail the any check")
	}
}

func call(t *testing.T, mw func(http.Handler) http.Handler, role string) int {
	t.Helper()
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role != "" {
		req = req.WithContext(rbac.WithRole(req.Context(), role))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRequire(t *testing.T) {
	mw := rbac.Require("grade:run")
	if code := call(t, mw, "grader"); code != http.StatusNoContent {
		t.Fatalf("grader should pass, got %d", code)
	}
	if code := call(t, mw, ""); code != http.StatusForbidden {
		t.Fatalf("missing role should be forbidden, got %d", code)
	}
	mw = rbac.Require("learning:clear")
	if code := call(t, mw, "grader"); code != http.StatusForbidden {
		t.Fatalf("grader must not clear learning state, got %d", code)
	}
}

func TestRequireAny(t *testing.T) {
	mw := rbac.RequireAny("learning:view", "correction:record")
	if code := call(t, mw, "instructor"); code != http.StatusNoContent {
		t.Fatalf("instructor should pass, got %d", code)
	}
	if code := call(t, mw, "admin"); code != http.StatusNoContent {
		t.Fatalf("admin should pass, got %d", code)
	}
	if code := call(t, mw, "grader"); code != http.StatusForbidden {
		t.Fatalf("grader should be forbidden, got %d", code)
	}
}
