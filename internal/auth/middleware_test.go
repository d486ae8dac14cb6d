package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware(t *testing.T) {
	valid, err := Issue(testSecret, TokenRequest{Subject: "u1", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("identity missing from context")
		}
		seen = id.Label()
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name   string
		header string
		opts   []GateOption
		want   int
	}{
		{"valid", "Bearer " + valid, nil, http.StatusNoContent},
		{"lowercase scheme", "bearer " + valid, nil, http.StatusNoContent},
		{"missing", "", nil, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", nil, http.StatusUnauthorized},
		{"empty token", "Bearer   ", nil, http.StatusUnauthorized},
		{"garbage", "Bearer garbage", nil, http.StatusForbidden},
		{"garbage with 401 gate", "Bearer garbage", []GateOption{RejectInvalidWith(http.StatusUnauthorized)}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = ""
			h := Middleware(NewJWTVerifier(testSecret), tc.opts...)(next)
			req := httptest.NewRequest(http.MethodPost, "/api/score", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
			if tc.want == http.StatusNoContent && seen != "bob@example.com" {
				t.Fatalf("expected email label, got %q", seen)
			}
			if tc.want != http.StatusNoContent && seen != "" {
				t.Fatalf("handler must not run on rejection")
			}
		})
	}
}
