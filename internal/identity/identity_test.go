package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSanitizeSessionID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", DefaultSessionIDValue},
		{"tab-1", "tab-1"},
		{"  tab-1  ", "tab-1"},
		{"a b", DefaultSessionIDValue},
		{"ok_id.v1:2", "ok_id.v1:2"},
	}
	for _, tc := range cases {
		if got := sanitizeSessionID(tc.in); got != tc.want {
			t.Errorf("sanitizeSessionID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsValidAnonID(t *testing.T) {
	id, err := generateAnonID()
	if err != nil {
		t.Fatal(err)
	}
	if !isValidAnonID(id) {
		t.Errorf("Generated ID %q failed validation", id)
	}
	for _, bad := range []string{"", "anon_", "anon_XYZ", "user_deadbeef"} {
		if isValidAnonID(bad) {
			t.Errorf("Expected %q to be invalid", bad)
		}
	}
}

func TestMiddleware_SetsIdentity(t *testing.T) {
	var gotUser, gotSession string
	handler := Middleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotSession = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(SessionHeaderName, "tab-9")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !isValidAnonID(gotUser) {
		t.Errorf("Expected generated anon ID, got %q", gotUser)
	}
	if gotSession != "tab-9" {
		t.Errorf("Expected session from header, got %q", gotSession)
	}

	cookieSet := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == AnonCookieName && isValidAnonID(c.Value) {
			cookieSet = true
			if !c.HttpOnly {
				t.Error("Expected HttpOnly cookie")
			}
		}
	}
	if !cookieSet {
		t.Error("Expected anon cookie to be set")
	}
}

func TestMiddleware_ReusesCookie(t *testing.T) {
	var gotUser string
	handler := Middleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
	}))

	id, err := generateAnonID()
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: id})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotUser != id {
		t.Errorf("Expected existing identity %q, got %q", id, gotUser)
	}
}

func TestSessionIDFromQuery(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws/chat?session_id=tab-3", nil)
	if got := sessionIDFromRequest(req); got != "tab-3" {
		t.Errorf("Expected query session ID, got %q", got)
	}
}
