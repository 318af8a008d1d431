package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/shared"
)

// withCookies copies the recorder's Set-Cookie headers onto a fresh request.
func withCookies(t *testing.T, rr *httptest.ResponseRecorder, path string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range rr.Result().Cookies() {
		req.AddCookie(cookie)
	}
	return req
}

func TestSessionsToken(t *testing.T) {
	sessions := NewSessions("test-secret", "test-session")

	t.Run("absent token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if _, err := sessions.Token(req); !errors.Is(err, shared.ErrNoToken) {
			t.Errorf("Token() error = %v, want ErrNoToken", err)
		}
	})

	t.Run("roundtrip", func(t *testing.T) {
		record := models.TokenRecord{
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresAt:    1234567890,
		}

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if err := sessions.SetToken(rr, req, record); err != nil {
			t.Fatalf("SetToken() error = %v", err)
		}

		got, err := sessions.Token(withCookies(t, rr, "/"))
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if got != record {
			t.Errorf("Token() = %+v, want %+v", got, record)
		}
	})

	t.Run("overwrite replaces the record", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if err := sessions.SetToken(rr, req, models.TokenRecord{AccessToken: "first"}); err != nil {
			t.Fatal(err)
		}

		req2 := withCookies(t, rr, "/")
		rr2 := httptest.NewRecorder()
		if err := sessions.SetToken(rr2, req2, models.TokenRecord{AccessToken: "second"}); err != nil {
			t.Fatal(err)
		}

		got, err := sessions.Token(withCookies(t, rr2, "/"))
		if err != nil {
			t.Fatalf("Token() error = %v", err)
		}
		if got.AccessToken != "second" {
			t.Errorf("AccessToken = %v, want second", got.AccessToken)
		}
	})

	t.Run("undecodable cookie acts as empty session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "test-session", Value: "garbage"})

		if _, err := sessions.Token(req); !errors.Is(err, shared.ErrNoToken) {
			t.Errorf("Token() error = %v, want ErrNoToken", err)
		}
	})
}

func TestSessionsTitles(t *testing.T) {
	sessions := NewSessions("test-secret", "test-session")

	t.Run("absent titles", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if titles := sessions.Titles(req); titles != nil {
			t.Errorf("Titles() = %v, want nil", titles)
		}
	})

	t.Run("roundtrip preserves order", func(t *testing.T) {
		want := []string{"First ", "Second", "Third "}

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if err := sessions.SetTitles(rr, req, want); err != nil {
			t.Fatalf("SetTitles() error = %v", err)
		}

		got := sessions.Titles(withCookies(t, rr, "/"))
		if len(got) != len(want) {
			t.Fatalf("Titles() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Titles()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})
}
