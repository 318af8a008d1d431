package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

type testHandler struct {
	routes []string
	body   string
}

func (h *testHandler) Routes() []string { return h.routes }

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, h.body)
}

func TestBasicRouter(t *testing.T) {
	t.Run("handle registers method and path", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "pong")
		}))

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rr.Code != http.StatusOK || rr.Body.String() != "pong" {
			t.Errorf("GET /ping = %d %q", rr.Code, rr.Body.String())
		}

		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST /ping status = %d, want 405", rr.Code)
		}
	})

	t.Run("handler registers all routes", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(&testHandler{routes: []string{"GET /a", "GET /b"}, body: "ok"})

		for _, path := range []string{"/a", "/b"} {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
			if rr.Code != http.StatusOK {
				t.Errorf("GET %s status = %d", path, rr.Code)
			}
		}
	})

	t.Run("middleware wraps in registration order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mw("outer"), mw("inner"))
		router.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

		want := []string{"outer", "inner", "handler"}
		if len(order) != len(want) {
			t.Fatalf("order = %v, want %v", order, want)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Errorf("order[%d] = %v, want %v", i, order[i], want[i])
			}
		}
	})
}
