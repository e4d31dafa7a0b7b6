package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type routesHandler struct {
	routes []string
	body   string
}

func (h *routesHandler) Routes() []string { return h.routes }
func (h *routesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(h.body + " " + r.URL.Path))
}

func tagMiddleware(tag string, order *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*order = append(*order, tag)
			next.ServeHTTP(w, r)
		})
	}
}

func TestBasicRouter(t *testing.T) {
	t.Run("catch-all receives unclean paths", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(&routesHandler{routes: []string{"/"}, body: "assets"})

		for _, p := range []string{"/", "/login", "/../secret.txt", "//double", "/a/./b"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("GET %s: expected 200 without redirect, got %d", p, rec.Code)
			}
			if rec.Body.String() != "assets "+p {
				t.Errorf("GET %s: handler saw %q", p, rec.Body.String())
			}
		}
	})

	t.Run("exact routes win over catch-all", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(&routesHandler{routes: []string{"/"}, body: "assets"})
		router.Handler(&routesHandler{routes: []string{"/healthz", "/readyz"}, body: "probe"})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		if !strings.HasPrefix(rec.Body.String(), "probe") {
			t.Errorf("expected probe handler, got %q", rec.Body.String())
		}
	})

	t.Run("method filter", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodPost, "/submit", &routesHandler{body: "ok"})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submit", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/submit", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("no route", func(t *testing.T) {
		var order []string
		router := NewBasicRouter()
		router.Use(tagMiddleware("outer", &order))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nothing", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		if len(order) != 1 {
			t.Errorf("middleware should wrap the not found handler, ran %v", order)
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		router := NewBasicRouter()
		router.Use(tagMiddleware("first", &order), tagMiddleware("second", &order))
		router.Use(tagMiddleware("third", &order))
		router.Handler(&routesHandler{routes: []string{"/"}})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if strings.Join(order, ",") != "first,second,third" {
			t.Errorf("expected first,second,third got %v", order)
		}
	})
}
