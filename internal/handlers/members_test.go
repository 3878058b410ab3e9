package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"membership/internal/models"
	"membership/internal/service"
)

func annSessions() *mockSessions {
	return &mockSessions{resolve: map[string]*models.SessionData{
		"good": {Name: "Ann", Email: "ann@x.com"},
	}}
}

func TestMembers_Gate(t *testing.T) {
	r := newTestRouter(&service.Service{Sessions: annSessions()})

	cases := []struct {
		name   string
		cookie *http.Cookie
	}{
		{name: "no cookie"},
		{name: "unknown token", cookie: sessionCookie("stale")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/members", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
				t.Fatalf("expected redirect to /, got %d %q", w.Code, w.Header().Get("Location"))
			}
			if strings.Contains(w.Body.String(), "Hello") {
				t.Fatalf("gated content leaked: %s", w.Body.String())
			}
		})
	}
}

func TestMembers_RendersGreetingAndImage(t *testing.T) {
	h := newTestHandler(&service.Service{Sessions: annSessions()})
	h.pick = func(n int) int {
		if n != len(memberImages) {
			t.Fatalf("pick called with %d, want %d", n, len(memberImages))
		}
		return 2
	}
	r := h.InitRoutes()

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	req.AddCookie(sessionCookie("good"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "Hello, Ann!") {
		t.Fatalf("missing greeting: %s", body)
	}
	if !strings.Contains(body, `src="/images/3.jpg"`) {
		t.Fatalf("expected picked image 3.jpg: %s", body)
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Fatalf("Cache-Control = %q, want no-store", cc)
	}
}

func TestMembers_ImagePickDefaultsInRange(t *testing.T) {
	s := &service.Service{Sessions: annSessions()}
	h := NewHandler(s, nil, CookieOptions{Name: testCookie})
	r := h.InitRoutes()

	seen := map[string]bool{}
	for i := 0; i < 60; i++ {
		req := httptest.NewRequest(http.MethodGet, "/members", nil)
		req.AddCookie(sessionCookie("good"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		for _, img := range memberImages {
			if strings.Contains(w.Body.String(), "/images/"+img) {
				seen[img] = true
			}
		}
	}
	if len(seen) == 0 {
		t.Fatalf("no known image rendered")
	}
}

func TestHome_WelcomeOrGreeting(t *testing.T) {
	r := newTestRouter(&service.Service{Sessions: annSessions()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Welcome!") {
		t.Fatalf("anonymous home: %d %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie("good"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Hello, Ann!") {
		t.Fatalf("signed-in home: %d %s", w.Code, w.Body.String())
	}
}

func TestHome_EscapesDisplayName(t *testing.T) {
	sessions := &mockSessions{resolve: map[string]*models.SessionData{
		"good": {Name: "<script>x</script>", Email: "x@x.com"},
	}}
	r := newTestRouter(&service.Service{Sessions: sessions})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie("good"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if strings.Contains(w.Body.String(), "<script>") {
		t.Fatalf("display name not escaped: %s", w.Body.String())
	}
}

func TestLoadSession_StoreFailureIs500(t *testing.T) {
	sessions := &mockSessions{resolveErr: errors.New("db down")}
	r := newTestRouter(&service.Service{Sessions: sessions})

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	req.AddCookie(sessionCookie("good"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestLogOut(t *testing.T) {
	t.Run("ends session and clears cookie", func(t *testing.T) {
		sessions := annSessions()
		r := newTestRouter(&service.Service{Sessions: sessions})

		req := httptest.NewRequest(http.MethodGet, "/logout", nil)
		req.AddCookie(sessionCookie("good"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
			t.Fatalf("expected redirect home, got %d %q", w.Code, w.Header().Get("Location"))
		}
		if len(sessions.ended) != 1 || sessions.ended[0] != "good" {
			t.Fatalf("expected End(good), got %v", sessions.ended)
		}
		c := findCookie(w.Result(), testCookie)
		if c == nil || c.MaxAge >= 0 {
			t.Fatalf("expected cookie to be expired, got %+v", c)
		}
	})

	t.Run("without session just redirects", func(t *testing.T) {
		sessions := annSessions()
		r := newTestRouter(&service.Service{Sessions: sessions})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout", nil))
		if w.Code != http.StatusFound || len(sessions.ended) != 0 {
			t.Fatalf("status=%d ended=%v", w.Code, sessions.ended)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		sessions := annSessions()
		sessions.endErr = errors.New("db down")
		r := newTestRouter(&service.Service{Sessions: sessions})

		req := httptest.NewRequest(http.MethodGet, "/logout", nil)
		req.AddCookie(sessionCookie("good"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}
