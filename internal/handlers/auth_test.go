package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"membership/internal/models"
	"membership/internal/service"
)

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSignUp_SuccessStartsSessionAndRedirects(t *testing.T) {
	auth := &mockAuth{signUpData: models.SessionData{Name: "Ann", Email: "ann@x.com"}}
	sessions := &mockSessions{startToken: "tok123"}
	r := newTestRouter(&service.Service{Authorization: auth, Sessions: sessions})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postForm("/signup", url.Values{
		"name":     {"Ann"},
		"email":    {"ann@x.com"},
		"password": {"secret1"},
	}))

	if w.Code != http.StatusFound {
		t.Fatalf("sign-up status=%d, body=%s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/members" {
		t.Fatalf("Location = %q, want /members", loc)
	}
	if auth.lastSignUp != (service.SignUpInput{Name: "Ann", Email: "ann@x.com", Password: "secret1"}) {
		t.Fatalf("unexpected service input: %+v", auth.lastSignUp)
	}
	if len(sessions.started) != 1 || sessions.started[0].Name != "Ann" {
		t.Fatalf("expected a session for Ann, got %+v", sessions.started)
	}
	c := findCookie(w.Result(), testCookie)
	if c == nil || c.Value != "tok123" || !c.HttpOnly {
		t.Fatalf("expected HttpOnly session cookie tok123, got %+v", c)
	}
}

func TestSignUp_Rejections(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		wantCode  int
		wantItems []string
	}{
		{
			name:      "validation problems are itemized",
			err:       &service.ValidationError{Problems: []string{"Name is required", "Email is required", "Password is required"}},
			wantCode:  http.StatusBadRequest,
			wantItems: []string{"Name is required", "Email is required", "Password is required"},
		},
		{
			name:      "duplicate email",
			err:       service.ErrEmailTaken,
			wantCode:  http.StatusBadRequest,
			wantItems: []string{msgEmailTaken},
		},
		{
			name:     "storage failure",
			err:      fmt.Errorf("create user: %w", errors.New("db down")),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessions := &mockSessions{}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{signUpErr: tc.err}, Sessions: sessions})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, postForm("/signup", url.Values{}))

			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d; body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			body := w.Body.String()
			if got := strings.Count(body, "<li>"); got != len(tc.wantItems) {
				t.Fatalf("expected %d list items, got %d; body=%s", len(tc.wantItems), got, body)
			}
			for _, item := range tc.wantItems {
				if !strings.Contains(body, "<li>"+item+"</li>") {
					t.Errorf("body missing item %q", item)
				}
			}
			if strings.Contains(body, "db down") {
				t.Errorf("internal error leaked to client")
			}
			if len(sessions.started) != 0 {
				t.Errorf("no session should be started on rejection")
			}
			if findCookie(w.Result(), testCookie) != nil {
				t.Errorf("no session cookie expected")
			}
		})
	}
}

func TestLogIn_InvalidCredentialsShareOneMessage(t *testing.T) {
	for _, err := range []error{
		service.ErrInvalidCredentials,
		fmt.Errorf("%w: %w", service.ErrInvalidCredentials, service.ErrUserNotFound),
		fmt.Errorf("%w: %w", service.ErrInvalidCredentials, service.ErrIncorrectPassword),
	} {
		t.Run(err.Error(), func(t *testing.T) {
			sessions := &mockSessions{startToken: "tok"}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{logInErr: err}, Sessions: sessions})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, postForm("/login", url.Values{"email": {"ann@x.com"}, "password": {"wrong-pw"}}))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d, want 400", w.Code)
			}
			if !strings.Contains(w.Body.String(), msgInvalidCredentials) {
				t.Fatalf("body missing generic message: %s", w.Body.String())
			}
			if len(sessions.started) != 0 || findCookie(w.Result(), testCookie) != nil {
				t.Fatalf("failed login must not create a session")
			}
		})
	}
}

func TestLogIn_SuccessAndInfraFailure(t *testing.T) {
	auth := &mockAuth{logInData: models.SessionData{Name: "Ann", Email: "ann@x.com"}}
	sessions := &mockSessions{startToken: "tok"}
	r := newTestRouter(&service.Service{Authorization: auth, Sessions: sessions})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postForm("/login", url.Values{"email": {"ann@x.com"}, "password": {"secret1"}}))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/members" {
		t.Fatalf("login: status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
	if auth.lastLogIn.Email != "ann@x.com" || auth.lastLogIn.Password != "secret1" {
		t.Fatalf("unexpected service input: %+v", auth.lastLogIn)
	}

	// session store down while starting the session
	sessions.startErr = errors.New("store down")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, postForm("/login", url.Values{"email": {"ann@x.com"}, "password": {"secret1"}}))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when the session cannot be stored, got %d", w.Code)
	}

	auth.logInErr = errors.New("db down")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, postForm("/login", url.Values{"email": {"ann@x.com"}, "password": {"secret1"}}))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for lookup failure, got %d", w.Code)
	}
}

func TestForms_Render(t *testing.T) {
	r := newTestRouter(&service.Service{})
	for path, marker := range map[string]string{
		"/signup": `action="/signup"`,
		"/login":  `action="/login"`,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s status=%d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), marker) {
			t.Fatalf("GET %s missing form: %s", path, w.Body.String())
		}
	}
}
