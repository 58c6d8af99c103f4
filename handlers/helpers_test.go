package handlers

import (
	"CareClinic/services"
	"CareClinic/utils"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuth authenticates every request carrying a session cookie as actor.
type fakeAuth struct {
	actor services.Actor
}

func (f fakeAuth) Authenticate(ctx context.Context, token string) (*services.Session, error) {
	return &services.Session{ID: "test-session", Actor: f.actor}, nil
}

func serve(router *gin.Engine, method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: "token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// flashesOf decodes the flash cookie set on the response.
func flashesOf(t *testing.T, rec *httptest.ResponseRecorder) []utils.Flash {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name != utils.FlashCookie || cookie.Value == "" {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
		if err != nil {
			t.Fatalf("Failed to decode flash cookie: %v", err)
		}
		var flashes []utils.Flash
		if err := json.Unmarshal(raw, &flashes); err != nil {
			t.Fatalf("Failed to parse flash cookie: %v", err)
		}
		return flashes
	}
	return nil
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location, level, message string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %s, got %s", location, got)
	}
	flashes := flashesOf(t, rec)
	if len(flashes) != 1 || flashes[0].Level != level || flashes[0].Message != message {
		t.Errorf("Expected %s flash %q, got %+v", level, message, flashes)
	}
}

func TestFail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		location string
		message  string
	}{
		{"forbidden", &services.ForbiddenError{Message: "No access."}, http.StatusFound, DashboardPath, "No access."},
		{"transition", &services.TransitionError{From: "cancelled", To: "confirmed"}, http.StatusFound, DashboardPath, "An appointment that is cancelled cannot be changed to confirmed."},
		{"input", &services.InputError{Message: "Bad input."}, http.StatusFound, "/back/", "Bad input."},
		{"fields", validation.Errors{"reason": errors.New("cannot be blank")}, http.StatusFound, "/back/", "reason: cannot be blank."},
		{"slot taken", services.ErrSlotTaken, http.StatusFound, "/back/", "This time slot is already booked. Please choose another time."},
		{"reset locked", services.ErrTooManyResetAttempts, http.StatusFound, "/back/", "Too many reset attempts. Please try again later."},
		{"profile missing", services.ErrProfileMissing, http.StatusFound, DashboardPath, ""},
		{"not found", services.ErrNotFound, http.StatusNotFound, "", ""},
		{"unexpected", errors.New("db down"), http.StatusInternalServerError, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/", func(c *gin.Context) { fail(c, tt.err, "/back/") })
			rec := serve(router, http.MethodGet, "/", nil)

			if rec.Code != tt.status {
				t.Fatalf("Expected status %d, got %d", tt.status, rec.Code)
			}
			if tt.location != "" && rec.Header().Get("Location") != tt.location {
				t.Errorf("Expected redirect to %s, got %s", tt.location, rec.Header().Get("Location"))
			}
			flashes := flashesOf(t, rec)
			if tt.message == "" && len(flashes) != 0 {
				t.Errorf("Expected no flash, got %+v", flashes)
			}
			if tt.message != "" && (len(flashes) != 1 || flashes[0].Message != tt.message) {
				t.Errorf("Expected flash %q, got %+v", tt.message, flashes)
			}
		})
	}
}

func TestRender_PopsFlashes(t *testing.T) {
	router := gin.New()
	router.GET("/flash", func(c *gin.Context) {
		utils.AddFlash(c, utils.FlashSuccess, "Saved.")
		utils.AddFlash(c, utils.FlashInfo, "Check your inbox.")
		c.Status(http.StatusNoContent)
	})
	router.GET("/view", func(c *gin.Context) { render(c, gin.H{"page": "view"}) })

	first := serve(router, http.MethodGet, "/flash", nil)
	var cookie *http.Cookie
	for _, ck := range first.Result().Cookies() {
		if ck.Name == utils.FlashCookie {
			cookie = ck
		}
	}
	if cookie == nil {
		t.Fatal("Expected a flash cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/view", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body struct {
		Page    string        `json:"page"`
		Flashes []utils.Flash `json:"flashes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body.Page != "view" || len(body.Flashes) != 2 || body.Flashes[1].Message != "Check your inbox." {
		t.Errorf("Expected both flashes in order, got %+v", body)
	}
	cleared := false
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == utils.FlashCookie && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("Expected the flash cookie to be cleared")
	}
}

func TestParseID(t *testing.T) {
	router := gin.New()
	router.GET("/items/:id/", func(c *gin.Context) {
		if id, ok := parseID(c, "id"); ok {
			c.JSON(http.StatusOK, gin.H{"id": id})
		}
	})

	for target, want := range map[string]int{
		"/items/7/":   http.StatusOK,
		"/items/0/":   http.StatusBadRequest,
		"/items/abc/": http.StatusBadRequest,
	} {
		if rec := serve(router, http.MethodGet, target, nil); rec.Code != want {
			t.Errorf("%s: expected status %d, got %d", target, want, rec.Code)
		}
	}
}

func ctxBG() context.Context {
	return context.Background()
}

func recorder(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
