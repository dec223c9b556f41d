package tests

import (
	"net/http"
	"strings"
	"testing"
	"time"

	. "github.com/alphauniversity/portal/apps/api/echo"
	"github.com/alphauniversity/portal/core"
	"github.com/alphauniversity/portal/core/user"
	emailsvc "github.com/alphauniversity/portal/services/email"
	testutil "github.com/alphauniversity/portal/tests"
)

func Test_login(t *testing.T) {
	app := setup(t)

	testutil.CreateUser(t, usrRepo, "sarah", "sarah@test.cd", "pwd", true)
	testutil.CreateUser(t, usrRepo, "teacher1", "teacher1@test.cd", "pwd", true)
	testutil.CreateUser(t, usrRepo, "admin1", "admin1@test.cd", "pwd", true)
	testutil.CreateUser(t, usrRepo, "bob", "bob@test.cd", "pwd", true)
	testutil.CreateUser(t, usrRepo, "gone", "gone@test.cd", "pwd", false)

	tests := []httpTest{
		{
			name: "unknown user", wantCode: http.StatusBadRequest,
			body: marchallObj(t, user.NewUser{Username: "lol", Password: "pwd"}),
		},
		{
			name: "wrong password", wantCode: http.StatusBadRequest,
			body: marchallObj(t, user.NewUser{Username: "sarah", Password: "nope"}),
		},
		{
			name: "deactivated account", wantCode: http.StatusBadRequest,
			body: marchallObj(t, user.NewUser{Username: "gone", Password: "pwd"}),
		},
		{
			name: "student lands on the student portal", wantCode: http.StatusFound,
			body:         marchallObj(t, user.NewUser{Username: "sarah", Password: "pwd"}),
			wantLocation: user.StudentHomePath,
		},
		{
			name: "teacher lands on the teacher portal", wantCode: http.StatusFound,
			body:         marchallObj(t, user.NewUser{Username: "teacher1", Password: "pwd"}),
			wantLocation: user.TeacherHomePath,
		},
		{
			name: "admin lands on the admin portal", wantCode: http.StatusFound,
			body:         marchallObj(t, user.NewUser{Username: "admin1", Password: "pwd"}),
			wantLocation: user.AdminHomePath,
		},
		{
			name: "no role prefix lands on the index", wantCode: http.StatusFound,
			body:         marchallObj(t, user.NewUser{Username: "bob", Password: "pwd"}),
			wantLocation: user.IndexPath,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			var sessionSet bool
			for _, cookie := range rec.Result().Cookies() {
				if cookie.Name == SessionCookieName && cookie.Value != "" {
					sessionSet = true
				}
			}
			if wantSession := tt.wantCode == http.StatusFound; sessionSet != wantSession {
				t.Errorf("session cookie set = %v, want %v", sessionSet, wantSession)
			}
		})
	}
}

func Test_loginRemember(t *testing.T) {
	app := setup(t)

	testutil.CreateUser(t, usrRepo, "sarah", "sarah@test.cd", "pwd", true)

	login := func(t *testing.T, remember bool) *http.Cookie {
		body := marchallObj(t, map[string]interface{}{"username": "sarah", "password": "pwd", "remember": remember})
		req, rec := newRequest(http.MethodPost, "/login", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusFound {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusFound)
		}
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == SessionCookieName {
				return cookie
			}
		}
		t.Fatal("session cookie not set")
		return nil
	}

	t.Run("session-scoped by default", func(t *testing.T) {
		if cookie := login(t, false); cookie.MaxAge != 0 {
			t.Errorf("MaxAge = %v, want 0 (session cookie)", cookie.MaxAge)
		}
	})

	t.Run("remember sets a lifetime", func(t *testing.T) {
		want := int(core.Conf.SessionLifetime / time.Second)
		if cookie := login(t, true); cookie.MaxAge != want {
			t.Errorf("MaxAge = %v, want %v", cookie.MaxAge, want)
		}
	})
}

func Test_logout(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "sarah", "sarah@test.cd", "pwd", true)

	req, rec := newAuthRequest(http.MethodGet, "/logout", getToken(t, usr))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("code = %v; want %v", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != user.IndexPath {
		t.Errorf("location = %v; want %v", loc, user.IndexPath)
	}

	var cleared bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie was not cleared")
	}
}

func Test_roleGuards(t *testing.T) {
	app := setup(t)

	student := testutil.CreateUser(t, usrRepo, "sarah", "sarah@test.cd", "pwd", true)
	teacher := testutil.CreateUser(t, usrRepo, "teacher1", "teacher1@test.cd", "pwd", true)
	admin := testutil.CreateUser(t, usrRepo, "admin1", "admin1@test.cd", "pwd", true)
	alex := testutil.CreateUser(t, usrRepo, "alex", "alex@test.cd", "pwd", true)

	tests := []httpTest{
		{
			name: "anonymous is sent to login", path: user.StudentHomePath,
			wantCode: http.StatusFound, wantLocation: "/login",
		},
		{
			name: "student home", path: user.StudentHomePath,
			token: getToken(t, student), wantCode: http.StatusOK,
		},
		{
			name: "student cannot enter the teacher portal", path: user.TeacherHomePath,
			token: getToken(t, student), wantCode: http.StatusForbidden,
		},
		{
			name: "student cannot enter the admin portal", path: user.AdminHomePath,
			token: getToken(t, student), wantCode: http.StatusForbidden,
		},
		{
			name: "teacher home", path: user.TeacherHomePath,
			token: getToken(t, teacher), wantCode: http.StatusOK,
		},
		{
			name: "teacher cannot enter the admin portal", path: user.AdminHomePath,
			token: getToken(t, teacher), wantCode: http.StatusForbidden,
		},
		{
			name: "admin home", path: user.AdminHomePath,
			token: getToken(t, admin), wantCode: http.StatusOK,
		},
		// the admin guard matches any "a" username, not just "admin*"
		{
			name: "loose admin prefix passes the guard", path: user.AdminHomePath,
			token: getToken(t, alex), wantCode: http.StatusOK,
		},
		{
			name: "tampered session is anonymous", path: user.StudentHomePath,
			token: "lol.lol.lol", wantCode: http.StatusFound, wantLocation: "/login",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_passwordResetFlow(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "sarah", "sarah@test.cd", "pwd", true)

	t.Run("unknown email", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"email": "lol@test.cd"})
		req, rec := newRequest(http.MethodPost, "/forgot-password", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("reset form with a bad link", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/reset-password/lol")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusFound {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusFound)
		}
		if loc := rec.Header().Get("Location"); loc != "/forgot-password" {
			t.Errorf("location = %v; want /forgot-password", loc)
		}
	})

	t.Run("reset form with a valid link", func(t *testing.T) {
		token := user.MakeResetToken(usr.Email)
		req, rec := newRequest(http.MethodGet, "/reset-password/"+token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
	})

	t.Run("token for a missing account", func(t *testing.T) {
		token := user.MakeResetToken("ghost@test.cd")
		body := marchallObj(t, map[string]string{"password": "new", "password_confirm": "new"})
		req, rec := newRequest(http.MethodPost, "/reset-password/"+token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusFound {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusFound, rec.Body.String())
		}
		if loc := rec.Header().Get("Location"); loc != "/forgot-password" {
			t.Errorf("location = %v; want /forgot-password", loc)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"password": "new", "password_confirm": "new"})
		req, rec := newRequest(http.MethodPost, "/reset-password/lol", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusFound {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusFound)
		}
		if loc := rec.Header().Get("Location"); loc != "/forgot-password" {
			t.Errorf("location = %v; want /forgot-password", loc)
		}
	})

	t.Run("full flow", func(t *testing.T) {
		emailsvc.ResetSentMessages()

		body := marchallObj(t, map[string]string{"email": usr.Email})
		req, rec := newRequest(http.MethodPost, "/forgot-password", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusFound {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusFound)
		}

		if len(emailsvc.SentMessages) != 1 {
			t.Fatalf("sent %d messages, want 1", len(emailsvc.SentMessages))
		}
		token := extractResetToken(t, emailsvc.SentMessages[0].TextContent)

		body = marchallObj(t, map[string]string{"password": "brand-new", "password_confirm": "brand-new"})
		req, rec = newRequest(http.MethodPost, "/reset-password/"+token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusFound {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusFound, rec.Body.String())
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Errorf("location = %v; want /login", loc)
		}

		// old password is gone, new one works
		body = marchallObj(t, map[string]string{"username": usr.Username, "password": "pwd"})
		req, rec = newRequest(http.MethodPost, "/login", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("login with the old password: code = %v; want %v", rec.Code, http.StatusBadRequest)
		}

		body = marchallObj(t, map[string]string{"username": usr.Username, "password": "brand-new"})
		req, rec = newRequest(http.MethodPost, "/login", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusFound {
			t.Errorf("login with the new password: code = %v; want %v", rec.Code, http.StatusFound)
		}
	})
}

func extractResetToken(t *testing.T, body string) string {
	t.Helper()
	const marker = "/reset-password/"
	idx := strings.Index(body, marker)
	if idx < 0 {
		t.Fatalf("no reset link in body:\n%s", body)
	}
	token := body[idx+len(marker):]
	if end := strings.IndexAny(token, " \n\r"); end >= 0 {
		token = token[:end]
	}
	return token
}

func Test_adminUsers(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "admin1", "admin1@test.cd", "pwd", true)
	student := testutil.CreateUser(t, usrRepo, "sarah", "sarah@test.cd", "pwd", true)

	t.Run("students cannot manage users", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/admin/users", getToken(t, student))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("list users", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/admin/users", getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
	})

	t.Run("add user", func(t *testing.T) {
		body := marchallObj(t, user.NewUser{Username: "tom", Email: "tom@test.cd", Password: "secret"})
		req, rec := newAuthRequest(http.MethodPost, "/admin/add-user", getToken(t, admin), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
	})

	t.Run("duplicate username is a field error", func(t *testing.T) {
		body := marchallObj(t, user.NewUser{Username: student.Username, Email: "other@test.cd", Password: "secret"})
		req, rec := newAuthRequest(http.MethodPost, "/admin/add-user", getToken(t, admin), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("invalid payload is a field error", func(t *testing.T) {
		body := marchallObj(t, user.NewUser{Username: "x y z", Email: "nope", Password: ""})
		req, rec := newAuthRequest(http.MethodPost, "/admin/add-user", getToken(t, admin), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})
}
