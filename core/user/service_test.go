package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/alphauniversity/portal/core"
	"github.com/alphauniversity/portal/core/user"
	emailsvc "github.com/alphauniversity/portal/services/email"
	"github.com/alphauniversity/portal/storage/database/inmemdb"
	testutil "github.com/alphauniversity/portal/tests"
)

func setup(t *testing.T) (user.Service, user.Repository) {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	repo := inmemdb.NewUserRepository(db)
	svc := user.NewService(repo, emailsvc.NewConsoleServiceMock(core.Conf), core.Conf)
	emailsvc.ResetSentMessages()
	return svc, repo
}

func TestService_Create(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	existing := testutil.CreateUser(t, repo, "sarah", "sarah@test.cd", "pwd", true)

	t.Run("ok", func(t *testing.T) {
		usr, err := svc.Create(ctx, user.NewUser{Username: "tom", Email: "tom@test.cd", Password: "secret"})
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if usr.ID == 0 {
			t.Error("Create() did not assign an id")
		}
		if !usr.IsActive {
			t.Error("Create() user should be active")
		}
		if err := usr.CheckPassword("secret"); err != nil {
			t.Errorf("CheckPassword() failed: %v", err)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Create(ctx, user.NewUser{Username: existing.Username, Email: "other@test.cd", Password: "secret"})
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Create() error = %v, want *core.ValidationError", err)
		}
		if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "username" {
			t.Errorf("Create() fields = %+v, want username error", vErr.Fields)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Create(ctx, user.NewUser{Username: "other", Email: existing.Email, Password: "secret"})
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Create() error = %v, want *core.ValidationError", err)
		}
		if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "email" {
			t.Errorf("Create() fields = %+v, want email error", vErr.Fields)
		}
	})
}

func TestService_Authenticate(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	testutil.CreateUser(t, repo, "sarah", "sarah@test.cd", "pwd", true)
	testutil.CreateUser(t, repo, "gone", "gone@test.cd", "pwd", false)

	tests := []struct {
		name    string
		uname   string
		pwd     string
		wantErr error
	}{
		{name: "ok", uname: "sarah", pwd: "pwd"},
		{name: "unknown user", uname: "lol", pwd: "pwd", wantErr: user.ErrAuthFailed},
		{name: "wrong password", uname: "sarah", pwd: "nope", wantErr: user.ErrAuthFailed},
		{name: "deactivated account", uname: "gone", pwd: "pwd", wantErr: user.ErrAccountDeactivated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tt.uname, tt.pwd)
			if err != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && usr.Username != tt.uname {
				t.Errorf("Authenticate() username = %s, want %s", usr.Username, tt.uname)
			}
		})
	}
}

func TestService_RequestPasswordReset(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, repo, "sarah", "sarah@test.cd", "pwd", true)

	t.Run("unknown email", func(t *testing.T) {
		if err := svc.RequestPasswordReset(ctx, "lol@test.cd"); err != user.ErrNotFound {
			t.Errorf("RequestPasswordReset() error = %v, want %v", err, user.ErrNotFound)
		}
	})

	t.Run("sends the reset link", func(t *testing.T) {
		emailsvc.ResetSentMessages()

		if err := svc.RequestPasswordReset(ctx, usr.Email); err != nil {
			t.Fatalf("RequestPasswordReset() failed: %v", err)
		}
		if len(emailsvc.SentMessages) != 1 {
			t.Fatalf("sent %d messages, want 1", len(emailsvc.SentMessages))
		}
		msg := emailsvc.SentMessages[0]
		if msg.To[0].Address != usr.Email {
			t.Errorf("sent to %s, want %s", msg.To[0].Address, usr.Email)
		}
		if msg.Subject != "Password Reset Request" {
			t.Errorf("subject = %q", msg.Subject)
		}
		if !strings.Contains(msg.TextContent, "/reset-password/") {
			t.Errorf("body is missing the reset link:\n%s", msg.TextContent)
		}
	})
}

func TestService_ResetPassword(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, repo, "sarah", "sarah@test.cd", "pwd", true)

	t.Run("invalid token", func(t *testing.T) {
		err := svc.ResetPassword(ctx, user.ResetUserPassword{Token: "lol", Password: "new", PasswordConfirm: "new"})
		if err != user.ErrTokenInvalid {
			t.Errorf("ResetPassword() error = %v, want %v", err, user.ErrTokenInvalid)
		}
	})

	t.Run("ok", func(t *testing.T) {
		token := user.MakeResetToken(usr.Email)
		err := svc.ResetPassword(ctx, user.ResetUserPassword{Token: token, Password: "brand-new", PasswordConfirm: "brand-new"})
		if err != nil {
			t.Fatalf("ResetPassword() failed: %v", err)
		}
		if _, err := svc.Authenticate(ctx, usr.Username, "brand-new"); err != nil {
			t.Errorf("Authenticate() with the new password failed: %v", err)
		}
		if _, err := svc.Authenticate(ctx, usr.Username, "pwd"); err != user.ErrAuthFailed {
			t.Errorf("Authenticate() with the old password error = %v, want %v", err, user.ErrAuthFailed)
		}
	})
}
