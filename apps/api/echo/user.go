package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/alphauniversity/portal/core/user"
)

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	Remember bool   `json:"remember" form:"remember"`
}

func (api *portalApi) loginForm(ctx echo.Context) error {
	if claims, ok := getSessionClaims(ctx); ok {
		return redirect(ctx, user.HomePath(claims.Username))
	}
	return respond(ctx, http.StatusOK, echo.Map{"page": "login"})
}

func (api *portalApi) login(ctx echo.Context) error {
	var req LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	usr, err := api.usrSvc.Authenticate(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrAuthFailed, user.ErrAccountDeactivated:
			addFlash(ctx, "danger", "Invalid username or password. Please try again.")
			return respond(ctx, http.StatusBadRequest, echo.Map{"page": "login"})
		default:
			return err
		}
	}

	claims := GetUserClaims(usr, req.Remember, api.conf.AppName, api.conf.SessionLifetime)
	token, err := GenerateToken(claims, api.secret)
	if err != nil {
		return err
	}
	setSessionCookie(ctx, token, req.Remember, api.conf.SessionLifetime)

	addFlash(ctx, "success", "Login successful!")
	return redirect(ctx, user.HomePath(usr.Username))
}

func (api *portalApi) logout(ctx echo.Context) error {
	clearSessionCookie(ctx)
	addFlash(ctx, "info", "You have been logged out.")
	return redirect(ctx, user.IndexPath)
}

func (api *portalApi) forgotPasswordForm(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, echo.Map{"page": "forgot-password"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

func (api *portalApi) forgotPassword(ctx echo.Context) error {
	var req forgotPasswordRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if err := api.usrSvc.RequestPasswordReset(ctx.Request().Context(), req.Email); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			addFlash(ctx, "danger", "No account found with that email address.")
			return respond(ctx, http.StatusBadRequest, echo.Map{"page": "forgot-password"})
		}
		return err
	}

	addFlash(ctx, "info", "Password reset link has been sent to your email.")
	return redirect(ctx, loginPath)
}

// resetPasswordForm validates the link's token up front so an invalid or
// expired link never shows the form.
func (api *portalApi) resetPasswordForm(ctx echo.Context) error {
	token := ctx.Param("token")
	if _, err := user.VerifyResetToken(token); err != nil {
		addFlash(ctx, "danger", "The password reset link is invalid or has expired.")
		return redirect(ctx, forgotPasswordPath)
	}
	return respond(ctx, http.StatusOK, echo.Map{"page": "reset-password", "token": token})
}

func (api *portalApi) resetPassword(ctx echo.Context) error {
	data := new(user.ResetUserPassword)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	data.Token = ctx.Param("token")
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.usrSvc.ResetPassword(ctx.Request().Context(), *data); err != nil {
		switch errors.Cause(err) {
		case user.ErrTokenInvalid, user.ErrTokenExpired:
			addFlash(ctx, "danger", "The password reset link is invalid or has expired.")
			return redirect(ctx, forgotPasswordPath)
		case user.ErrNotFound:
			addFlash(ctx, "danger", "Invalid user account.")
			return redirect(ctx, forgotPasswordPath)
		default:
			return err
		}
	}

	addFlash(ctx, "success", "Your password has been reset. Please log in.")
	return redirect(ctx, loginPath)
}

// ------------------------------ admin ------------------------------

func (api *portalApi) listUsers(ctx echo.Context) error {
	users, err := api.usrSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, echo.Map{"users": users})
}

func (api *portalApi) addUserForm(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, echo.Map{"page": "add-user"})
}

func (api *portalApi) addUser(ctx echo.Context) error {
	data := new(user.NewUser)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.usrSvc.Create(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}

	addFlash(ctx, "success", "User added successfully.")
	return respond(ctx, http.StatusCreated, echo.Map{"user": usr})
}
