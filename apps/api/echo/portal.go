package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Public informational pages. These back the static site shell; the payloads
// are what the rendering layer needs, nothing more.

func (api *portalApi) home(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, echo.Map{
		"page":     "home",
		"app_name": api.conf.AppName,
	})
}

func (api *portalApi) courses(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, echo.Map{
		"page":      "courses",
		"faculties": api.catalog.Faculties,
	})
}

func (api *portalApi) admissions(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, echo.Map{"page": "admissions"})
}

func (api *portalApi) about(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, echo.Map{"page": "about"})
}

func (api *portalApi) contact(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, echo.Map{"page": "contact"})
}
