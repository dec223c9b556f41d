package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Flash messages are request-scoped: handlers append to a per-request list
// and the response envelope carries it out for the rendering layer to show.

const contextFlashKey = "flashMessages"

type FlashMessage struct {
	Level string `json:"level"` // info | success | warning | danger
	Text  string `json:"text"`
}

func addFlash(ctx echo.Context, level, text string) {
	flashes, _ := ctx.Get(contextFlashKey).([]FlashMessage)
	ctx.Set(contextFlashKey, append(flashes, FlashMessage{Level: level, Text: text}))
}

func getFlashes(ctx echo.Context) []FlashMessage {
	flashes, _ := ctx.Get(contextFlashKey).([]FlashMessage)
	return flashes
}

// respond writes a JSON payload with the request's flash messages attached.
func respond(ctx echo.Context, code int, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	if flashes := getFlashes(ctx); len(flashes) > 0 {
		data["messages"] = flashes
	}
	return ctx.JSON(code, data)
}

func redirect(ctx echo.Context, target string) error {
	return ctx.Redirect(http.StatusFound, target)
}
