package view

import (
	"fmt"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	flashSessionName = "flash-session"
	flashKeySuccess  = "success"
	flashKeyError    = "error"
)

// FlashMessage is one notification shown at the top of a page.
type FlashMessage struct {
	Kind string
	Text string
}

// IsError reports whether the message reports a failure.
func (m FlashMessage) IsError() bool { return m.Kind == flashKeyError }

// FlashData holds the flash messages read for one page render.
type FlashData struct {
	Success []string
	Error   []string
	// Messages lists errors first, then successes, for the layout.
	Messages []FlashMessage
}

// setFlash sets a flash message in the session.
func setFlash(c echo.Context, key, message string) {
	sess, err := session.Get(flashSessionName, c)
	if err != nil || sess == nil {
		c.Logger().Warn("flash session unavailable: ", err)
		return
	}
	sess.AddFlash(message, key)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		c.Logger().Warn("failed to save flash session: ", err)
	}
}

// SetFlashSuccess sets a success flash message.
func SetFlashSuccess(c echo.Context, message string) {
	setFlash(c, flashKeySuccess, message)
}

// SetFlashError sets an error flash message.
func SetFlashError(c echo.Context, message string) {
	setFlash(c, flashKeyError, message)
}

// GetFlashes retrieves and clears flash messages from the session.
func GetFlashes(c echo.Context) map[string][]interface{} {
	flashes := make(map[string][]interface{})

	sess, err := session.Get(flashSessionName, c)
	if err != nil || sess == nil {
		return flashes
	}

	// Flashes() retrieves and then clears the flashes from the session.
	successFlashes := sess.Flashes(flashKeySuccess)
	errorFlashes := sess.Flashes(flashKeyError)

	// If we have flashes, save the session to persist the clearing of flashes.
	if len(successFlashes) > 0 || len(errorFlashes) > 0 {
		flashes[flashKeySuccess] = successFlashes
		flashes[flashKeyError] = errorFlashes
		_ = sess.Save(c.Request(), c.Response())
	}
	return flashes
}

// GetFlashData retrieves and clears the flash messages as strings.
func GetFlashData(c echo.Context) FlashData {
	var data FlashData
	flashes := GetFlashes(c)
	for _, f := range flashes[flashKeyError] {
		text := fmt.Sprint(f)
		data.Error = append(data.Error, text)
		data.Messages = append(data.Messages, FlashMessage{Kind: flashKeyError, Text: text})
	}
	for _, f := range flashes[flashKeySuccess] {
		text := fmt.Sprint(f)
		data.Success = append(data.Success, text)
		data.Messages = append(data.Messages, FlashMessage{Kind: flashKeySuccess, Text: text})
	}
	return data
}
