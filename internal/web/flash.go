package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie    = "flash"
	maxFlashDetail = 300
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func Success(message string) Flash { return Flash{Kind: FlashSuccess, Message: message} }
func Failure(message string) Flash { return Flash{Kind: FlashError, Message: message} }
func Info(message string) Flash    { return Flash{Kind: FlashInfo, Message: message} }

// With attaches a secondary line, trimmed to keep the cookie small.
func (f Flash) With(detail string) Flash {
	if len(detail) > maxFlashDetail {
		n := maxFlashDetail
		for n > 0 && !utf8.RuneStart(detail[n]) {
			n--
		}
		detail = detail[:n] + "..."
	}
	f.Detail = detail
	return f
}

func SetFlash(c *gin.Context, f Flash) {
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(data), 60, "/", "", false, true)
}

// TakeFlash reads the pending flash and clears it.
func TakeFlash(c *gin.Context) (Flash, bool) {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return Flash{}, false
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return Flash{}, false
	}
	var f Flash
	if err := json.Unmarshal(data, &f); err != nil || f.Message == "" {
		return Flash{}, false
	}
	return f, true
}

// Redirect stores the flash and answers 303 so the browser follows with GET.
func Redirect(c *gin.Context, location string, f Flash) {
	if f.Message != "" {
		SetFlash(c, f)
	}
	c.Redirect(http.StatusSeeOther, location)
}
