package utils

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

const (
	FlashCookie = "careclinic_flash"

	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"

	pendingFlashKey = "pending_flashes"
)

// Flash is a one-shot message shown on the next page view.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// AddFlash queues a message for the next request. Messages added during the
// same request accumulate.
func AddFlash(c *gin.Context, level, message string) {
	var pending []Flash
	if v, ok := c.Get(pendingFlashKey); ok {
		pending = v.([]Flash)
	}
	pending = append(pending, Flash{Level: level, Message: message})
	c.Set(pendingFlashKey, pending)

	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}
	setCookie(c, FlashCookie, base64.RawURLEncoding.EncodeToString(raw), 300)
}

// PopFlashes returns the messages carried by the request and clears the cookie.
func PopFlashes(c *gin.Context) []Flash {
	value, err := c.Cookie(FlashCookie)
	if err != nil || value == "" {
		return nil
	}
	setCookie(c, FlashCookie, "", -1)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}
