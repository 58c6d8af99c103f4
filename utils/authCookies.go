package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const SessionCookie = "careclinic_session"

func SetSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	setCookie(c, SessionCookie, token, int(ttl.Seconds()))
}

func ClearSessionCookie(c *gin.Context) {
	setCookie(c, SessionCookie, "", -1)
}

func setCookie(c *gin.Context, name, value string, maxAge int) {
	secure := gin.Mode() != gin.DebugMode && gin.Mode() != gin.TestMode
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}
