package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// RefreshCookieName is the cookie carrying the refresh token for web clients.
	RefreshCookieName = "refresh_token"

	clientTypeHeader = "X-Client-Type"

	// ClientTypeWeb selects cookie delivery; any other value gets the
	// refresh token in the response body.
	ClientTypeWeb = "web"
)

// ClientType reads the declared client type, defaulting to web.
func ClientType(c *gin.Context) string {
	v := strings.TrimSpace(c.GetHeader(clientTypeHeader))
	if v == "" {
		return ClientTypeWeb
	}
	return v
}

// Deliver writes a freshly issued token pair. Web clients receive the
// refresh token only as an HTTP-only cookie; every other client type gets
// both tokens in the body. Login and refresh share this branch, with the
// same cookie attributes on both paths.
func Deliver(c *gin.Context, clientType string, pair TokenPair, refreshTTL time.Duration) {
	if clientType == ClientTypeWeb {
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(RefreshCookieName, pair.RefreshToken, int(refreshTTL.Seconds()), "/", "", true, true)
		c.JSON(http.StatusOK, gin.H{
			"access_token": pair.AccessToken,
			"token_type":   "bearer",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "bearer",
	})
}
