package utils

import (
	"github.com/gin-gonic/gin"
)

// SetAuthCookies stores both tokens as httpOnly cookies. The secure
// flag is dropped in debug mode so local dev over plain HTTP works.
func SetAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	secure := gin.Mode() != gin.DebugMode
	c.SetCookie("accessToken", accessToken, int(AccessTokenExpiry.Seconds()), "/", "", secure, true)
	c.SetCookie("refreshToken", refreshToken, int(RefreshTokenExpiry.Seconds()), "/", "", secure, true)
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(c *gin.Context) {
	secure := gin.Mode() != gin.DebugMode
	c.SetCookie("accessToken", "", -1, "/", "", secure, true)
	c.SetCookie("refreshToken", "", -1, "/", "", secure, true)
}
