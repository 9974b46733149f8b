package httpapi

import (
	"net/http"
	"time"

	"github.com/MrEthical07/learnhub"
	"github.com/MrEthical07/learnhub/middleware"
	"github.com/labstack/echo/v4"
)

func (s *Server) tokenCookie(name, value string, expires time.Time) *http.Cookie {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cfg.Production,
	}
}

func (s *Server) setTokenCookies(c echo.Context, pair learnhub.TokenPair) {
	c.SetCookie(s.tokenCookie(middleware.AccessCookie, pair.AccessToken, pair.AccessExpiresAt))
	c.SetCookie(s.tokenCookie(middleware.RefreshCookie, pair.RefreshToken, pair.RefreshExpiresAt))
}

func (s *Server) clearTokenCookies(c echo.Context) {
	for _, name := range []string{middleware.AccessCookie, middleware.RefreshCookie} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   s.cfg.Production,
		})
	}
}
