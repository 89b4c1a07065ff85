package users

import (
	"net/http"
	"time"

	"github.com/Jidetireni/adyc-membership/pkg/token"
)

const AccessTokenCookieName = "access_token"

// SetJWTCookie mirrors the bearer token into an HttpOnly cookie for the admin UI.
func (u *User) SetJWTCookie(w http.ResponseWriter, accessToken string, expiresAt time.Time) {
	sameSite := http.SameSiteLaxMode
	if u.Config.IsDev {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookieName,
		Value:    accessToken,
		HttpOnly: true,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Secure:   true,
		SameSite: sameSite,
		Path:     "/",
	})
}

// TokenFromRequest reads a bearer token from the Authorization header, then
// the cookie.
func TokenFromRequest(r *http.Request) string {
	const prefix = token.TokenTypeBearer + " "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	if c, err := r.Cookie(AccessTokenCookieName); err == nil {
		return c.Value
	}
	return ""
}
