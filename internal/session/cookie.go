package session

import "net/http"

// CookieName is shared by the session store and the route guard. The cookie
// mirrors the durable token record: same value, same 1-day lifetime.
const CookieName = "skillbridge-token"

const cookieMaxAge = 86400 // 24 hours, matches domain.TokenLifetime

// writeCookie sets the session cookie on the response
func writeCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearCookie expires the session cookie
func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// TokenFromRequest extracts the session token from the request cookie
func TokenFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
