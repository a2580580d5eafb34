package middleware

import (
	"net/http"

	"skillbridge-web/internal/session"
)

// Page routes the guard reasons about
const (
	LandingPath   = "/"
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// GuardDecision is the route guard's verdict for a navigation request
type GuardDecision int

const (
	GuardAllow GuardDecision = iota
	GuardRedirectLogin
	GuardRedirectDashboard
)

// Decide is the guard's decision function: pure, synchronous, and based only
// on cookie presence. It never checks token validity; a stale cookie passes
// here and is bounced by session validation on the first data call.
func Decide(path string, hasToken bool) GuardDecision {
	isPublic := path == LoginPath
	isRoot := path == LandingPath

	switch {
	case !hasToken && !isPublic && !isRoot:
		return GuardRedirectLogin
	case hasToken && isPublic:
		return GuardRedirectDashboard
	default:
		return GuardAllow
	}
}

// RouteGuard applies Decide to every page navigation: anonymous requests are
// sent to the login page, authenticated sessions are kept out of it.
func RouteGuard() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasToken := session.TokenFromRequest(r)

			switch Decide(r.URL.Path, hasToken) {
			case GuardRedirectLogin:
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			case GuardRedirectDashboard:
				http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
