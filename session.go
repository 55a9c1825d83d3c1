package folio

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sessionName   = "folio_admin"
	sessionMaxAge = 12 * time.Hour
	authKey       = "authenticated"
)

func (a *App) sessionMiddleware() echo.MiddlewareFunc {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(sessionMaxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return session.Middleware(store)
}

// IsAdmin reports whether the request carries an authenticated admin session.
// It is false when the admin area is disabled.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, _ := sess.Values[authKey].(bool)
	return auth
}

func setAdminSession(c echo.Context) error {
	return saveAdminSession(c, func(sess *sessions.Session) {
		sess.Values[authKey] = true
	})
}

func clearAdminSession(c echo.Context) error {
	return saveAdminSession(c, func(sess *sessions.Session) {
		delete(sess.Values, authKey)
		sess.Options.MaxAge = -1
	})
}

func saveAdminSession(c echo.Context, update func(*sessions.Session)) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	update(sess)
	return sess.Save(c.Request(), c.Response())
}

// CSRFToken returns the token the CSRF middleware stored for this request.
func CSRFToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
