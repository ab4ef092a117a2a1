package server

import (
	"net"
	"net/http"
	"strings"

	"cadence/internal/app"

	"github.com/sirupsen/logrus"
)

// clientCookieMaxAge keeps the client id for a year.
const clientCookieMaxAge = 365 * 24 * 60 * 60

// client returns the state of the client sending r, creating it on the
// first request. The id cookie is (re)issued whenever it changes.
func (ms *MusicServer) client(w http.ResponseWriter, r *http.Request) *app.App {
	var clientID string
	if cookie, err := r.Cookie(ms.config.Session.CookieName); err == nil {
		clientID = cookie.Value
	}

	sess, created := ms.sessions.Acquire(clientID, r.UserAgent(), clientIP(r))
	if sess.ID != clientID {
		http.SetCookie(w, &http.Cookie{
			Name:     ms.config.Session.CookieName,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   clientCookieMaxAge,
			HttpOnly: true,
			Secure:   ms.config.Session.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
	if created {
		ms.logger.WithFields(logrus.Fields{
			"client_id":  sess.ID,
			"user_agent": sess.UserAgent,
		}).Debug("New client connected")
	}
	return sess.App
}

// clientIP returns the caller's address, preferring the first forwarded hop
// when the request came through a tunnel or proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
