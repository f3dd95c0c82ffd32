package app

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/lotuss-academy/lms-admin/internal/config"
	"github.com/lotuss-academy/lms-admin/internal/ctxutil"
	"github.com/lotuss-academy/lms-admin/internal/logging"
)

const (
	sessionName    = "lms.sid"
	sessionUserKey = "user"
	ctxUserKey     = "sessionUser"
)

// SessionUser is what the login stub stores server-side.
type SessionUser struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
	Department   string `json:"department"`
	EmployeeID   string `json:"employeeId"`
	Avatar       string `json:"avatar"`
}

func init() {
	gob.Register(SessionUser{})
}

// NewSessionStore keeps session data on disk; the cookie only carries the id.
func NewSessionStore(cfg *config.Config) *sessions.FilesystemStore {
	fs := sessions.NewFilesystemStore(cfg.SessionDir, []byte(cfg.SessionSecret))
	fs.MaxLength(0)
	fs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProd(),
		SameSite: http.SameSiteLaxMode,
	}
	return fs
}

// loadSession exposes the session user, if any, to later handlers.
func (s *Server) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := s.sessions.Get(c.Request, sessionName)
		if err != nil {
			logging.FromContext(c.Request.Context(), s.log).Debug("session decode", zap.Error(err))
		}
		if sess != nil {
			if u, ok := sess.Values[sessionUserKey].(SessionUser); ok {
				c.Set(ctxUserKey, &u)
				c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), u.ID))
			}
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *SessionUser {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*SessionUser)
	return u
}

func (s *Server) saveUser(c *gin.Context, u SessionUser) error {
	sess, _ := s.sessions.Get(c.Request, sessionName)
	sess.Values[sessionUserKey] = u
	return sess.Save(c.Request, c.Writer)
}

func (s *Server) destroySession(c *gin.Context) error {
	sess, _ := s.sessions.Get(c.Request, sessionName)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request, c.Writer)
}
