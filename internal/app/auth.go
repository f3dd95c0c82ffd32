package app

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lotuss-academy/lms-admin/internal/logging"
)

// Fixed identities handed out by the SSO stubs.
var (
	lotussUser = SessionUser{
		ID: 1, Name: "Somchai Lotuss", Email: "somchai@lotuss.com", Role: "Student",
		Organization: "Lotuss", Department: "Store Operations", EmployeeID: "LTS-001234",
		Avatar: "/theme/assets/img/avatars/1.png",
	}
	makroUser = SessionUser{
		ID: 2, Name: "Nattaya Makro", Email: "nattaya@makro.com", Role: "Manager",
		Organization: "Makro", Department: "Warehouse", EmployeeID: "MKR-005678",
		Avatar: "/theme/assets/img/avatars/2.png",
	}
)

func (s *Server) showLogin(c *gin.Context) {
	s.html(c, http.StatusOK, "login", gin.H{})
}

func (s *Server) showLoginForm(c *gin.Context) {
	s.html(c, http.StatusOK, "login-form", gin.H{})
}

func (s *Server) ssoLotuss(c *gin.Context) { s.signIn(c, lotussUser) }
func (s *Server) ssoMakro(c *gin.Context)  { s.signIn(c, makroUser) }

func (s *Server) loginMakro(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	if username == "" || c.PostForm("password") == "" {
		s.html(c, http.StatusOK, "login", gin.H{"error": "Please enter username and password"})
		return
	}
	s.signIn(c, SessionUser{
		ID:           2,
		Name:         username,
		Email:        username + "@makro.com",
		Role:         "Employee",
		Organization: "Makro",
		Department:   "Warehouse",
		EmployeeID:   fmt.Sprintf("MKR-%06d", rand.IntN(100000)),
		Avatar:       "/theme/assets/img/avatars/2.png",
	})
}

func (s *Server) login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	if email == "" || c.PostForm("password") == "" {
		s.html(c, http.StatusOK, "login-form", gin.H{"error": "Please enter email and password"})
		return
	}
	name, _, _ := strings.Cut(email, "@")
	if name == "" {
		name = "User"
	}
	s.signIn(c, SessionUser{
		ID:           3,
		Name:         name,
		Email:        email,
		Role:         "Student",
		Organization: "iLearn",
		Department:   "General",
		EmployeeID:   "ILN-000001",
		Avatar:       "/theme/assets/img/avatars/3.png",
	})
}

func (s *Server) signIn(c *gin.Context, u SessionUser) {
	if err := s.saveUser(c, u); err != nil {
		logging.FromContext(c.Request.Context(), s.log).Warn("session save", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (s *Server) logout(c *gin.Context) {
	if err := s.destroySession(c); err != nil {
		logging.FromContext(c.Request.Context(), s.log).Warn("session destroy", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/login")
}
