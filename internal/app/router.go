package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lotuss-academy/lms-admin/internal/logging"
	"github.com/lotuss-academy/lms-admin/internal/metrics"
	"github.com/lotuss-academy/lms-admin/internal/observability"
)

// Routes builds the gin engine with every page and API route.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.HTMLRender = s.views
	r.Use(logging.Middleware(s.log), observability.Recovery(s.log), metrics.Middleware(), s.loadSession())

	r.GET("/", func(c *gin.Context) {
		if currentUser(c) != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		c.Redirect(http.StatusFound, "/login")
	})
	r.GET("/home", func(c *gin.Context) { c.Redirect(http.StatusFound, "/dashboard") })
	r.GET("/courses", func(c *gin.Context) { c.Redirect(http.StatusFound, "/course") })

	r.GET("/health", s.health)
	r.GET("/healthz", s.healthz)
	r.GET("/api/status", s.apiStatus)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	guest := r.Group("", s.redirectIfAuthenticated())
	guest.GET("/login", s.showLogin)
	guest.GET("/login-form", s.showLoginForm)

	auth := r.Group("/auth")
	auth.GET("/sso/lotuss", s.ssoLotuss)
	auth.GET("/sso/makro", s.ssoMakro)
	auth.POST("/login/makro", s.loginMakro)
	auth.POST("/login", s.login)
	r.GET("/logout", s.logout)

	dash := r.Group("/dashboard", s.requireAuth())
	dash.GET("", s.dashboard)
	r.GET("/dashboard/api/stats", s.requireAuthAPI(), s.dashboardAPI)
	r.POST("/dashboard/cache/clear", s.requireAuthAPI(), s.dashboardClearCache)

	course := r.Group("/course", s.requireAuth())
	course.GET("", s.courseList)
	course.GET("/create", s.courseCreate)
	course.POST("/create", s.courseStore)
	course.GET("/:id/edit", s.courseEdit)
	course.POST("/:id/edit", s.courseUpdate)
	course.POST("/:id/delete", s.courseDelete)
	course.POST("/:id/duplicate", s.courseDuplicate)

	courseAPI := r.Group("/course/api", s.requireAuthAPI())
	courseAPI.GET("/list", s.courseAPIList)
	courseAPI.GET("/documents/search", s.courseSearchDocuments)
	courseAPI.GET("/positions/search", s.courseSearchPositions)
	courseAPI.GET("/:id", s.courseAPIGet)
	courseAPI.GET("/:id/documents", s.courseDocuments)
	courseAPI.POST("/:id/documents/add", s.courseAddDocument)
	courseAPI.POST("/:id/documents/remove", s.courseRemoveDocument)
	courseAPI.POST("/:id/documents/order", s.courseOrderDocuments)
	courseAPI.GET("/:id/positions", s.coursePositions)
	courseAPI.POST("/:id/positions/sync", s.courseSyncPositions)

	settings := r.Group("/settings", s.requireAuth(), s.requireRole(s.cfg.AdminRoles...))
	s.settingsRoutes(settings)

	settingsAPI := r.Group("/settings/api", s.requireAuthAPI(), s.requireRole(s.cfg.AdminRoles...))
	settingsAPI.GET("/quiz", s.quizAPIList)
	settingsAPI.GET("/quiz/:id", s.quizAPIGet)
	settingsAPI.GET("/functions/:formatId", s.apiFunctionsByFormat)
	settingsAPI.GET("/departments/:functionsId", s.apiDepartmentsByFunction)

	user := r.Group("/user", s.requireAuth())
	user.GET("", s.userList)
	user.GET("/export", s.userExport)
	user.GET("/:id", s.userShow)
	user.GET("/:id/edit", s.userEdit)
	user.POST("/:id/edit", s.userUpdate)
	user.POST("/:id/delete", s.userDelete)

	userAPI := r.Group("/user/api", s.requireAuthAPI())
	userAPI.GET("/search", s.userAPISearch)
	userAPI.GET("/stats", s.userAPIStats)
	userAPI.GET("/:id", s.userAPIGet)
	userAPI.GET("/:id/courses", s.userAPICourses)

	return r
}

func (s *Server) settingsRoutes(g *gin.RouterGroup) {
	g.GET("/format", s.formatList)
	g.GET("/format/create", s.formatCreate)
	g.POST("/format/create", s.formatStore)
	g.GET("/format/:id/edit", s.formatEdit)
	g.POST("/format/:id/edit", s.formatUpdate)
	g.POST("/format/:id/delete", s.formatDelete)

	g.GET("/functions", s.functionsList)
	g.GET("/functions/create", s.functionsCreate)
	g.POST("/functions/create", s.functionsStore)
	g.GET("/functions/:id/edit", s.functionsEdit)
	g.POST("/functions/:id/edit", s.functionsUpdate)
	g.POST("/functions/:id/delete", s.functionsDelete)

	g.GET("/department", s.departmentList)
	g.GET("/department/create", s.departmentCreate)
	g.POST("/department/create", s.departmentStore)
	g.GET("/department/:id/edit", s.departmentEdit)
	g.POST("/department/:id/edit", s.departmentUpdate)
	g.POST("/department/:id/delete", s.departmentDelete)

	g.GET("/quiz", s.quizList)
	g.GET("/quiz/create", s.quizCreate)
	g.POST("/quiz/create", s.quizStore)
	g.GET("/quiz/:id/edit", s.quizEdit)
	g.POST("/quiz/:id/edit", s.quizUpdate)
	g.POST("/quiz/:id/delete", s.quizDelete)
	g.POST("/quiz/:id/question/abcd", s.quizCreateAbcd)
	g.GET("/quiz/:id/question/abcd/:questionId", s.quizGetAbcd)
	g.PUT("/quiz/:id/question/abcd/:questionId", s.quizUpdateAbcd)
	g.DELETE("/quiz/:id/question/:questionId", s.quizDeleteQuestion)
	g.POST("/quiz/:id/question/reorder", s.quizReorderQuestions)
}
