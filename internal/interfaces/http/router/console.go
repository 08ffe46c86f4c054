package router

import (
	"github.com/gin-gonic/gin"

	"github.com/bookingops/console/internal/interfaces/http/handler"
)

// Handlers are the console's HTTP handlers
type Handlers struct {
	System   *handler.SystemHandler
	Auth     *handler.AuthHandler
	Screens  *handler.ScreenHandler
	Drafts   *handler.DraftHandler
	Jobs     *handler.JobHandler
	Uploads  *handler.UploadHandler
	Activity *handler.ActivityHandler
	Pages    *handler.PageHandler
}

// Guards are the middleware placed in front of route groups. Session and
// PageSession are required; a nil LoginLimit leaves the login routes
// unthrottled.
type Guards struct {
	Session     gin.HandlerFunc
	PageSession gin.HandlerFunc
	LoginLimit  gin.HandlerFunc
}

// ProbeRoutes serves the liveness and readiness probes at the root
func ProbeRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("probes", "").
		GET("/health", h.Health).
		GET("/ready", h.Ready)
}

// AuthRoutes serves the OTP login. Logout and the current user need a session.
func AuthRoutes(h *handler.AuthHandler, g Guards) *DomainGroup {
	auth := NewDomainGroup("auth", "/auth")
	login := auth.Group("login", "")
	if g.LoginLimit != nil {
		login.Use(g.LoginLimit)
	}
	login.POST("/otp", h.RequestOTP).
		POST("/verify", h.Verify)

	auth.Group("session", "").
		Use(g.Session).
		POST("/logout", h.Logout).
		GET("/me", h.GetCurrentUser)
	return auth
}

// ConsoleRoutes serves screens, drafts, the job editor, uploads and the
// activity log. Every route needs a session.
func ConsoleRoutes(h Handlers, g Guards) *DomainGroup {
	console := NewDomainGroup("console", "").Use(g.Session)

	console.Group("entities", "/entities").
		GET("", h.Screens.Entities).
		GET("/:entity", h.Screens.List).
		GET("/:entity/:id", h.Screens.Detail).
		DELETE("/:entity/:id", h.Screens.Delete)

	console.Group("drafts", "/drafts").
		POST("", h.Drafts.Open).
		GET("/:id", h.Drafts.Get).
		POST("/:id/changes", h.Drafts.Change).
		POST("/:id/uploads", h.Drafts.Upload).
		POST("/:id/submit", h.Drafts.Submit).
		DELETE("/:id", h.Drafts.Discard)

	jobs := console.Group("jobs", "/jobs/:id")
	jobs.GET("/editor", h.Jobs.Open).
		POST("/pricing/confirm", h.Jobs.Confirm).
		DELETE("/pricing", h.Jobs.Dismiss)
	jobs.Group("sections", "/sections/:section").
		POST("", h.Jobs.Enter).
		DELETE("", h.Jobs.Cancel).
		POST("/changes", h.Jobs.Change).
		POST("/uploads", h.Jobs.Upload).
		POST("/save", h.Jobs.Save)

	console.POST("/uploads", h.Uploads.Upload).
		GET("/activity", h.Activity.List).
		GET("/system/info", h.System.GetSystemInfo)
	return console
}

// PageRoutes serves the server-rendered console. The login form is public.
func PageRoutes(h *handler.PageHandler, g Guards) *DomainGroup {
	pages := NewDomainGroup("pages", "").
		GET("/login", h.LoginPage).
		POST("/logout", h.LogoutPage)

	login := pages.Group("login", "")
	if g.LoginLimit != nil {
		login.Use(g.LoginLimit)
	}
	login.POST("/login", h.LoginSubmit)

	pages.Group("screens", "").
		Use(g.PageSession).
		GET("/", h.Home).
		GET("/:entity", h.ListPage).
		GET("/:entity/:id", h.DetailPage)
	return pages
}

// SetupConsole registers the whole console on r
func (r *Router) SetupConsole(h Handlers, g Guards) {
	r.RegisterRoot(ProbeRoutes(h.System)).
		Register(AuthRoutes(h.Auth, g)).
		Register(ConsoleRoutes(h, g)).
		RegisterPages(PageRoutes(h.Pages, g))
	r.Setup()
}
