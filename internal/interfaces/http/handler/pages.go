package handler

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/application/identity"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/infrastructure/config"
	"github.com/bookingops/console/internal/infrastructure/logger"
	"github.com/bookingops/console/internal/interfaces/http/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

// HomeEntity is where "/" and a successful login land
const HomeEntity = "category"

var pageFuncs = template.FuncMap{
	"display": displayValue,
	"add":     func(a, b int) int { return a + b },
}

// LoadTemplates installs the page templates on the engine. A non-empty glob
// loads templates from disk instead of the embedded copies.
func LoadTemplates(engine *gin.Engine, glob string) error {
	engine.SetFuncMap(pageFuncs)
	if glob != "" {
		engine.LoadHTMLGlob(glob)
		return nil
	}
	tmpl, err := template.New("").Funcs(pageFuncs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse page templates: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)
	return nil
}

func displayValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case []string:
		return strings.Join(x, ", ")
	default:
		return fmt.Sprint(x)
	}
}

// PageHandler renders the server side pages: login, entity lists and
// read-only record details.
type PageHandler struct {
	BaseHandler
	screens     *console.Registry
	authService *identity.AuthService
	cookie      config.CookieConfig
	getAll      bool
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(screens *console.Registry, authService *identity.AuthService, cookie config.CookieConfig, getAll bool) *PageHandler {
	return &PageHandler{screens: screens, authService: authService, cookie: cookie, getAll: getAll}
}

type pageData struct {
	Title    string
	Entities []string
	Entity   string
	User     string
	Error    string
	Phone    string
	Step     string
	List     *console.ListView
	Detail   *console.DetailView
	Year     int
}

func (h *PageHandler) data(c *gin.Context, title string) pageData {
	d := pageData{
		Title:    title,
		Entities: h.screens.Entities(),
		Year:     time.Now().Year(),
	}
	if s := middleware.GetSession(c); s != nil {
		d.User = s.PhoneNumber
	}
	return d
}

// Home redirects to the default list
func (h *PageHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/"+HomeEntity)
}

// LoginPage renders the phone step of the login form
func (h *PageHandler) LoginPage(c *gin.Context) {
	d := h.data(c, "Login")
	d.Step = "phone"
	c.HTML(http.StatusOK, "login.html", d)
}

// LoginSubmit handles both login steps. Without a code it texts one and
// renders the code step; with a code it opens the session and redirects home.
func (h *PageHandler) LoginSubmit(c *gin.Context) {
	ctx := c.Request.Context()
	d := h.data(c, "Login")
	d.Phone = strings.TrimSpace(c.PostForm("phoneNumber"))
	code := strings.TrimSpace(c.PostForm("code"))

	if code == "" {
		d.Step = "phone"
		if _, err := h.authService.RequestOTP(ctx, identity.RequestOTPInput{PhoneNumber: d.Phone}); err != nil {
			d.Error = errorMessage(err)
			c.HTML(http.StatusOK, "login.html", d)
			return
		}
		d.Step = "code"
		c.HTML(http.StatusOK, "login.html", d)
		return
	}

	result, err := h.authService.Verify(ctx, identity.VerifyInput{PhoneNumber: d.Phone, Code: code})
	if err != nil {
		d.Step = "code"
		d.Error = errorMessage(err)
		c.HTML(http.StatusOK, "login.html", d)
		return
	}
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, result.Token, int(time.Until(result.ExpiresAt).Seconds()), h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
	c.Redirect(http.StatusFound, "/"+HomeEntity)
}

// LogoutPage ends the session and returns to the login page
func (h *PageHandler) LogoutPage(c *gin.Context) {
	if s := middleware.GetSession(c); s != nil {
		if err := h.authService.Logout(c.Request.Context(), s); err != nil {
			logger.L(c.Request.Context()).Warn("Logout failed", zap.Error(err))
		}
	}
	c.SetCookie(h.cookie.Name, "", -1, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
	c.Redirect(http.StatusFound, "/login")
}

// ListPage renders one page of an entity table
func (h *PageHandler) ListPage(c *gin.Context) {
	entity := c.Param("entity")
	d := h.data(c, humanize(entity))
	d.Entity = entity

	screen, err := h.screens.Get(entity)
	if err != nil {
		h.errorPage(c, d, err)
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	view, err := screen.List(c.Request.Context(), shared.PageRequest{PageNumber: page, GetAll: h.getAll})
	if err != nil {
		h.errorPage(c, d, err)
		return
	}
	d.List = view
	c.HTML(http.StatusOK, "list.html", d)
}

// DetailPage renders a record as a read-only form
func (h *PageHandler) DetailPage(c *gin.Context) {
	entity := c.Param("entity")
	d := h.data(c, humanize(entity))
	d.Entity = entity

	screen, err := h.screens.Get(entity)
	if err != nil {
		h.errorPage(c, d, err)
		return
	}
	view, err := screen.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.errorPage(c, d, err)
		return
	}
	d.Detail = view
	c.HTML(http.StatusOK, "detail.html", d)
}

// errorPage renders the "Error..." placeholder used when a fetch fails
func (h *PageHandler) errorPage(c *gin.Context, d pageData, err error) {
	status := http.StatusBadGateway
	if shared.IsCode(err, shared.CodeNotFound) {
		status = http.StatusNotFound
	}
	logger.L(c.Request.Context()).Warn("Page fetch failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	d.Error = errorMessage(err)
	c.HTML(status, "error.html", d)
}

func errorMessage(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return "Something went wrong"
}

// humanize turns an entity name like "job" into a title like "Jobs"
func humanize(entity string) string {
	if entity == "" {
		return ""
	}
	title := cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(entity))
	switch {
	case strings.HasSuffix(title, "y"):
		return strings.TrimSuffix(title, "y") + "ies"
	case strings.HasSuffix(title, "s"):
		return title
	default:
		return title + "s"
	}
}
