package handlers

import (
	"html/template"
	"math/rand/v2"
	"net/http"

	"membership/internal/logger"
	"membership/internal/service"

	"filippo.io/csrf"
	"github.com/gin-gonic/gin"
)

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	cookie   CookieOptions
	pick     func(n int) int
}

// NewHandler constructs a new HTTP handler with dependencies.
// A nil logger discards output.
func NewHandler(services *service.Service, log *logger.Logger, cookie CookieOptions) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	if cookie.Name == "" {
		cookie.Name = defaultCookieName
	}
	return &Handler{services: services, log: log, cookie: cookie, pick: rand.IntN}
}

const defaultCookieName = "sid"

var pages = template.Must(template.New("pages").Parse(pageTemplates))

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(pages)
	router.Use(h.requestLogger, gin.CustomRecovery(h.recoverPanic), h.loadSession)

	router.GET("/", h.home)
	h.registerAuthRoutes(router)
	router.GET("/members", h.requireSession, h.members)

	router.NoRoute(h.notFound)
	return router
}

// HTTPHandler is the router behind cross-origin request protection, ready for the server.
func (h *Handler) HTTPHandler() http.Handler {
	return csrf.New().Handler(h.InitRoutes())
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.GET("/signup", h.signUpForm)
	r.POST("/signup", h.signUp)
	r.GET("/login", h.logInForm)
	r.POST("/login", h.logIn)
	r.GET("/logout", h.logOut)
}
