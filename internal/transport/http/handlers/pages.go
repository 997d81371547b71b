package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Bonattii/secrets-auth-project/internal/infra/security"
	"github.com/Bonattii/secrets-auth-project/internal/transport/http/middleware"
	"github.com/Bonattii/secrets-auth-project/internal/usecase"
)

// PageHandler serves the rendered pages: home, register, login, and the
// authenticated secrets board.
type PageHandler struct {
	auth     *usecase.AuthService
	secrets  *usecase.SecretService
	sessions *security.SessionManager
	log      *zap.Logger
}

// NewPageHandler constructs PageHandler.
func NewPageHandler(auth *usecase.AuthService, secrets *usecase.SecretService, sessions *security.SessionManager, log *zap.Logger) *PageHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PageHandler{auth: auth, secrets: secrets, sessions: sessions, log: log}
}

// RegisterRoutes binds the page routes.
func (h *PageHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.home)
	r.GET("/register", h.registerPage)
	r.POST("/register", h.register)
	r.GET("/login", h.loginPage)
	r.POST("/login", h.login)
	r.GET("/logout", h.logout)

	authed := r.Group("/", middleware.RequireAuth(h.sessions))
	authed.GET("/secrets", h.secretsPage)
	authed.GET("/submit", h.submitPage)
	authed.POST("/submit", h.submit)
}

func (h *PageHandler) home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{})
}

func (h *PageHandler) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func (h *PageHandler) register(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	user, err := h.auth.Register(c.Request.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			c.HTML(http.StatusBadRequest, "register.html", gin.H{
				"Error": "Email and password are required.",
			})
		case errors.Is(err, usecase.ErrDuplicateIdentifier):
			c.HTML(http.StatusConflict, "register.html", gin.H{
				"Error": "That email is already registered.",
			})
		case errors.Is(err, usecase.ErrStoreUnavailable):
			h.renderStoreFault(c, err)
		default:
			h.log.Error("registration failed", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "register.html", gin.H{
				"Error": "Registration failed.",
			})
		}
		return
	}

	h.establishSession(c, user.ID)
}

func (h *PageHandler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *PageHandler) login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	user, err := h.auth.Login(c.Request.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			c.HTML(http.StatusBadRequest, "login.html", gin.H{
				"Error": "Email and password are required.",
			})
		case errors.Is(err, usecase.ErrInvalidCredentials):
			// Same page for unknown email and wrong password.
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{
				"Error": "Invalid email or password.",
			})
		case errors.Is(err, usecase.ErrStoreUnavailable):
			h.renderStoreFault(c, err)
		default:
			h.log.Error("login failed", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "login.html", gin.H{
				"Error": "Login failed.",
			})
		}
		return
	}

	h.establishSession(c, user.ID)
}

func (h *PageHandler) logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *PageHandler) secretsPage(c *gin.Context) {
	secrets, err := h.secrets.List(c.Request.Context())
	if err != nil {
		h.renderStoreFault(c, err)
		return
	}

	c.HTML(http.StatusOK, "secrets.html", gin.H{
		"Secrets": secrets,
	})
}

func (h *PageHandler) submitPage(c *gin.Context) {
	c.HTML(http.StatusOK, "submit.html", gin.H{})
}

func (h *PageHandler) submit(c *gin.Context) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	text := c.PostForm("secret")
	if err := h.secrets.Submit(c.Request.Context(), userID, text); err != nil {
		if errors.Is(err, usecase.ErrSecretRequired) {
			c.HTML(http.StatusBadRequest, "submit.html", gin.H{
				"Error": "Write a secret before submitting.",
			})
			return
		}
		h.renderStoreFault(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/secrets")
}

// establishSession issues the signed cookie and enters the authenticated state.
func (h *PageHandler) establishSession(c *gin.Context, userID string) {
	token, err := h.sessions.Issue(userID)
	if err != nil {
		h.log.Error("issue session", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "Login failed.",
		})
		return
	}

	maxAge := int(h.sessions.TTL().Seconds())
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, "/secrets")
}

func (h *PageHandler) renderStoreFault(c *gin.Context, err error) {
	h.log.Error("store unavailable", zap.Error(err))
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Error": "Something went wrong on our side. Please try again.",
	})
}
