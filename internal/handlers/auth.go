package handlers

import (
	"errors"
	"net/http"

	"membership/internal/models"
	"membership/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgEmailTaken         = "A user with that email already exists"
	msgInvalidCredentials = "Invalid email or password"
	msgBadForm            = "The form could not be read"
)

type signUpForm struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type logInForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// bindOrBadRequest binds the request body into dst and renders page with a 400 on failure.
// Returns false if the request was already handled.
func (h *Handler) bindOrBadRequest(c *gin.Context, dst any, page string) bool {
	if err := c.ShouldBind(dst); err != nil {
		h.log.Infow("auth_bad_request_body", "err", err)
		c.HTML(http.StatusBadRequest, page, formPage{Title: pageTitle(page), Problems: []string{msgBadForm}})
		return false
	}
	return true
}

func (h *Handler) signUpForm(c *gin.Context) {
	c.HTML(http.StatusOK, pageSignUp, formPage{Title: pageTitle(pageSignUp)})
}

func (h *Handler) logInForm(c *gin.Context) {
	c.HTML(http.StatusOK, pageLogIn, formPage{Title: pageTitle(pageLogIn)})
}

func (h *Handler) signUp(c *gin.Context) {
	var input signUpForm
	if ok := h.bindOrBadRequest(c, &input, pageSignUp); !ok {
		return
	}

	data, err := h.services.SignUp(c.Request.Context(), service.SignUpInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		page := formPage{Title: pageTitle(pageSignUp), Name: input.Name, Email: input.Email}
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			page.Problems = verr.Problems
		case errors.Is(err, service.ErrEmailTaken):
			page.Problems = []string{msgEmailTaken}
		default:
			h.logAndRenderError(c, http.StatusInternalServerError, "auth_sign_up_failed", err, "email", input.Email)
			return
		}
		h.log.Infow("auth_sign_up_rejected", "email", input.Email, "err", err)
		c.HTML(http.StatusBadRequest, pageSignUp, page)
		return
	}

	h.startSession(c, data)
}

func (h *Handler) logIn(c *gin.Context) {
	var input logInForm
	if ok := h.bindOrBadRequest(c, &input, pageLogIn); !ok {
		return
	}

	data, err := h.services.LogIn(c.Request.Context(), service.LogInInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// the log keeps the precise reason, the visitor gets one message
			h.log.Infow("auth_log_in_failed", "email", input.Email, "err", err)
			c.HTML(http.StatusBadRequest, pageLogIn, formPage{
				Title:    pageTitle(pageLogIn),
				Problems: []string{msgInvalidCredentials},
				Email:    input.Email,
			})
			return
		}
		h.logAndRenderError(c, http.StatusInternalServerError, "auth_log_in_error", err, "email", input.Email)
		return
	}

	h.startSession(c, data)
}

func (h *Handler) logOut(c *gin.Context) {
	token, err := c.Cookie(h.cookie.Name)
	if err != nil || token == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}
	if err := h.services.End(c.Request.Context(), token); err != nil {
		h.logAndRenderError(c, http.StatusInternalServerError, "session_end_failed", err)
		return
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

// startSession issues the cookie for data and sends the visitor to the members page.
func (h *Handler) startSession(c *gin.Context, data models.SessionData) {
	token, expiresAt, err := h.services.Start(c.Request.Context(), data)
	if err != nil {
		h.logAndRenderError(c, http.StatusInternalServerError, "session_start_failed", err, "email", data.Email)
		return
	}
	h.setSessionCookie(c, token, expiresAt)
	c.Redirect(http.StatusFound, "/members")
}

func pageTitle(page string) string {
	switch page {
	case pageSignUp:
		return "Sign up"
	case pageLogIn:
		return "Log in"
	case pageMembers:
		return "Members"
	default:
		return "Welcome"
	}
}
