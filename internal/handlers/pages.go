package handlers

import (
	"net/http"

	"membership/internal/models"

	"github.com/gin-gonic/gin"
)

// Template names.
const (
	pageHome    = "home"
	pageSignUp  = "signup"
	pageLogIn   = "login"
	pageMembers = "members"
	pageError   = "error"
)

const pageTemplates = `
{{define "head"}}<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title></head><body>
{{end}}
{{define "foot"}}</body></html>
{{end}}
{{define "problems"}}{{if .Problems}}<ul class="errors">{{range .Problems}}<li>{{.}}</li>{{end}}</ul>
{{end}}{{end}}

{{define "home"}}{{template "head" .}}{{with .Session}}<h1>Hello, {{.Name}}!</h1>
<p><a href="/members">Members</a> | <a href="/logout">Log out</a></p>
{{else}}<h1>Welcome!</h1>
<p><a href="/signup">Sign up</a> or <a href="/login">log in</a> to see the members page.</p>
{{end}}{{template "foot" .}}{{end}}

{{define "signup"}}{{template "head" .}}<h1>Sign up</h1>
{{template "problems" .}}<form method="post" action="/signup">
<label>Name <input name="name" value="{{.Name}}"></label>
<label>Email <input type="email" name="email" value="{{.Email}}"></label>
<label>Password <input type="password" name="password"></label>
<button type="submit">Sign up</button>
</form>
<p>Already registered? <a href="/login">Log in</a></p>
{{template "foot" .}}{{end}}

{{define "login"}}{{template "head" .}}<h1>Log in</h1>
{{template "problems" .}}<form method="post" action="/login">
<label>Email <input type="email" name="email" value="{{.Email}}"></label>
<label>Password <input type="password" name="password"></label>
<button type="submit">Log in</button>
</form>
<p>New here? <a href="/signup">Sign up</a></p>
{{template "foot" .}}{{end}}

{{define "members"}}{{template "head" .}}<h1>Hello, {{.Session.Name}}!</h1>
<img src="/images/{{.Image}}" alt="members only">
<p><a href="/">Home</a> | <a href="/logout">Log out</a></p>
{{template "foot" .}}{{end}}

{{define "error"}}{{template "head" .}}<h1>{{.Status}}</h1>
<p>{{.Message}}</p>
<p><a href="/">Home</a></p>
{{template "foot" .}}{{end}}
`

// memberImages are the pictures the members page picks from.
var memberImages = [...]string{"1.jpg", "2.jpg", "3.jpg"}

type formPage struct {
	Title    string
	Problems []string
	Name     string
	Email    string
}

type sessionPage struct {
	Title   string
	Session *models.SessionData
	Image   string
}

type errorPage struct {
	Title   string
	Status  int
	Message string
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, pageError, errorPage{
		Title:   http.StatusText(status),
		Status:  status,
		Message: message,
	})
}
