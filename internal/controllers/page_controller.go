package controllers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"mangiato/internal/register"
)

//go:embed templates/*.html
var templates embed.FS

// RegisterPage is the data behind templates/register.html
type RegisterPage struct {
	CreateUserURL  string
	PreventDefault bool
	ResponseMode   register.ResponseMode
	ShowErrors     bool
	TimeoutMS      int64
	ScriptURL      string
}

type PageController struct {
	tmpl *template.Template
	page RegisterPage
}

// NewPageController expands the form handler config into the page once;
// the client never computes the endpoint itself.
func NewPageController(baseURL string, client register.Config, scriptURL string) *PageController {
	return &PageController{
		tmpl: template.Must(template.ParseFS(templates, "templates/*.html")),
		page: RegisterPage{
			CreateUserURL:  baseURL + "/v1/users/",
			PreventDefault: client.PreventDefault,
			ResponseMode:   client.ResponseMode,
			ShowErrors:     client.ShowErrors,
			TimeoutMS:      client.Timeout.Milliseconds(),
			ScriptURL:      scriptURL,
		},
	}
}

// RegisterForm handles GET /register
func (pc *PageController) RegisterForm(c *gin.Context) {
	c.Render(http.StatusOK, render.HTML{
		Template: pc.tmpl,
		Name:     "register.html",
		Data:     pc.page,
	})
}
