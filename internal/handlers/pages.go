package handlers

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"esgboard/internal/catalog"
	"esgboard/internal/charts"
	"esgboard/internal/dto"
	"esgboard/internal/i18n"
	"esgboard/internal/models"
	"esgboard/internal/repository"
)

//go:embed templates/*.html
var templateFS embed.FS

// Session and context keys used by the browser dashboard.
const (
	SessionUserKey    = "userID"
	CSRFContextKey    = "csrf_token"
	NonceContextKey   = "csp_nonce"
	dashboardRoot     = "/dashboard"
	dashboardLoginURL = "/dashboard/login"
)

type menuItem struct {
	Href   string
	Label  string
	Active bool
}

// page is the data every dashboard template receives.
type page struct {
	Title  string
	Lang   i18n.Lang
	CSRF   string
	Nonce  string
	User   *models.User
	Menu   []menuItem
	Error  string
	Scores []dto.YearScore
	Charts []dto.Chart

	// Content is the rendered page body, filled in by the layout.
	Content template.HTML
}

func (p *page) T(key string) string {
	return i18n.T(p.Lang, key)
}

// PagesHandler renders the server-side dashboard.
type PagesHandler struct {
	log     *zap.Logger
	repo    *repository.Repository
	results *ResultsHandler
	catalog *catalog.Catalog
	pages   map[string]*template.Template
}

func NewPagesHandler(log *zap.Logger, repo *repository.Repository, results *ResultsHandler, cat *catalog.Catalog) (*PagesHandler, error) {
	funcs := template.FuncMap{
		"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	}
	pages := make(map[string]*template.Template)
	for _, name := range []string{"login", "overview", "pillar", "guideline"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return &PagesHandler{log: log, repo: repo, results: results, catalog: cat, pages: pages}, nil
}

func (h *PagesHandler) LoginPage(c *gin.Context) {
	if _, ok := currentUser(c); ok {
		c.Redirect(http.StatusFound, dashboardRoot)
		return
	}
	p := h.newPage(c, "page.login", "")
	h.render(c, http.StatusOK, "login", p)
}

func (h *PagesHandler) Login(c *gin.Context) {
	session := sessions.Default(c)
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	user, err := h.repo.GetUserByUsername(c.Request.Context(), username)
	if err != nil || !user.CheckPassword(password) {
		p := h.newPage(c, "page.login", "")
		p.Error = p.T("msg.invalidCredentials")
		h.render(c, http.StatusUnauthorized, "login", p)
		return
	}

	session.Set(SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to login")
		return
	}
	c.Redirect(http.StatusFound, dashboardRoot)
}

func (h *PagesHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.String(http.StatusInternalServerError, "Failed to logout")
		return
	}
	c.Redirect(http.StatusFound, dashboardLoginURL)
}

func (h *PagesHandler) Overview(c *gin.Context) {
	user, _ := currentUser(c)
	p := h.newPage(c, "page.overview", dashboardRoot)

	scores, err := h.results.yearScores(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("Failed to load scores", zap.Uint("userID", user.ID), zap.Error(err))
		c.String(http.StatusInternalServerError, p.T("msg.internal"))
		return
	}
	p.Scores = scores
	if len(scores) > 0 {
		p.Charts = append(p.Charts,
			charts.ScoresOverTime(p.Lang, scores),
			charts.ScoreProportion(p.Lang, scores[len(scores)-1]),
		)
	}
	h.render(c, http.StatusOK, "overview", p)
}

func (h *PagesHandler) Pillar(c *gin.Context) {
	user, _ := currentUser(c)
	pillar, ok := catalog.ParsePillar(c.Param("pillar"))
	if !ok || pillar == catalog.General {
		c.String(http.StatusNotFound, i18n.T(langOf(c), "msg.notFound"))
		return
	}
	p := h.newPage(c, pillar.NameKey(), dashboardRoot+"/"+pillar.Slug())
	for _, def := range h.catalog.Charts(pillar.Slug()) {
		chart, err := h.results.buildChart(c.Request.Context(), user.ID, p.Lang, def)
		if err != nil {
			h.log.Error("Failed to build chart", zap.String("chart", def.Pillar+"/"+def.Key), zap.Error(err))
			c.String(http.StatusInternalServerError, p.T("msg.internal"))
			return
		}
		p.Charts = append(p.Charts, chart)
	}
	h.render(c, http.StatusOK, "pillar", p)
}

func (h *PagesHandler) Guideline(c *gin.Context) {
	p := h.newPage(c, "page.guideline", dashboardRoot+"/guideline")
	h.render(c, http.StatusOK, "guideline", p)
}

func (h *PagesHandler) newPage(c *gin.Context, titleKey, active string) *page {
	p := &page{Lang: langOf(c)}
	p.Title = p.T(titleKey)
	if v, ok := c.Get(CSRFContextKey); ok {
		p.CSRF, _ = v.(string)
	}
	if v, ok := c.Get(NonceContextKey); ok {
		p.Nonce, _ = v.(string)
	}
	if u, ok := currentUser(c); ok {
		p.User = u
		p.Menu = []menuItem{{Href: dashboardRoot, Label: p.T("page.overview")}}
		for _, pl := range catalog.Pillars {
			p.Menu = append(p.Menu, menuItem{Href: dashboardRoot + "/" + pl.Slug(), Label: p.T(pl.NameKey())})
		}
		p.Menu = append(p.Menu, menuItem{Href: dashboardRoot + "/guideline", Label: p.T("page.guideline")})
		for i := range p.Menu {
			p.Menu[i].Active = p.Menu[i].Href == active
		}
	}
	return p
}

func (h *PagesHandler) render(c *gin.Context, status int, name string, p *page) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	ctx := templ.WithChildren(c.Request.Context(), h.body(name, p))
	if err := h.layout(name, p).Render(ctx, c.Writer); err != nil {
		h.log.Error("Error rendering page", zap.String("page", name), zap.Error(err))
	}
}

// body renders the "content" block of a page template.
func (h *PagesHandler) body(name string, p *page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return h.pages[name].ExecuteTemplate(w, "content", p)
	})
}

// layout wraps the children in the context with the navigation shell.
// The body is rendered first so a failing page writes nothing.
func (h *PagesHandler) layout(name string, p *page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := templ.GetChildren(ctx).Render(ctx, &buf); err != nil {
			return err
		}
		p.Content = template.HTML(buf.String())
		return h.pages[name].ExecuteTemplate(w, "layout", p)
	})
}
