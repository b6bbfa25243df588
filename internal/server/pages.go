package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"mvdan.cc/xurls/v2"

	"reviewhub/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var urlPattern = xurls.Relaxed()

var pageTemplates = []string{
	"home.html",
	"reviews.html",
	"review_form.html",
	"summary.html",
	"analytics.html",
}

type pageRenderer struct {
	templates map[string]*template.Template
}

func newPageRenderer() (*pageRenderer, error) {
	funcs := template.FuncMap{
		"linkify":   linkify,
		"fmtRating": fmtRating,
	}

	templates := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		tmpl, err := template.New("layout.html").
			Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		templates[name] = tmpl
	}

	return &pageRenderer{templates: templates}, nil
}

func (r *pageRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}

	return tmpl.ExecuteTemplate(w, "layout.html", data)
}

func fmtRating(v *float64) string {
	if v == nil {
		return ""
	}

	return fmt.Sprintf("%.2f", *v)
}

// linkify escapes text and turns bare URLs into anchors.
func linkify(text string) template.HTML {
	var out []byte
	last := 0

	for _, match := range urlPattern.FindAllStringIndex(text, -1) {
		out = append(out, template.HTMLEscapeString(text[last:match[0]])...)

		url := text[match[0]:match[1]]
		escaped := template.HTMLEscapeString(url)
		out = append(out, fmt.Sprintf(`<a href="%s" rel="nofollow">%s</a>`, escaped, escaped)...)

		last = match[1]
	}
	out = append(out, template.HTMLEscapeString(text[last:])...)

	return template.HTML(out)
}

type pageData struct {
	Title    string
	User     *models.User
	Reviews  []models.Review
	Page     *models.ReviewPage
	Summary  *models.Summary
	Overview *models.AnalyticsOverview
	Category string
	Search   string
}

func (s *Server) handleHomePage(c echo.Context) error {
	page, err := s.reviews.List(c.Request().Context(), 1, 10, "")
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "home.html", pageData{
		Title:   "ReviewHub",
		User:    currentUser(c),
		Reviews: page.Items,
	})
}

func (s *Server) handleReviewsPage(c echo.Context) error {
	ctx := c.Request().Context()
	pageNum, perPage := pagination(c)
	category := c.QueryParam("category")
	search := c.QueryParam("search")

	var (
		page *models.ReviewPage
		err  error
	)
	if search != "" {
		page, err = s.reviews.Search(ctx, search, pageNum, perPage)
	} else {
		page, err = s.reviews.List(ctx, pageNum, perPage, category)
	}
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "reviews.html", pageData{
		Title:    "Reviews",
		User:     currentUser(c),
		Page:     page,
		Category: category,
		Search:   search,
	})
}

func (s *Server) handleNewReviewPage(c echo.Context) error {
	return c.Render(http.StatusOK, "review_form.html", pageData{
		Title: "New review",
		User:  currentUser(c),
	})
}

func (s *Server) handleSummaryPage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	summary, err := s.reviews.GetSummary(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "summary.html", pageData{
		Title:   "Summary",
		User:    currentUser(c),
		Summary: summary,
	})
}

func (s *Server) handleAnalyticsPage(c echo.Context) error {
	overview, err := s.analytics.Overview(c.Request().Context())
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "analytics.html", pageData{
		Title:    "Analytics",
		User:     currentUser(c),
		Overview: overview,
	})
}
