package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"esgboard/internal/catalog"
	"esgboard/internal/charts"
	"esgboard/internal/dto"
	"esgboard/internal/i18n"
	"esgboard/internal/models"
	"esgboard/internal/report"
	"esgboard/internal/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ResultsHandler serves scores, charts and reports.
type ResultsHandler struct {
	log     *zap.Logger
	repo    *repository.Repository
	catalog *catalog.Catalog
}

func NewResultsHandler(log *zap.Logger, repo *repository.Repository, cat *catalog.Catalog) *ResultsHandler {
	return &ResultsHandler{log: log, repo: repo, catalog: cat}
}

func (h *ResultsHandler) Dashboard(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	scores, err := h.yearScores(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("Failed to load scores", zap.Uint("userID", user.ID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	success(c, dto.Dashboard{Company: dto.DashboardCompany{Name: user.CompanyName, Data: scores}})
}

// Chart returns the handler of one pillar chart.
func (h *ResultsHandler) Chart(def catalog.ChartDef) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustUser(c)
		if !ok {
			return
		}
		chart, err := h.buildChart(c.Request.Context(), user.ID, langOf(c), def)
		if err != nil {
			h.log.Error("Failed to build chart", zap.String("chart", def.Pillar+"/"+def.Key), zap.Error(err))
			fail(c, http.StatusInternalServerError, "msg.internal")
			return
		}
		success(c, chart)
	}
}

func (h *ResultsHandler) Report(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	year, ok := queryYear(c)
	if !ok {
		return
	}
	rep, err := h.buildReport(c.Request.Context(), user, langOf(c), year)
	if err != nil {
		h.log.Error("Failed to build report", zap.Uint("userID", user.ID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	success(c, rep)
}

func (h *ResultsHandler) Export(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	year, ok := queryYear(c)
	if !ok {
		return
	}
	lang := langOf(c)
	rep, err := h.buildReport(c.Request.Context(), user, lang, year)
	if err != nil {
		h.log.Error("Failed to build report", zap.Uint("userID", user.ID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="esg-report-%d.xlsx"`, year))
	c.Status(http.StatusOK)
	if err := report.Export(c.Writer, rep, lang); err != nil {
		h.log.Error("Failed to export report", zap.Uint("userID", user.ID), zap.Error(err))
	}
}

func (h *ResultsHandler) yearScores(ctx context.Context, userID uint) ([]dto.YearScore, error) {
	scores, err := h.repo.ScoresForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.YearScore, 0, len(scores))
	for _, s := range scores {
		out = append(out, dto.YearScore{
			Year:          s.Year,
			Environmental: s.Environmental,
			Social:        s.Social,
			Governance:    s.Governance,
			ESG:           s.ESG,
		})
	}
	return out, nil
}

func (h *ResultsHandler) buildChart(ctx context.Context, userID uint, lang i18n.Lang, def catalog.ChartDef) (dto.Chart, error) {
	questions, err := h.repo.QuestionsByCodes(ctx, def.Questions)
	if err != nil {
		return dto.Chart{}, err
	}
	names := make(map[string]string, len(questions))
	for code, q := range questions {
		names[code] = i18n.Pick(lang, q.NameEn, q.NameVi)
	}
	values, err := h.repo.SeriesForQuestions(ctx, userID, def.Questions)
	if err != nil {
		return dto.Chart{}, err
	}
	return charts.FromAnswers(def, lang, names, values)
}

func (h *ResultsHandler) buildReport(ctx context.Context, user *models.User, lang i18n.Lang, year int) (dto.Report, error) {
	questions, err := h.repo.AllQuestions(ctx)
	if err != nil {
		return dto.Report{}, err
	}
	answers, err := h.repo.AnswersForYear(ctx, user.ID, year, models.NoTarget)
	if err != nil {
		return dto.Report{}, err
	}
	score, err := h.repo.ScoreForYear(ctx, user.ID, year)
	if errors.Is(err, repository.ErrNotFound) {
		score, err = nil, nil
	}
	if err != nil {
		return dto.Report{}, err
	}
	return report.Build(h.catalog, lang, user.CompanyName, year, questions, answers, score), nil
}
