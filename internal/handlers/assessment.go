package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"esgboard/internal/catalog"
	"esgboard/internal/dto"
	"esgboard/internal/models"
	"esgboard/internal/repository"
)

// AssessmentHandler serves the questionnaire endpoints for reported metrics
// and for targets.
type AssessmentHandler struct {
	log      *zap.Logger
	repo     *repository.Repository
	catalog  *catalog.Catalog
	onSubmit func()
}

// NewAssessmentHandler calls onSubmit after every accepted reported-metrics
// submission; it may be nil.
func NewAssessmentHandler(log *zap.Logger, repo *repository.Repository, cat *catalog.Catalog, onSubmit func()) *AssessmentHandler {
	return &AssessmentHandler{log: log, repo: repo, catalog: cat, onSubmit: onSubmit}
}

func (h *AssessmentHandler) Questions(c *gin.Context) {
	section, ok := h.section(c, c.Query("section"))
	if !ok {
		return
	}
	questions, err := h.repo.QuestionsBySection(c.Request.Context(), section)
	if err != nil {
		h.log.Error("Failed to load questions", zap.String("section", section), zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	lang := langOf(c)
	out := make([]dto.Question, 0, len(questions))
	for i := range questions {
		out = append(out, questions[i].Localized(lang))
	}
	success(c, out)
}

func (h *AssessmentHandler) Answers(c *gin.Context) {
	h.answers(c, models.NoTarget)
}

func (h *AssessmentHandler) TargetAnswers(c *gin.Context) {
	target, ok := targetType(c)
	if !ok {
		return
	}
	h.answers(c, target)
}

func (h *AssessmentHandler) answers(c *gin.Context, target string) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	section, ok := h.section(c, c.Query("section"))
	if !ok {
		return
	}
	year, ok := queryYear(c)
	if !ok {
		return
	}
	stored, err := h.repo.AnswersOfYear(c.Request.Context(), user.ID, section, year, target)
	if err != nil {
		h.log.Error("Failed to load answers", zap.Uint("userID", user.ID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	out := make([]dto.StoredAnswer, 0, len(stored))
	for _, a := range stored {
		out = append(out, dto.StoredAnswer{
			QuestionCode: a.QuestionCode,
			QuestionType: a.QuestionType,
			Answer:       wireValue(a.QuestionType, a.Value),
		})
	}
	success(c, out)
}

func (h *AssessmentHandler) Submit(c *gin.Context) {
	h.submit(c, models.NoTarget)
}

func (h *AssessmentHandler) TargetSubmit(c *gin.Context) {
	target, ok := targetType(c)
	if !ok {
		return
	}
	h.submit(c, target)
}

func (h *AssessmentHandler) submit(c *gin.Context, target string) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	var sub dto.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		fail(c, http.StatusBadRequest, "msg.badRequest")
		return
	}
	section, ok := h.section(c, sub.Section)
	if !ok {
		return
	}
	if sub.Year < MinYear || sub.Year > MaxYear {
		fail(c, http.StatusBadRequest, "msg.invalidYear", MinYear, MaxYear)
		return
	}

	questions, err := h.repo.QuestionsBySection(c.Request.Context(), section)
	if err != nil {
		h.log.Error("Failed to load questions", zap.String("section", section), zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	byCode := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byCode[q.Code] = q
	}

	answers := make([]models.Answer, 0, len(sub.Answers))
	seen := make(map[string]bool, len(sub.Answers))
	for _, a := range sub.Answers {
		q, known := byCode[a.QuestionCode]
		if !known || seen[a.QuestionCode] {
			fail(c, http.StatusBadRequest, "msg.unknownQuestion", a.QuestionCode)
			return
		}
		seen[a.QuestionCode] = true
		value, err := storedValue(q, a.Answer)
		if err != nil {
			h.log.Debug("Rejected answer", zap.String("question", q.Code), zap.Error(err))
			respond[any](c, http.StatusBadRequest, nil, fmt.Sprintf("%s: %v", q.Code, err))
			c.Abort()
			return
		}
		answers = append(answers, models.Answer{QuestionCode: q.Code, QuestionType: q.Type, Value: value})
	}

	if err := h.repo.SaveSubmission(c.Request.Context(), user.ID, target, section, sub.Year, answers); err != nil {
		h.log.Error("Failed to save submission", zap.Uint("userID", user.ID), zap.String("section", section), zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	h.log.Info("Submission saved",
		zap.Uint("userID", user.ID),
		zap.String("section", section),
		zap.Int("year", sub.Year),
		zap.String("target", target),
		zap.Int("answers", len(answers)),
	)
	if target == models.NoTarget && h.onSubmit != nil {
		h.onSubmit()
	}
	respond(c, http.StatusOK, len(answers), tr(c, "msg.submitted"))
}

func (h *AssessmentHandler) SubmitCounts(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	year, ok := queryYear(c)
	if !ok {
		return
	}
	counts, err := h.repo.SubmitCounts(c.Request.Context(), user.ID, year, models.NoTarget)
	if err != nil {
		h.log.Error("Failed to count submissions", zap.Uint("userID", user.ID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	out := make([]dto.SectionSubmitCount, 0, len(counts))
	for _, sc := range counts {
		last := sc.LastAt
		out = append(out, dto.SectionSubmitCount{SectionName: sc.Section, SubmitCount: sc.Count, UpdatedAt: &last})
	}
	success(c, out)
}

// TargetProgress reports the share of answered questions per section. The
// target type defaults to short when omitted.
func (h *AssessmentHandler) TargetProgress(c *gin.Context) {
	user, ok := mustUser(c)
	if !ok {
		return
	}
	year, ok := queryYear(c)
	if !ok {
		return
	}
	target := models.ShortTarget
	if c.Query("targetType") != "" {
		if target, ok = targetType(c); !ok {
			return
		}
	}
	fills, err := h.repo.SectionProgress(c.Request.Context(), user.ID, year, target)
	if err != nil {
		h.log.Error("Failed to compute target progress", zap.Uint("userID", user.ID), zap.Error(err))
		fail(c, http.StatusInternalServerError, "msg.internal")
		return
	}
	out := make([]dto.SectionProgress, 0, len(fills))
	for _, f := range fills {
		p := dto.SectionProgress{SectionName: f.Section}
		if f.Total > 0 {
			p.PercentileCompleted = math.Round(float64(f.Answered)/float64(f.Total)*10000) / 100
		}
		if !f.LastAt.IsZero() {
			last := f.LastAt
			p.UpdatedAt = &last
		}
		out = append(out, p)
	}
	success(c, out)
}

func (h *AssessmentHandler) section(c *gin.Context, key string) (string, bool) {
	if _, known := h.catalog.Section(key); !known {
		fail(c, http.StatusBadRequest, "msg.unknownSection", key)
		return "", false
	}
	return key, true
}

func targetType(c *gin.Context) (string, bool) {
	t := c.Query("targetType")
	if !models.ValidTargetType(t) {
		fail(c, http.StatusBadRequest, "msg.invalidTargetType", t)
		return "", false
	}
	return t, true
}

var (
	errNotNumber   = errors.New("answer must be a number")
	errNotOption   = errors.New("answer must be an option index")
	errOutOfRange  = errors.New("option index out of range")
	errNotFinite   = errors.New("answer must be finite")
	errUnsupported = errors.New("unsupported question type")
)

// storedValue validates a submitted answer against its question and encodes
// it for storage. Empty answers are stored as nil.
func storedValue(q models.Question, v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	switch q.Type {
	case dto.TypeNumeric:
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case json.Number:
			parsed, err := n.Float64()
			if err != nil {
				return nil, errNotNumber
			}
			f = parsed
		case string:
			if strings.TrimSpace(n) == "" {
				return nil, nil
			}
			parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil, errNotNumber
			}
			f = parsed
		default:
			return nil, errNotNumber
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errNotFinite
		}
		s := strconv.FormatFloat(f, 'f', -1, 64)
		return &s, nil
	case dto.TypeBoolean, dto.TypeChoice:
		var idx int
		switch n := v.(type) {
		case string:
			if n == "" {
				return nil, nil
			}
			parsed, err := strconv.Atoi(n)
			if err != nil {
				return nil, errNotOption
			}
			idx = parsed
		case float64:
			if n != math.Trunc(n) {
				return nil, errNotOption
			}
			idx = int(n)
		default:
			return nil, errNotOption
		}
		limit := len(q.OptionsEn)
		if q.Type == dto.TypeBoolean && limit == 0 {
			limit = 2
		}
		if idx < 1 || idx > limit {
			return nil, errOutOfRange
		}
		s := strconv.Itoa(idx)
		return &s, nil
	}
	return nil, errUnsupported
}

// wireValue decodes a stored value: numbers for numeric questions, strings
// otherwise.
func wireValue(t dto.QuestionType, v *string) any {
	if v == nil {
		return nil
	}
	if t == dto.TypeNumeric {
		if f, err := strconv.ParseFloat(*v, 64); err == nil {
			return f
		}
	}
	return *v
}
