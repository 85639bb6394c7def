package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"esgboard/internal/dto"
	"esgboard/internal/i18n"
)

const (
	questionsPath = "/webapp/questions"
	targetsPath   = "/webapp/targets"
)

// Questions lists a section's questions in lang.
func (c *Client) Questions(ctx context.Context, section string, lang i18n.Lang) ([]dto.Question, error) {
	var out []dto.Question
	q := url.Values{"section": {section}, "lang": {string(lang)}}
	err := c.Get(ctx, questionsPath+"/get-all-topics-and-questions/", q, &out)
	return out, err
}

// StoredAnswers returns the answers previously submitted for a section and
// year.
func (c *Client) StoredAnswers(ctx context.Context, section string, year int, lang i18n.Lang) ([]dto.StoredAnswer, error) {
	var out []dto.StoredAnswer
	err := c.Get(ctx, questionsPath+"/get-all-answers-of-year", yearQuery(section, year, lang), &out)
	return out, err
}

func (c *Client) SubmitAnswers(ctx context.Context, lang i18n.Lang, sub dto.Submission) error {
	return c.Post(ctx, questionsPath+"/add-answer", url.Values{"lang": {string(lang)}}, sub, nil)
}

// SubmitCounts returns per-section submission counts for a year.
func (c *Client) SubmitCounts(ctx context.Context, year int) ([]dto.SectionSubmitCount, error) {
	var out []dto.SectionSubmitCount
	err := c.Get(ctx, questionsPath+"/get-all-submitcount-of-section", url.Values{"year": {strconv.Itoa(year)}}, &out)
	return out, err
}

func (c *Client) TargetAnswers(ctx context.Context, targetType, section string, year int, lang i18n.Lang) ([]dto.StoredAnswer, error) {
	var out []dto.StoredAnswer
	q := yearQuery(section, year, lang)
	q.Set("targetType", targetType)
	err := c.Get(ctx, targetsPath+"/get-all-answers-of-year", q, &out)
	return out, err
}

func (c *Client) SubmitTargets(ctx context.Context, targetType string, lang i18n.Lang, sub dto.Submission) error {
	q := url.Values{"targetType": {targetType}, "lang": {string(lang)}}
	return c.Post(ctx, targetsPath+"/add-answer", q, sub, nil)
}

// TargetProgress returns the share of answered target questions per section.
func (c *Client) TargetProgress(ctx context.Context, targetType string, year int) ([]dto.SectionProgress, error) {
	var out []dto.SectionProgress
	q := url.Values{"year": {strconv.Itoa(year)}}
	if targetType != "" {
		q.Set("targetType", targetType)
	}
	err := c.Get(ctx, targetsPath+"/get-all-submitcount-of-section", q, &out)
	return out, err
}

func yearQuery(section string, year int, lang i18n.Lang) url.Values {
	return url.Values{
		"section": {section},
		"year":    {strconv.Itoa(year)},
		"lang":    {string(lang)},
	}
}

// MetricsBackend serves the reported-metrics questionnaire.
type MetricsBackend struct {
	Client *Client
}

func (b MetricsBackend) Questions(ctx context.Context, section string, lang i18n.Lang) ([]dto.Question, error) {
	return b.Client.Questions(ctx, section, lang)
}

func (b MetricsBackend) StoredAnswers(ctx context.Context, section string, year int, lang i18n.Lang) ([]dto.StoredAnswer, error) {
	return b.Client.StoredAnswers(ctx, section, year, lang)
}

func (b MetricsBackend) Submit(ctx context.Context, lang i18n.Lang, sub dto.Submission) error {
	return b.Client.SubmitAnswers(ctx, lang, sub)
}

// TargetBackend serves the target questionnaire of one target type. Questions
// are shared with the reported metrics.
type TargetBackend struct {
	Client     *Client
	TargetType string
}

func (b TargetBackend) Questions(ctx context.Context, section string, lang i18n.Lang) ([]dto.Question, error) {
	return b.Client.Questions(ctx, section, lang)
}

func (b TargetBackend) StoredAnswers(ctx context.Context, section string, year int, lang i18n.Lang) ([]dto.StoredAnswer, error) {
	return b.Client.TargetAnswers(ctx, b.TargetType, section, year, lang)
}

func (b TargetBackend) Submit(ctx context.Context, lang i18n.Lang, sub dto.Submission) error {
	return b.Client.SubmitTargets(ctx, b.TargetType, lang, sub)
}
