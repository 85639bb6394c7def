// Package questionnaire drives the load, edit and submit lifecycle of one
// section's questionnaire form.
//
// A Controller is bound to a Backend. Open loads the section's questions and
// the stored answers of the chosen year, ChangeYear re-reads stored answers
// after a debounce, SetAnswer records input and Submit sends the whole answer
// set. Every answer fetch carries a generation number; a response whose
// generation is no longer current is dropped, so the last requested year
// always wins regardless of completion order.
package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"esgboard/internal/dto"
	"esgboard/internal/i18n"
)

const (
	MinYear = 2000
	MaxYear = 2100

	DefaultDebounce = 600 * time.Millisecond
)

var (
	ErrInvalidYear      = fmt.Errorf("year must be between %d and %d", MinYear, MaxYear)
	ErrYearRequired     = errors.New("a year is required before submitting")
	ErrNotOpen          = errors.New("questionnaire is not open")
	ErrClosed           = errors.New("questionnaire was closed or reopened")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrLoading          = errors.New("answers are still loading")
	ErrUnknownQuestion  = errors.New("unknown question")
)

// ValidateYear checks the accepted year range.
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}
	return nil
}

// Backend is the remote side of a questionnaire.
type Backend interface {
	Questions(ctx context.Context, section string, lang i18n.Lang) ([]dto.Question, error)
	StoredAnswers(ctx context.Context, section string, year int, lang i18n.Lang) ([]dto.StoredAnswer, error)
	Submit(ctx context.Context, lang i18n.Lang, sub dto.Submission) error
}

// Answer is the current value of one question. Value is nil, a string option
// index or a float64.
type Answer struct {
	QuestionCode string
	QuestionType dto.QuestionType
	Value        any
}

type Options struct {
	// Debounce delays the refetch after ChangeYear. Zero means DefaultDebounce;
	// negative disables the delay.
	Debounce time.Duration
	Lang     i18n.Lang
	Logger   *zap.Logger
	// OnRefetch runs after a year-change refetch that was not superseded,
	// with its error if it failed. It must not call back into the Controller
	// synchronously.
	OnRefetch func(year int, err error)
}

type Controller struct {
	backend Backend
	opts    Options
	log     *zap.Logger

	mu         sync.Mutex
	section    string
	year       int
	questions  []dto.Question
	kinds      []AnswerKind
	answers    []Answer
	index      map[string]int
	open       bool
	loading    bool
	submitting bool
	lastErr    error

	gen    uint64
	cancel context.CancelFunc
	timer  *time.Timer

	wg sync.WaitGroup
}

func New(backend Backend, opts Options) *Controller {
	if opts.Debounce == 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	if opts.Lang == "" {
		opts.Lang = i18n.Default
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{backend: backend, opts: opts, log: log}
}

// Open loads the questions of section and, when year is non-zero, overlays
// the answers stored for that year. Both fetches run concurrently; if either
// fails the form stays empty and the error is returned. A Close or another
// Open while loading discards the result and returns ErrClosed.
func (c *Controller) Open(ctx context.Context, section string, year int) error {
	if year != 0 {
		if err := ValidateYear(year); err != nil {
			return err
		}
	}

	c.mu.Lock()
	gen := c.supersedeLocked()
	fctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.section = section
	c.year = year
	c.resetLocked()
	c.loading = true
	c.mu.Unlock()
	defer cancel()

	var (
		questions []dto.Question
		stored    []dto.StoredAnswer
	)
	g, gctx := errgroup.WithContext(fctx)
	g.Go(func() error {
		var err error
		questions, err = c.backend.Questions(gctx, section, c.opts.Lang)
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		return nil
	})
	if year != 0 {
		g.Go(func() error {
			var err error
			stored, err = c.backend.StoredAnswers(gctx, section, year, c.opts.Lang)
			if err != nil {
				return fmt.Errorf("load answers of %d: %w", year, err)
			}
			return nil
		})
	}
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.Debug("Discarding superseded load", zap.String("section", section))
		return ErrClosed
	}
	c.loading = false
	if err != nil {
		c.log.Warn("Failed to open questionnaire", zap.String("section", section), zap.Int("year", year), zap.Error(err))
		return err
	}

	c.questions = questions
	c.kinds = make([]AnswerKind, len(questions))
	c.answers = make([]Answer, len(questions))
	c.index = make(map[string]int, len(questions))
	for i, q := range questions {
		c.kinds[i] = KindOf(q)
		c.answers[i] = Answer{QuestionCode: q.Code, QuestionType: q.Type}
		c.index[q.Code] = i
	}
	c.overlayLocked(stored)
	c.open = true
	c.log.Debug("Questionnaire opened",
		zap.String("section", section),
		zap.Int("year", year),
		zap.Int("questions", len(questions)),
		zap.Int("stored", len(stored)),
	)
	return nil
}

// ChangeYear validates year and schedules a debounced refetch of its stored
// answers. An invalid year is rejected without touching state or the network,
// and the year cannot change while a submission is in flight.
func (c *Controller) ChangeYear(year int) error {
	if err := ValidateYear(year); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return ErrNotOpen
	}
	if c.submitting {
		return ErrSubmitInProgress
	}
	gen := c.supersedeLocked()
	c.year = year
	c.loading = true
	c.wg.Add(1)
	c.timer = time.AfterFunc(c.opts.Debounce, func() {
		defer c.wg.Done()
		c.refetch(gen, year)
	})
	return nil
}

func (c *Controller) refetch(gen uint64, year int) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	section := c.section
	c.mu.Unlock()
	defer cancel()

	stored, err := c.backend.StoredAnswers(ctx, section, year, c.opts.Lang)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.log.Debug("Discarding stale answers", zap.Int("year", year))
		return
	}
	c.loading = false
	if err != nil {
		c.lastErr = fmt.Errorf("load answers of %d: %w", year, err)
		c.log.Warn("Failed to refetch answers", zap.String("section", section), zap.Int("year", year), zap.Error(err))
	} else {
		c.lastErr = nil
		for i := range c.answers {
			c.answers[i].Value = nil
		}
		c.overlayLocked(stored)
	}
	notify := c.opts.OnRefetch
	c.mu.Unlock()

	if notify != nil {
		notify(year, err)
	}
}

// SetAnswer records raw input for a question, converted by its kind.
func (c *Controller) SetAnswer(code, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return ErrNotOpen
	}
	i, ok := c.index[code]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, code)
	}
	v, err := c.kinds[i].Parse(raw)
	if err != nil {
		return err
	}
	c.answers[i].Value = v
	return nil
}

// Submit sends every answer for the current year. On success the form is
// cleared and closed; on failure it is left untouched for a retry. It is
// refused while a year change is still loading.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case !c.open:
		c.mu.Unlock()
		return ErrNotOpen
	case c.submitting:
		c.mu.Unlock()
		return ErrSubmitInProgress
	case c.loading:
		c.mu.Unlock()
		return ErrLoading
	case c.year == 0:
		c.mu.Unlock()
		return ErrYearRequired
	}
	sub := dto.Submission{
		Section: c.section,
		Year:    c.year,
		Answers: make([]dto.SubmittedAnswer, len(c.answers)),
	}
	for i, a := range c.answers {
		sub.Answers[i] = dto.SubmittedAnswer{QuestionCode: a.QuestionCode, Answer: c.kinds[i].Encode(a.Value)}
	}
	gen := c.gen
	c.submitting = true
	c.mu.Unlock()

	err := c.backend.Submit(ctx, c.opts.Lang, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.log.Warn("Failed to submit answers", zap.String("section", sub.Section), zap.Int("year", sub.Year), zap.Error(err))
		return err
	}
	if gen == c.gen {
		c.supersedeLocked()
		c.resetLocked()
	}
	c.log.Info("Answers submitted", zap.String("section", sub.Section), zap.Int("year", sub.Year), zap.Int("answers", len(sub.Answers)))
	return nil
}

// Close discards in-flight work and clears the form.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
	c.resetLocked()
}

// Wait blocks until no scheduled refetch is pending or running.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Questions returns a copy of the loaded questions.
func (c *Controller) Questions() []dto.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]dto.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Answers returns a copy of the current answers, in question order.
func (c *Controller) Answers() []Answer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Answer, len(c.answers))
	copy(out, c.answers)
	return out
}

func (c *Controller) Section() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.section
}

// Year is the most recently requested year, zero when unknown.
func (c *Controller) Year() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.year
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Err returns the error of the latest year-change refetch, if it failed.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// supersedeLocked invalidates every outstanding fetch and pending refetch and
// returns the new generation.
func (c *Controller) supersedeLocked() uint64 {
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.timer != nil {
		if c.timer.Stop() {
			c.wg.Done()
		}
		c.timer = nil
	}
	return c.gen
}

func (c *Controller) resetLocked() {
	c.questions = nil
	c.kinds = nil
	c.answers = nil
	c.index = nil
	c.open = false
	c.loading = false
	c.lastErr = nil
}

// overlayLocked applies stored answers; values for unknown questions or of the
// wrong shape are ignored.
func (c *Controller) overlayLocked(stored []dto.StoredAnswer) {
	for _, s := range stored {
		i, ok := c.index[s.QuestionCode]
		if !ok {
			continue
		}
		v, ok := c.kinds[i].FromStored(s.Answer)
		if !ok {
			c.log.Debug("Ignoring malformed stored answer", zap.String("question", s.QuestionCode))
			continue
		}
		c.answers[i].Value = v
	}
}
