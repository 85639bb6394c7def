package questionnaire

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"esgboard/internal/dto"
	"esgboard/internal/i18n"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeBackend serves fixed questions and per-year answers. A year with a gate
// blocks until the gate is closed, whatever the context says, which mimics a
// response arriving late.
type fakeBackend struct {
	mu        sync.Mutex
	questions []dto.Question
	stored    map[int][]dto.StoredAnswer
	gates     map[int]chan struct{}
	started   chan int
	fetches   []int
	submitErr error
	submitted []dto.Submission

	questionsErr  error
	answerErrs    map[int]error
	submitGate    chan struct{}
	submitStarted chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		questions: []dto.Question{
			{Code: "A", Section: "water", Type: dto.TypeBoolean, Options: []string{"Yes", "No"}},
			{Code: "B", Section: "water", Type: dto.TypeChoice, Options: []string{"w", "x", "y", "z"}},
			{Code: "C", Section: "water", Type: dto.TypeNumeric},
		},
		stored:        map[int][]dto.StoredAnswer{},
		gates:         map[int]chan struct{}{},
		started:       make(chan int, 16),
		answerErrs:    map[int]error{},
		submitStarted: make(chan struct{}, 1),
	}
}

func (f *fakeBackend) Questions(ctx context.Context, section string, lang i18n.Lang) ([]dto.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.questionsErr != nil {
		return nil, f.questionsErr
	}
	out := make([]dto.Question, len(f.questions))
	copy(out, f.questions)
	return out, nil
}

func (f *fakeBackend) StoredAnswers(ctx context.Context, section string, year int, lang i18n.Lang) ([]dto.StoredAnswer, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, year)
	gate := f.gates[year]
	f.mu.Unlock()

	f.started <- year
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.answerErrs[year]; err != nil {
		return nil, err
	}
	return append([]dto.StoredAnswer(nil), f.stored[year]...), nil
}

func (f *fakeBackend) Submit(ctx context.Context, lang i18n.Lang, sub dto.Submission) error {
	select {
	case f.submitStarted <- struct{}{}:
	default:
	}
	if f.submitGate != nil {
		<-f.submitGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, sub)
	return nil
}

func (f *fakeBackend) fetched() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.fetches...)
}

func values(c *Controller) map[string]any {
	out := map[string]any{}
	for _, a := range c.Answers() {
		out[a.QuestionCode] = a.Value
	}
	return out
}

func TestOpenOverlaysStoredAnswers(t *testing.T) {
	f := newFakeBackend()
	f.stored[2023] = []dto.StoredAnswer{
		{QuestionCode: "A", QuestionType: dto.TypeBoolean, Answer: "1"},
		{QuestionCode: "B", QuestionType: dto.TypeChoice, Answer: float64(3)},
		{QuestionCode: "GONE", QuestionType: dto.TypeNumeric, Answer: float64(1)},
	}
	c := New(f, Options{Debounce: -1})

	require.NoError(t, c.Open(context.Background(), "water", 2023))

	assert.True(t, c.IsOpen())
	assert.False(t, c.Loading())
	assert.Equal(t, 2023, c.Year())
	assert.Len(t, c.Questions(), 3)
	assert.Equal(t, map[string]any{"A": "1", "B": "3", "C": nil}, values(c))
}

func TestOpenIsIdempotent(t *testing.T) {
	f := newFakeBackend()
	f.stored[2023] = []dto.StoredAnswer{{QuestionCode: "C", Answer: float64(12)}}
	c := New(f, Options{Debounce: -1})

	require.NoError(t, c.Open(context.Background(), "water", 2023))
	first := c.Answers()
	require.NoError(t, c.SetAnswer("A", "2"))
	require.NoError(t, c.Open(context.Background(), "water", 2023))

	assert.Equal(t, first, c.Answers())
	assert.Equal(t, float64(12), values(c)["C"])
}

func TestOpenWithoutYearSkipsAnswers(t *testing.T) {
	f := newFakeBackend()
	c := New(f, Options{Debounce: -1})

	require.NoError(t, c.Open(context.Background(), "water", 0))

	assert.Empty(t, f.fetched())
	assert.Equal(t, map[string]any{"A": nil, "B": nil, "C": nil}, values(c))
	assert.ErrorIs(t, c.Submit(context.Background()), ErrYearRequired)
}

func TestCloseDuringOpenDiscardsResult(t *testing.T) {
	f := newFakeBackend()
	f.stored[2023] = []dto.StoredAnswer{{QuestionCode: "C", Answer: float64(9)}}
	gate := make(chan struct{})
	f.gates[2023] = gate
	c := New(f, Options{Debounce: -1})

	done := make(chan error, 1)
	go func() { done <- c.Open(context.Background(), "water", 2023) }()
	assert.Equal(t, 2023, <-f.started)
	assert.True(t, c.Loading())

	c.Close()
	close(gate)

	assert.ErrorIs(t, <-done, ErrClosed)
	assert.False(t, c.IsOpen())
	assert.False(t, c.Loading())
	assert.Empty(t, c.Questions())
	assert.Empty(t, c.Answers())
}

func TestFailedOpenLeavesEmptyForm(t *testing.T) {
	f := newFakeBackend()
	f.questionsErr = errors.New("network down")
	c := New(f, Options{Debounce: -1})

	err := c.Open(context.Background(), "water", 2023)

	assert.ErrorContains(t, err, "network down")
	assert.False(t, c.IsOpen())
	assert.False(t, c.Loading())
	assert.Empty(t, c.Questions())
	assert.Empty(t, c.Answers())
	assert.ErrorIs(t, c.SetAnswer("A", "1"), ErrNotOpen)
}

func TestFailedRefetchKeepsValues(t *testing.T) {
	f := newFakeBackend()
	f.stored[2022] = []dto.StoredAnswer{{QuestionCode: "C", Answer: float64(5)}}
	boom := errors.New("server unavailable")
	f.answerErrs[2023] = boom

	refetched := make(chan error, 1)
	c := New(f, Options{Debounce: -1, OnRefetch: func(year int, err error) {
		refetched <- err
	}})
	require.NoError(t, c.Open(context.Background(), "water", 2022))
	require.NoError(t, c.SetAnswer("A", "2"))

	require.NoError(t, c.ChangeYear(2023))
	c.Wait()

	assert.ErrorIs(t, <-refetched, boom)
	assert.ErrorIs(t, c.Err(), boom)
	assert.Equal(t, map[string]any{"A": "2", "B": nil, "C": float64(5)}, values(c))
	assert.Equal(t, 2023, c.Year())
	assert.False(t, c.Loading())
	assert.True(t, c.IsOpen())
}

func TestChangeYearRefusedWhileSubmitting(t *testing.T) {
	f := newFakeBackend()
	f.submitGate = make(chan struct{})
	c := New(f, Options{Debounce: -1})
	require.NoError(t, c.Open(context.Background(), "water", 2023))
	require.NoError(t, c.SetAnswer("C", "1"))

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()
	<-f.submitStarted

	assert.ErrorIs(t, c.ChangeYear(2024), ErrSubmitInProgress)
	assert.ErrorIs(t, c.Submit(context.Background()), ErrSubmitInProgress)

	close(f.submitGate)
	require.NoError(t, <-done)
	c.Wait()

	assert.False(t, c.IsOpen())
	assert.Empty(t, c.Answers())
	assert.Equal(t, []int{2023}, f.fetched())
}

func TestLateResponseForOldYearIsDiscarded(t *testing.T) {
	f := newFakeBackend()
	f.stored[2021] = []dto.StoredAnswer{{QuestionCode: "C", Answer: float64(1)}}
	f.stored[2023] = []dto.StoredAnswer{{QuestionCode: "C", Answer: float64(3)}}
	gate := make(chan struct{})
	f.gates[2021] = gate

	refetched := make(chan int, 4)
	c := New(f, Options{Debounce: -1, OnRefetch: func(year int, err error) {
		assert.NoError(t, err)
		refetched <- year
	}})
	require.NoError(t, c.Open(context.Background(), "water", 0))

	require.NoError(t, c.ChangeYear(2021))
	assert.Equal(t, 2021, <-f.started)
	require.NoError(t, c.ChangeYear(2023))
	assert.Equal(t, 2023, <-f.started)
	assert.Equal(t, 2023, <-refetched)
	assert.Equal(t, float64(3), values(c)["C"])

	close(gate)
	c.Wait()

	assert.Equal(t, float64(3), values(c)["C"])
	assert.Equal(t, 2023, c.Year())
	assert.Empty(t, refetched)
	assert.NoError(t, c.Err())
}

func TestDebounceCoalescesYearChanges(t *testing.T) {
	f := newFakeBackend()
	c := New(f, Options{Debounce: 50 * time.Millisecond})
	require.NoError(t, c.Open(context.Background(), "water", 0))

	require.NoError(t, c.ChangeYear(2021))
	require.NoError(t, c.ChangeYear(2022))
	require.NoError(t, c.ChangeYear(2023))
	c.Wait()

	assert.Equal(t, []int{2023}, f.fetched())
}

func TestYearBounds(t *testing.T) {
	f := newFakeBackend()
	c := New(f, Options{Debounce: -1})
	require.NoError(t, c.Open(context.Background(), "water", 0))

	assert.ErrorIs(t, c.ChangeYear(1999), ErrInvalidYear)
	assert.ErrorIs(t, c.ChangeYear(2101), ErrInvalidYear)
	c.Wait()
	assert.Empty(t, f.fetched())
	assert.Zero(t, c.Year())

	require.NoError(t, c.ChangeYear(2000))
	c.Wait()
	require.NoError(t, c.ChangeYear(2100))
	c.Wait()
	assert.Equal(t, []int{2000, 2100}, f.fetched())

	assert.ErrorIs(t, c.Open(context.Background(), "water", 1999), ErrInvalidYear)
}

func TestChangeYearRequiresOpen(t *testing.T) {
	c := New(newFakeBackend(), Options{Debounce: -1})

	assert.ErrorIs(t, c.ChangeYear(2023), ErrNotOpen)
	assert.ErrorIs(t, c.SetAnswer("A", "1"), ErrNotOpen)
	assert.ErrorIs(t, c.Submit(context.Background()), ErrNotOpen)
}

func TestSetAnswerValidates(t *testing.T) {
	c := New(newFakeBackend(), Options{Debounce: -1})
	require.NoError(t, c.Open(context.Background(), "water", 2023))

	assert.ErrorIs(t, c.SetAnswer("B", "5"), ErrInvalidAnswer)
	assert.ErrorIs(t, c.SetAnswer("A", "3"), ErrInvalidAnswer)
	assert.ErrorIs(t, c.SetAnswer("C", "abc"), ErrInvalidAnswer)
	assert.ErrorIs(t, c.SetAnswer("Z", "1"), ErrUnknownQuestion)
	assert.Equal(t, map[string]any{"A": nil, "B": nil, "C": nil}, values(c))
}

func TestSubmitEncodesByType(t *testing.T) {
	f := newFakeBackend()
	c := New(f, Options{Debounce: -1})
	require.NoError(t, c.Open(context.Background(), "water", 2023))
	require.NoError(t, c.SetAnswer("B", "3"))
	require.NoError(t, c.SetAnswer("C", "42.5"))

	require.NoError(t, c.Submit(context.Background()))

	require.Len(t, f.submitted, 1)
	assert.Equal(t, dto.Submission{
		Section: "water",
		Year:    2023,
		Answers: []dto.SubmittedAnswer{
			{QuestionCode: "A", Answer: nil},
			{QuestionCode: "B", Answer: "3"},
			{QuestionCode: "C", Answer: 42.5},
		},
	}, f.submitted[0])
}

func TestSubmitSuccessClearsState(t *testing.T) {
	c := New(newFakeBackend(), Options{Debounce: -1})
	require.NoError(t, c.Open(context.Background(), "water", 2023))
	require.NoError(t, c.SetAnswer("A", "1"))

	require.NoError(t, c.Submit(context.Background()))

	assert.False(t, c.IsOpen())
	assert.Empty(t, c.Answers())
	assert.Empty(t, c.Questions())
}

func TestSubmitFailureKeepsState(t *testing.T) {
	f := newFakeBackend()
	f.submitErr = errors.New("boom")
	c := New(f, Options{Debounce: -1})
	require.NoError(t, c.Open(context.Background(), "water", 2023))
	require.NoError(t, c.SetAnswer("C", "7"))
	before := c.Answers()

	assert.EqualError(t, c.Submit(context.Background()), "boom")

	assert.True(t, c.IsOpen())
	assert.Equal(t, before, c.Answers())
	assert.Equal(t, 2023, c.Year())
}

func TestSubmitWaitsForYearChange(t *testing.T) {
	f := newFakeBackend()
	c := New(f, Options{Debounce: time.Hour})
	require.NoError(t, c.Open(context.Background(), "water", 2022))
	require.NoError(t, c.ChangeYear(2023))

	assert.True(t, c.Loading())
	assert.ErrorIs(t, c.Submit(context.Background()), ErrLoading)
	assert.Empty(t, f.submitted)

	c.Close()
	c.Wait()
}

func TestCloseCancelsPendingRefetch(t *testing.T) {
	f := newFakeBackend()
	c := New(f, Options{Debounce: time.Hour})
	require.NoError(t, c.Open(context.Background(), "water", 0))
	require.NoError(t, c.ChangeYear(2023))

	c.Close()
	c.Wait()

	assert.False(t, c.IsOpen())
	assert.Empty(t, f.fetched())
}
