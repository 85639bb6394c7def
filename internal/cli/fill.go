package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"esgboard/internal/apiclient"
	"esgboard/internal/dto"
	"esgboard/internal/i18n"
	"esgboard/internal/models"
	"esgboard/internal/questionnaire"
)

const noAnswer = "-"

// Form actions offered after every pass over the questions.
const (
	actionSubmit = iota
	actionEdit
	actionChangeYear
	actionQuit
)

func newFillCommand(app *App) *cobra.Command {
	var (
		year   int
		target string
	)
	cmd := &cobra.Command{
		Use:   "fill SECTION",
		Short: "Answer a section questionnaire interactively",
		Long: `Loads the questions of SECTION and the answers already stored for the
year, walks through every question and submits the whole section.

With --target the short, medium or long term target questionnaire is filled
instead of the reported metrics.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, ok := app.catalog.Section(args[0])
			if !ok {
				return fmt.Errorf("unknown section %q", args[0])
			}
			var backend questionnaire.Backend = apiclient.MetricsBackend{Client: app.client}
			if target != "" {
				if !models.ValidTargetType(target) {
					return fmt.Errorf("unknown target type %q", target)
				}
				backend = apiclient.TargetBackend{Client: app.client, TargetType: target}
			}
			f := &form{
				app: app,
				ctrl: questionnaire.New(backend, questionnaire.Options{
					Debounce: app.v.GetDuration("debounce"),
					Lang:     app.lang(),
					Logger:   app.log,
				}),
				lang: app.lang(),
			}
			defer f.ctrl.Close()

			if year == 0 {
				var err error
				if year, err = f.askYear(0); err != nil {
					return err
				}
			}
			if err := f.ctrl.Open(cmd.Context(), section.Key, year); err != nil {
				return err
			}
			app.printf("%s (%d)\n", i18n.T(f.lang, section.Name), year)
			return f.run(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "reporting year (asked when omitted)")
	cmd.Flags().StringVar(&target, "target", "", "target questionnaire: short, medium or long")
	return cmd
}

type form struct {
	app  *App
	ctrl *questionnaire.Controller
	lang i18n.Lang
}

func (f *form) run(ctx context.Context) error {
	for {
		if err := f.edit(); err != nil {
			return err
		}
		for {
			action, err := f.app.Prompter.Select(
				i18n.Pick(f.lang, "What next?", "Tiếp theo?"),
				[]string{
					i18n.Pick(f.lang, "Submit", "Gửi"),
					i18n.Pick(f.lang, "Edit answers", "Sửa câu trả lời"),
					i18n.Pick(f.lang, "Change year", "Đổi năm"),
					i18n.Pick(f.lang, "Quit without submitting", "Thoát không gửi"),
				}, 0)
			if err != nil {
				return err
			}

			switch action {
			case actionSubmit:
				year := f.ctrl.Year()
				err := f.ctrl.Submit(ctx)
				if err == nil {
					f.app.printf("%s %d\n", i18n.Pick(f.lang, "Submitted answers for", "Đã gửi câu trả lời năm"), year)
					return nil
				}
				if errors.Is(err, apiclient.ErrUnauthenticated) {
					return err
				}
				f.app.printf("Submit failed: %v\n", err)
				continue
			case actionChangeYear:
				y, err := f.askYear(f.ctrl.Year())
				if err != nil {
					return err
				}
				if err := f.ctrl.ChangeYear(y); err != nil {
					return err
				}
				f.ctrl.Wait()
				if err := f.ctrl.Err(); err != nil {
					f.app.printf("Could not load answers for %d, keeping current values: %v\n", y, err)
				}
			case actionQuit:
				return nil
			}
			break
		}
	}
}

// edit walks every question once, keeping the current value as default.
func (f *form) edit() error {
	questions := f.ctrl.Questions()
	answers := f.ctrl.Answers()
	for i, q := range questions {
		f.app.printf("\n[%d/%d] %s\n", i+1, len(questions), q.Name)
		if q.AnswerGuide != "" {
			f.app.printf("  %s\n", q.AnswerGuide)
		}
		raw, err := f.ask(q, answers[i].Value)
		if err != nil {
			return err
		}
		if err := f.ctrl.SetAnswer(q.Code, raw); err != nil {
			return err
		}
	}
	return nil
}

func (f *form) ask(q dto.Question, current any) (string, error) {
	if q.Type == dto.TypeNumeric {
		def := ""
		if v, ok := current.(float64); ok {
			def = strconv.FormatFloat(v, 'f', -1, 64)
		}
		return f.app.Prompter.Input(q.Code, def, func(s string) error {
			_, err := questionnaire.NumericKind{}.Parse(s)
			return err
		})
	}

	options := q.Options
	if q.Type == dto.TypeBoolean && len(options) == 0 {
		options = []string{i18n.Pick(f.lang, "Yes", "Có"), i18n.Pick(f.lang, "No", "Không")}
	}
	items := append(append([]string(nil), options...), noAnswer)
	cursor := len(options)
	if s, ok := current.(string); ok {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(options) {
			cursor = n - 1
		}
	}
	i, err := f.app.Prompter.Select(q.Code, items, cursor)
	if err != nil {
		return "", err
	}
	if i >= len(options) {
		return "", nil
	}
	return strconv.Itoa(i + 1), nil
}

func (f *form) askYear(current int) (int, error) {
	def := ""
	if current != 0 {
		def = strconv.Itoa(current)
	}
	raw, err := f.app.Prompter.Input(i18n.Pick(f.lang, "Year", "Năm"), def, func(s string) error {
		y, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%q is not a year", s)
		}
		return questionnaire.ValidateYear(y)
	})
	if err != nil {
		return 0, err
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	f.app.log.Debug("Year selected", zap.Int("year", y))
	return y, questionnaire.ValidateYear(y)
}
