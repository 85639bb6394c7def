package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"esgboard/internal/catalog"
	"esgboard/internal/i18n"
	"esgboard/internal/models"
	"esgboard/internal/questionnaire"
)

func newSectionsCommand(app *App) *cobra.Command {
	var (
		year   int
		target string
	)
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List questionnaire sections with their status for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := questionnaire.ValidateYear(year); err != nil {
				return err
			}
			lang := app.lang()
			status := map[string]string{}
			if target == "" {
				counts, err := app.client.SubmitCounts(cmd.Context(), year)
				if err != nil {
					return err
				}
				for _, c := range counts {
					status[c.SectionName] = fmt.Sprintf("%d %s", c.SubmitCount, i18n.Pick(lang, "submissions", "lần nộp"))
				}
			} else {
				if !models.ValidTargetType(target) {
					return fmt.Errorf("unknown target type %q", target)
				}
				progress, err := app.client.TargetProgress(cmd.Context(), target, year)
				if err != nil {
					return err
				}
				for _, p := range progress {
					status[p.SectionName] = fmt.Sprintf("%.2f%%", p.PercentileCompleted)
				}
			}

			w := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
			for _, p := range append([]catalog.Pillar{catalog.General}, catalog.Pillars...) {
				fmt.Fprintf(w, "%s\n", i18n.T(lang, p.NameKey()))
				for _, s := range app.catalog.ByPillar(p) {
					st, ok := status[s.Key]
					if !ok {
						st = "-"
					}
					fmt.Fprintf(w, "  %s\t%s\t%s\n", s.Key, i18n.T(lang, s.Name), st)
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "reporting year")
	cmd.Flags().StringVar(&target, "target", "", "show progress of a target questionnaire (short, medium or long)")
	return cmd
}
