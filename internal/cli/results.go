package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"esgboard/internal/catalog"
	"esgboard/internal/i18n"
	"esgboard/internal/questionnaire"
)

func pct(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 2, 64) + "%"
}

func newDashboardCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the ESG scores of every reported year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.client.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			lang := app.lang()
			app.printf("%s\n", d.Company.Name)
			if len(d.Company.Data) == 0 {
				app.printf("%s\n", i18n.T(lang, "page.noScores"))
				return nil
			}
			w := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\tESG\t\n",
				i18n.Pick(lang, "Year", "Năm"),
				i18n.T(lang, catalog.Environment.NameKey()),
				i18n.T(lang, catalog.Social.NameKey()),
				i18n.T(lang, catalog.Governance.NameKey()))
			for _, s := range d.Company.Data {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t\n", s.Year, pct(s.Environmental), pct(s.Social), pct(s.Governance), pct(s.ESG))
			}
			return w.Flush()
		},
	}
}

func newChartCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chart PILLAR KEY",
		Short: "Print the data behind a pillar chart",
		Example: `  esgctl chart environment water
  esgctl chart social sex-ratio`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := app.catalog.Chart(args[0], args[1]); !ok {
				var keys []string
				for _, ch := range app.catalog.Charts(args[0]) {
					keys = append(keys, ch.Key)
				}
				return fmt.Errorf("unknown chart %s/%s (available: %s)", args[0], args[1], strings.Join(keys, ", "))
			}
			ch, err := app.client.Chart(cmd.Context(), args[0], args[1], app.lang())
			if err != nil {
				return err
			}
			app.printf("%s\n", ch.Title)
			w := tabwriter.NewWriter(app.Out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "\t%s\n", strings.Join(ch.Labels, "\t"))
			for _, s := range ch.Series {
				cells := make([]string, len(s.Values))
				for i, v := range s.Values {
					cells[i] = strconv.FormatFloat(v, 'f', -1, 64)
				}
				fmt.Fprintf(w, "%s\t%s\n", s.Name, strings.Join(cells, "\t"))
			}
			return w.Flush()
		},
	}
}

func newReportCommand(app *App) *cobra.Command {
	var year int
	report := &cobra.Command{
		Use:   "report",
		Short: "Show or export the yearly ESG report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := questionnaire.ValidateYear(year); err != nil {
				return err
			}
			rep, err := app.client.Report(cmd.Context(), year, app.lang())
			if err != nil {
				return err
			}
			app.printf("%s %d\n", rep.Company, rep.Year)
			if rep.Score != nil {
				app.printf("ESG %s  E %s  S %s  G %s\n", pct(rep.Score.ESG), pct(rep.Score.Environmental), pct(rep.Score.Social), pct(rep.Score.Governance))
			}
			for _, sec := range rep.Sections {
				app.printf("\n%s\n", sec.Name)
				for _, a := range sec.Answers {
					answer := a.Answer
					if answer == "" {
						answer = noAnswer
					}
					app.printf("  %s: %s\n", a.Question, answer)
				}
			}
			return nil
		},
	}
	report.PersistentFlags().IntVar(&year, "year", time.Now().Year(), "reporting year")

	var output string
	export := &cobra.Command{
		Use:   "export",
		Short: "Download the report as an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := questionnaire.ValidateYear(year); err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("esg-report-%d.xlsx", year)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			err = app.client.ExportReport(cmd.Context(), year, app.lang(), f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				os.Remove(output)
				return err
			}
			app.printf("Wrote %s\n", output)
			return nil
		},
	}
	export.Flags().StringVarP(&output, "output", "o", "", "output file (default esg-report-YEAR.xlsx)")
	report.AddCommand(export)
	return report
}
