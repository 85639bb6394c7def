package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"esgboard/internal/i18n"
)

func newLangCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "lang [en|vi]",
		Short:     "Show or set the display language",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(i18n.EN), string(i18n.VI)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				app.printf("%s\n", app.store.Lang())
				return nil
			}
			l, ok := i18n.Parse(args[0])
			if !ok {
				return fmt.Errorf("unsupported language %q", args[0])
			}
			if err := app.store.SetLang(l); err != nil {
				return err
			}
			app.printf("%s\n", i18n.Pick(l, "Language set to English", "Đã chuyển sang tiếng Việt"))
			return nil
		},
	}
}
