package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"esgboard/internal/dto"
	"esgboard/internal/utils"
)

func newLoginCommand(app *App) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if username == "" {
				if username, err = app.Prompter.Input("Username", "", nil); err != nil {
					return err
				}
			}
			password, err := app.Prompter.Secret("Password")
			if err != nil {
				return err
			}
			p, err := app.client.Login(cmd.Context(), strings.TrimSpace(username), password)
			if err != nil {
				return err
			}
			app.printf("Signed in as %s (%s)\n", p.Username, p.CompanyName)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account email")
	return cmd
}

func newRegisterCommand(app *App) *cobra.Command {
	var creds dto.Credentials
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if creds.Username == "" {
				creds.Username, err = app.Prompter.Input("Email", "", func(s string) error {
					if !utils.IsValidEmail(strings.TrimSpace(s)) {
						return utils.ErrInvalidEmail
					}
					return nil
				})
				if err != nil {
					return err
				}
			}
			if creds.CompanyName == "" {
				if creds.CompanyName, err = app.Prompter.Input("Company name", "", nil); err != nil {
					return err
				}
			}
			if creds.Password, err = app.Prompter.Secret("Password"); err != nil {
				return err
			}
			creds.Username = strings.TrimSpace(creds.Username)
			p, err := app.client.Register(cmd.Context(), creds)
			if err != nil {
				return err
			}
			app.printf("Registered and signed in as %s (%s)\n", p.Username, p.CompanyName)
			return nil
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "account email")
	cmd.Flags().StringVar(&creds.CompanyName, "company", "", "company name")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget its tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.client.Logout(cmd.Context()); err != nil {
				// The local session is gone either way.
				app.log.Warn("Server logout failed", zap.Error(err))
			}
			app.printf("Signed out\n")
			return nil
		},
	}
}

func newProfileCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			app.printf("ID:       %d\nUsername: %s\nCompany:  %s\nSince:    %s\n",
				p.ID, p.Username, p.CompanyName, p.CreatedAt.Format("2006-01-02"))
			return nil
		},
	}
}
