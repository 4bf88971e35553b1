package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type credentials struct {
	Name     string
	Email    string
	Password string
}

func addCredentialArgs(cmd *cobra.Command, c *credentials, withName bool) {
	if withName {
		cmd.Flags().StringVar(&c.Name, "name", "", "Display name.")
	}
	cmd.Flags().StringVar(&c.Email, "email", "", "Account email.")
	cmd.Flags().StringVar(&c.Password, "password", "", "Account password.")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
}

func addSignup(topLevel *cobra.Command) {
	c := &credentials{}
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Example: `
journal signup --name Ada --email ada@example.com --password s3cret
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			u, err := a.client.Signup(cmd.Context(), c.Name, c.Email, c.Password)
			if err != nil {
				return err
			}
			if err := a.state.SignIn(u); err != nil {
				return err
			}
			_, _ = color.New(color.FgGreen).Fprintf(color.Output, "Welcome, %s. Signed in as %s.\n", nameOr(u.Name, u.Email), u.Email)
			return nil
		},
	}
	addCredentialArgs(cmd, c, true)
	topLevel.AddCommand(cmd)
}

func addSignin(topLevel *cobra.Command) {
	c := &credentials{}
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and download your journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if a.outbox != nil {
				if pending, _ := a.outbox.Pending(); len(pending) > 0 {
					return fmt.Errorf("%d local change(s) have not synced yet; run `journal sync` first", len(pending))
				}
			}
			u, err := a.client.Signin(cmd.Context(), c.Email, c.Password)
			if err != nil {
				return err
			}
			if err := a.state.SignIn(u); err != nil {
				return err
			}
			_, _ = color.New(color.FgGreen).Fprintf(color.Output, "Signed in as %s (%d entries).\n", u.Email, len(u.Journal))
			return nil
		},
	}
	addCredentialArgs(cmd, c, false)
	topLevel.AddCommand(cmd)
}

func addSignout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "signout",
		Short: "Forget the local copy of your journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if a.outbox != nil {
				if pending, _ := a.outbox.Pending(); len(pending) > 0 {
					return errors.New("unsynced changes would be lost; run `journal sync` first")
				}
			}
			if err := a.state.SignOut(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(color.Output, "Signed out.")
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
