package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tasker/internal/cli/formatter"
	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/alexanderramin/tasker/internal/identity"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign up, sign in and manage passwords",
	}

	cmd.AddCommand(
		newAuthSignUpCmd(app),
		newAuthSignInCmd(app),
		newAuthOAuthCmd(app),
		newAuthSignOutCmd(app),
		newAuthWhoAmICmd(app),
		newAuthResetCmd(app),
		newAuthResetConfirmCmd(app),
	)

	return cmd
}

func printSession(cmd *cobra.Command, sess *identity.Session) {
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s %s\n",
		formatter.Bold(sess.UserID),
		formatter.Dim("(expires "+sess.ExpiresAt.Local().Format("2006-01-02 15:04")+")"))
}

func newAuthSignUpCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := promptSecret(app, "Password")
				if err != nil {
					return err
				}
				password = p
			}
			sess, err := app.Identity.SignUp(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := app.saveSession(sess); err != nil {
				return err
			}
			printSession(cmd, sess)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newAuthSignInCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := promptSecret(app, "Password")
				if err != nil {
					return err
				}
				password = p
			}
			sess, err := app.Identity.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := app.saveSession(sess); err != nil {
				return err
			}
			printSession(cmd, sess)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newAuthOAuthCmd(app *App) *cobra.Command {
	var idToken string

	cmd := &cobra.Command{
		Use:   "oauth PROVIDER",
		Short: "Sign in with an Apple or Google id token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := domain.ParseIdentityProvider(args[0])
			if err != nil {
				return err
			}
			sess, err := app.Identity.SignInWithOAuth(cmd.Context(), provider, idToken)
			if err != nil {
				return err
			}
			if err := app.saveSession(sess); err != nil {
				return err
			}
			printSession(cmd, sess)
			return nil
		},
	}

	cmd.Flags().StringVar(&idToken, "id-token", "", "id token issued by the provider (required)")
	_ = cmd.MarkFlagRequired("id-token")

	return cmd
}

func newAuthSignOutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Revoke the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := app.accessToken()
			if token == "" {
				return fmt.Errorf("%w: not signed in", domain.ErrAuthFailure)
			}
			if err := app.Identity.SignOut(cmd.Context(), token); err != nil {
				return err
			}
			if err := app.clearSession(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newAuthWhoAmICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user id",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := app.owner(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), owner)
			return nil
		},
	}
}

func newAuthResetCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Request a password reset token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Identity.RequestPasswordReset(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "If the account exists, a reset token has been sent.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newAuthResetConfirmCmd(app *App) *cobra.Command {
	var token, password string

	cmd := &cobra.Command{
		Use:   "reset-confirm",
		Short: "Set a new password with a reset token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := promptSecret(app, "New password")
				if err != nil {
					return err
				}
				password = p
			}
			if err := app.Identity.ResetPassword(cmd.Context(), token, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated. Sign in again.")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "reset-token", "", "token from the reset message (required)")
	cmd.Flags().StringVar(&password, "password", "", "new password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("reset-token")

	return cmd
}
