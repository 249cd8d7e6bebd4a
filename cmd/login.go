package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/validate"
)

// Login command flags.
var (
	loginFlagEmail string
	loginFlagEmoji string
)

// loginCmd represents the login command.
var loginCmd = &cobra.Command{
	Use:   "login FIRST-NAME [LAST-NAME]",
	Short: "Sign in with a local profile",
	Long: `Sign in with a local profile, creating it the first time. While
signed in, exercises are logged to your profile and count towards your
teams. An existing profile is matched by email, or by name when no email
is given.

Examples:
  deskercise login Ada Lovelace
  deskercise login Ada --email ada@example.com --emoji 🦊`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLogin,
}

// logoutCmd represents the logout command.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and log anonymously",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// whoamiCmd represents the whoami command.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in profile",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginFlagEmail, "email", "e", "", "Email address")
	loginCmd.Flags().StringVar(&loginFlagEmoji, "emoji", "", "Avatar emoji shown on leaderboards")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

// runLogin handles the login command.
func runLogin(cmd *cobra.Command, args []string) error {
	first := validate.CleanName(args[0])
	last := ""
	if len(args) > 1 {
		last = validate.CleanName(args[1])
	}
	if err := validate.NonEmpty("first_name", first); err != nil {
		return err
	}
	if err := validate.PersonName("first_name", first); err != nil {
		return err
	}
	if err := validate.PersonName("last_name", last); err != nil {
		return err
	}
	if err := validate.Email(loginFlagEmail); err != nil {
		return err
	}

	user, err := ctx.UserRepo.Find(first, last, loginFlagEmail)
	created := false
	switch {
	case errors.Is(err, errs.ErrUserNotFound):
		user = model.NewUser("", first, last, loginFlagEmail)
		user.AvatarEmoji = loginFlagEmoji
		if err := ctx.UserRepo.Create(user); err != nil {
			return err
		}
		created = true
	case err != nil:
		return err
	case loginFlagEmoji != "" && loginFlagEmoji != user.AvatarEmoji:
		user.AvatarEmoji = loginFlagEmoji
		if err := ctx.UserRepo.Update(user); err != nil {
			return err
		}
	}

	if err := ctx.ConfigRepo.SetCurrentUser(user.ID); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(map[string]any{
			"status":  "signed_in",
			"created": created,
			"user":    user,
		})
	}
	cli := ctx.CLIFormatter()
	if created {
		cli.Success("Welcome, " + user.DisplayName() + "! Your profile was created.")
	} else {
		cli.Success("Signed in as " + user.DisplayName())
	}
	return nil
}

// runLogout handles the logout command.
func runLogout(cmd *cobra.Command, args []string) error {
	if err := ctx.ConfigRepo.SetCurrentUser(""); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(map[string]any{"status": "signed_out"})
	}
	ctx.CLIFormatter().Success("Signed out. Exercises are now logged anonymously.")
	return nil
}

// runWhoami handles the whoami command.
func runWhoami(cmd *cobra.Command, args []string) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(map[string]any{
			"signed_in": user != nil,
			"user":      user,
		})
	}

	cli := ctx.CLIFormatter()
	if user == nil {
		cli.Muted("Not signed in. Exercises are logged anonymously.")
		return nil
	}
	name := user.DisplayName()
	if user.AvatarEmoji != "" {
		name = user.AvatarEmoji + " " + name
	}
	cli.Println(cli.Bold(name))
	if user.Email != "" {
		cli.Println(cli.Note(user.Email))
	}
	return nil
}
