package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/pfm/internal/cli"
	"github.com/theirongolddev/pfm/internal/controller"
	"github.com/theirongolddev/pfm/internal/router"
)

var (
	flagEmail    string
	flagPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&flagEmail, "email", "", "Account email")
		c.Flags().StringVar(&flagPassword, "password", "", "Account password (prompted when omitted)")
	}
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

// promptCredentials asks for whatever was not given on the command line.
func promptCredentials(email, password, confirm *string, withConfirm bool) error {
	var fields []huh.Field
	if strings.TrimSpace(*email) == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password))
		if withConfirm {
			fields = append(fields, huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(confirm))
		}
	} else if withConfirm {
		*confirm = *password
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func runLogin(cmd *cobra.Command, _ []string) error {
	email, password := flagEmail, flagPassword
	if err := promptCredentials(&email, &password, nil, false); err != nil {
		return err
	}

	auth := controller.NewAuth(env.client, env.session, env.log)
	progress("Logging in to %s...", env.client.BaseURL())
	if !auth.Login(commandContext(cmd), email, password) {
		return failed(auth.ErrMsg())
	}

	fmt.Println(cli.RenderSuccess("Logged in as " + env.session.User().Email))
	return nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	email, password, confirm := flagEmail, flagPassword, ""
	if err := promptCredentials(&email, &password, &confirm, true); err != nil {
		return err
	}

	auth := controller.NewAuth(env.client, env.session, env.log)
	msg, ok := auth.Register(commandContext(cmd), email, password, confirm)
	if !ok {
		return failed(auth.ErrMsg())
	}

	fmt.Println(cli.RenderSuccess(msg))
	fmt.Println(cli.RenderNotice("  Run `pfm login --email " + strings.TrimSpace(email) + "` to start."))
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	if !env.session.IsAuthenticated() {
		fmt.Println(cli.RenderNotice("  Not logged in."))
		return nil
	}
	auth := controller.NewAuth(env.client, env.session, env.log)
	if !auth.Logout(commandContext(cmd)) {
		return failed(auth.ErrMsg())
	}
	fmt.Println(cli.RenderSuccess("Logged out"))
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	if err := requireRoute(router.Dashboard); err != nil {
		return err
	}
	user, err := env.client.Profile(commandContext(cmd), env.session.Token())
	if err != nil {
		return failed(controller.Describe(err))
	}
	fmt.Println(cli.RenderTable(cli.Table{
		Rows: [][]string{
			{"Email", user.Email},
			{"User ID", fmt.Sprintf("%d", user.ID)},
			{"Server", env.client.BaseURL()},
		},
	}))
	return nil
}
