package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/adminkit/adminctl/internal/core/api"
	"github.com/adminkit/adminctl/internal/util"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in to the admin console",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the local session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user from the access token",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", "",
		"Password (prompted interactively when omitted)")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	password := loginPassword
	if password == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}

	client, _, _, err := newClient()
	if err != nil {
		return err
	}

	result, err := client.SignIn(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	if result.MFARequired {
		fmt.Print("MFA code: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read MFA code: %w", err)
		}
		if err := client.MFAVerify(cmd.Context(), strings.TrimSpace(line)); err != nil {
			return err
		}
	}

	fmt.Printf("Signed in as %s\n", email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}

	// SignOut clears the local session even when the API call fails; a
	// dead backend should not keep us "signed in".
	if err := client.SignOut(cmd.Context()); err != nil {
		util.LogDebugf("Sign-out request failed: %v", err)
	}
	fmt.Println("Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	_, store, _, err := newClient()
	if err != nil {
		return err
	}

	token := store.AccessToken()
	if token == "" {
		return fmt.Errorf("not signed in, run 'adminctl login'")
	}

	claims, err := api.ParseClaims(token)
	if err != nil {
		return err
	}

	fmt.Printf("User:  %s\n", claims.Email)
	if claims.Role != "" {
		fmt.Printf("Role:  %s\n", claims.Role)
	}
	if !claims.ExpiresAt.IsZero() {
		tp := util.GetTimeProvider()
		fmt.Printf("Token: expires %s", tp.In(claims.ExpiresAt).Format("2006-01-02 15:04:05"))
		if claims.ExpiresAt.Before(time.Now()) {
			fmt.Print(" (expired, will refresh on next request)")
		}
		fmt.Println()
	}
	return nil
}
