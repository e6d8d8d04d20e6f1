package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/adminkit/adminctl/internal/core/model"
	"github.com/adminkit/adminctl/internal/presentation/formatter"
)

var (
	profileFirstName string
	profileLastName  string
	profilePhone     string
	profileTimezone  string
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Account lifecycle operations",
}

var accountActivateCmd = &cobra.Command{
	Use:   "activate <token>",
	Short: "Activate an account with an emailed token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, _, err := newClient()
		if err != nil {
			return err
		}
		if err := client.ActivateAccount(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Account activated, run 'adminctl login' to sign in")
		return nil
	},
}

var accountForgotCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password reset email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, _, err := newClient()
		if err != nil {
			return err
		}
		if err := client.ForgotPassword(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("If the address exists, a reset email is on its way")
		return nil
	},
}

var accountResetCmd = &cobra.Command{
	Use:   "reset-password <token>",
	Short: "Set a new password with an emailed reset token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print("New password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		client, _, _, err := newClient()
		if err != nil {
			return err
		}
		if err := client.ResetPassword(cmd.Context(), args[0], string(raw)); err != nil {
			return err
		}
		fmt.Println("Password updated, run 'adminctl login' to sign in")
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the signed-in user's profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, cfg, err := newClient()
		if err != nil {
			return err
		}
		profile, err := client.Profile(cmd.Context())
		if err != nil {
			return reportAuthError(err)
		}
		if cfg.Output == "json" {
			return formatter.WriteJSON(os.Stdout, profile)
		}
		fmt.Printf("Name:     %s\n", profile.FullName())
		fmt.Printf("Email:    %s\n", profile.Email)
		fmt.Printf("Role:     %s\n", profile.Role)
		if profile.Phone != "" {
			fmt.Printf("Phone:    %s\n", profile.Phone)
		}
		if profile.Timezone != "" {
			fmt.Printf("Timezone: %s\n", profile.Timezone)
		}
		mfa := "disabled"
		if profile.MFA {
			mfa = "enabled"
		}
		fmt.Printf("MFA:      %s\n", mfa)
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the signed-in user's profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, _, err := newClient()
		if err != nil {
			return err
		}
		_, err = client.UpdateProfile(cmd.Context(), model.ProfileInput{
			FirstName: profileFirstName,
			LastName:  profileLastName,
			Phone:     profilePhone,
			Timezone:  profileTimezone,
		})
		if err != nil {
			return reportAuthError(err)
		}
		fmt.Println("Profile updated")
		return nil
	},
}

func init() {
	profileUpdateCmd.Flags().StringVar(&profileFirstName, "first-name", "", "First name")
	profileUpdateCmd.Flags().StringVar(&profileLastName, "last-name", "", "Last name")
	profileUpdateCmd.Flags().StringVar(&profilePhone, "phone", "", "Phone number")
	profileUpdateCmd.Flags().StringVar(&profileTimezone, "timezone", "", "Preferred timezone")

	profileCmd.AddCommand(profileUpdateCmd)
	accountCmd.AddCommand(accountActivateCmd, accountForgotCmd, accountResetCmd)
	rootCmd.AddCommand(accountCmd, profileCmd)
}
