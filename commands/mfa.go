package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mfaCmd = &cobra.Command{
	Use:   "mfa",
	Short: "Manage multi-factor authentication",
}

var mfaSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Start MFA enrolment",
	Args:  cobra.NoArgs,
	RunE:  runMFASetup,
}

var mfaVerifyCmd = &cobra.Command{
	Use:   "verify <code>",
	Short: "Confirm MFA enrolment with a TOTP code",
	Args:  cobra.ExactArgs(1),
	RunE:  runMFAVerify,
}

var mfaDisableCmd = &cobra.Command{
	Use:   "disable <code>",
	Short: "Disable MFA (requires a current TOTP code)",
	Args:  cobra.ExactArgs(1),
	RunE:  runMFADisable,
}

func init() {
	mfaCmd.AddCommand(mfaSetupCmd, mfaVerifyCmd, mfaDisableCmd)
	rootCmd.AddCommand(mfaCmd)
}

func runMFASetup(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}

	setup, err := client.MFASetup(cmd.Context())
	if err != nil {
		return reportAuthError(err)
	}

	fmt.Println("Scan this URI with your authenticator app, then run 'adminctl mfa verify <code>':")
	fmt.Println()
	fmt.Println("  " + setup.OTPAuthURI)
	fmt.Println()
	fmt.Printf("Manual entry secret: %s\n", setup.Secret)
	return nil
}

func runMFAVerify(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}

	if err := client.MFAVerify(cmd.Context(), args[0]); err != nil {
		return reportAuthError(err)
	}
	fmt.Println("MFA enabled")
	return nil
}

func runMFADisable(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}

	if err := client.MFADisable(cmd.Context(), args[0]); err != nil {
		return reportAuthError(err)
	}
	fmt.Println("MFA disabled")
	return nil
}
