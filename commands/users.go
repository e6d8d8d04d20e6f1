package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adminkit/adminctl/internal/core/model"
	"github.com/adminkit/adminctl/internal/presentation/formatter"
)

var (
	usersPage    int
	usersPerPage int

	userEmail     string
	userFirstName string
	userLastName  string
	userRole      string
	userStatus    string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage IAM users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List IAM users",
	Args:  cobra.NoArgs,
	RunE:  runUsersList,
}

var usersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single IAM user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersGet,
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an IAM user (the backend sends the activation email)",
	Args:  cobra.NoArgs,
	RunE:  runUsersCreate,
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an IAM user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersUpdate,
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an IAM user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersDelete,
}

func init() {
	usersListCmd.Flags().IntVar(&usersPage, "page", 1, "Page number")
	usersListCmd.Flags().IntVar(&usersPerPage, "per-page", 0, "Users per page (0 = backend default)")

	for _, cmd := range []*cobra.Command{usersCreateCmd, usersUpdateCmd} {
		cmd.Flags().StringVar(&userEmail, "email", "", "Email address")
		cmd.Flags().StringVar(&userFirstName, "first-name", "", "First name")
		cmd.Flags().StringVar(&userLastName, "last-name", "", "Last name")
		cmd.Flags().StringVar(&userRole, "role", "", "Role (admin, operator, viewer)")
		cmd.Flags().StringVar(&userStatus, "status", "", "Status (active, disabled)")
	}
	usersCreateCmd.MarkFlagRequired("email")

	usersCmd.AddCommand(usersListCmd, usersGetCmd, usersCreateCmd, usersUpdateCmd, usersDeleteCmd)
	rootCmd.AddCommand(usersCmd)
}

func runUsersList(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}

	page, err := client.ListUsers(cmd.Context(), usersPage, usersPerPage)
	if err != nil {
		return reportAuthError(err)
	}
	return formatter.Users(os.Stdout, cfg.Output, page)
}

func runUsersGet(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := newClient()
	if err != nil {
		return err
	}

	user, err := client.GetUser(cmd.Context(), args[0])
	if err != nil {
		return reportAuthError(err)
	}
	return formatter.Users(os.Stdout, cfg.Output, model.UserPage{
		Users: []model.User{user},
		Total: 1,
		Page:  1,
	})
}

func userInputFromFlags() model.UserInput {
	return model.UserInput{
		Email:     userEmail,
		FirstName: userFirstName,
		LastName:  userLastName,
		Role:      userRole,
		Status:    userStatus,
	}
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}

	user, err := client.CreateUser(cmd.Context(), userInputFromFlags())
	if err != nil {
		return reportAuthError(err)
	}
	fmt.Printf("Created user %s (%s)\n", user.ID, user.Email)
	return nil
}

func runUsersUpdate(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}

	user, err := client.UpdateUser(cmd.Context(), args[0], userInputFromFlags())
	if err != nil {
		return reportAuthError(err)
	}
	fmt.Printf("Updated user %s (%s)\n", user.ID, user.Email)
	return nil
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	client, _, _, err := newClient()
	if err != nil {
		return err
	}

	if err := client.DeleteUser(cmd.Context(), args[0]); err != nil {
		return reportAuthError(err)
	}
	fmt.Printf("Deleted user %s\n", args[0])
	return nil
}
