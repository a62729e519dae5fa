package cmd

import (
	"github.com/spf13/cobra"

	"grafanapdf/internal/router"
	"grafanapdf/pkg/sdk"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users (administrators only)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := Container.Session.FetchUsers(cmd.Context())
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(users))
		for _, u := range users {
			rows = append(rows, []string{u.Username, u.DisplayName, yesNo(u.IsAdmin), u.AuthType, u.Created})
		}
		return printTable(users, []string{"Username", "Name", "Admin", "Auth", "Created"}, rows)
	},
}

var (
	userPassword    string
	userDisplayName string
	userAdmin       bool
	userAuthType    string
)

var usersCreateCmd = &cobra.Command{
	Use:   "create [username]",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := Container.Session.CreateUser(cmd.Context(), sdk.UserCreate{
			Username:    args[0],
			Password:    userPassword,
			IsAdmin:     userAdmin,
			DisplayName: userDisplayName,
			AuthType:    userAuthType,
		})
		if err != nil {
			return err
		}
		printOK("User %s created.", args[0])
		return nil
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update [username]",
	Short: "Update a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := sdk.UserUpdate{}
		flags := cmd.Flags()
		if flags.Changed("password") {
			req.Password = &userPassword
		}
		if flags.Changed("admin") {
			req.IsAdmin = &userAdmin
		}
		if flags.Changed("name") {
			req.DisplayName = &userDisplayName
		}
		if flags.Changed("auth-type") {
			req.AuthType = &userAuthType
		}
		if _, err := Container.Session.UpdateUser(cmd.Context(), args[0], req); err != nil {
			return err
		}
		printOK("User %s updated.", args[0])
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete [username]",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Container.Session.DeleteUser(cmd.Context(), args[0]); err != nil {
			return err
		}
		printOK("User %s deleted.", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{usersCreateCmd, usersUpdateCmd} {
		c.Flags().StringVar(&userPassword, "password", "", "password")
		c.Flags().StringVar(&userDisplayName, "name", "", "display name")
		c.Flags().BoolVar(&userAdmin, "admin", false, "grant administrator rights")
		c.Flags().StringVar(&userAuthType, "auth-type", "", "authentication type (local or ldap)")
	}
	usersCreateCmd.MarkFlagRequired("password")

	usersCmd.AddCommand(usersListCmd, usersCreateCmd, usersUpdateCmd, usersDeleteCmd)
	guardAll(usersCmd, router.Settings)
	RootCmd.AddCommand(usersCmd)
}
