package cmd

import (
	"video-catalog/feature/accounts"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	userName     string
	userPassword string
	userAdmin    bool
)

// userCmd groups user administration commands.
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

// userCreateCmd creates an account, typically the first admin.
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Example: `  user create --username admin --password 's3cret-pass' --admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(false)
		if err != nil {
			return err
		}
		defer rt.log.Sync()

		svc := accounts.NewService(rt.db, nil, rt.log)
		user, err := svc.CreateUser(cmd.Context(), userName, userPassword, userAdmin)
		if err != nil {
			return err
		}
		rt.log.Info("User created",
			zap.Uint("id", user.ID),
			zap.String("username", user.Username),
			zap.Bool("admin", user.IsAdmin))
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userName, "username", "", "Username (required)")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password (required)")
	userCreateCmd.Flags().BoolVar(&userAdmin, "admin", false, "Grant admin rights")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
	RootCmd.AddCommand(userCmd)
}
