package cmd

import (
	"context"

	"video-catalog/core/token"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// tokenCmd groups token maintenance commands.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage issued tokens",
}

// tokenPurgeCmd drops revocation entries whose tokens have expired.
var tokenPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete revocation entries of expired tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(false)
		if err != nil {
			return err
		}
		defer rt.log.Sync()

		tokens, err := token.NewManager(rt.cfg.Auth, rt.db)
		if err != nil {
			return err
		}
		_, err = purgeRevokedTokens(cmd.Context(), tokens, rt.log)
		return err
	},
}

// purgeRevokedTokens runs one purge and logs its outcome.
func purgeRevokedTokens(ctx context.Context, tokens *token.Manager, logg *zap.Logger) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	purged, err := tokens.PurgeExpired(ctx)
	if err != nil {
		logg.Warn("Failed to purge revoked tokens", zap.Error(err))
		return 0, err
	}
	logg.Info("Purged revoked tokens", zap.Int64("count", purged))
	return purged, nil
}

func init() {
	tokenCmd.AddCommand(tokenPurgeCmd)
	RootCmd.AddCommand(tokenCmd)
}
