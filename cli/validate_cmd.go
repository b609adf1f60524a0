package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "check that the environment is complete and well formed",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, c, err := loadEnvironment(cmd.Context())
		if err != nil {
			return err
		}
		logger.Infow("environment valid",
			"profile", profile,
			"identity_provider", c.IdentityProviderHost(),
			"login_url", c.LoginURL(),
		)
		return nil
	},
}
