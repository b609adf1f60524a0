package cli

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ugent-library/coffee-shop-env/environment"
)

func init() {
	rootCmd.AddCommand(checkTokenCmd)
}

var checkTokenCmd = &cobra.Command{
	Use:   "check-token [token]",
	Short: "check that an access token was issued for this environment",
	Long:  "Compares the iss and aud claims of a token with the environment. Reads the token from stdin when no argument is given. The signature is not verified.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw string
		if len(args) == 1 {
			raw = args[0]
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			raw = string(data)
		}
		raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))

		_, c, err := loadEnvironment(cmd.Context())
		if err != nil {
			return err
		}

		report, err := environment.CheckToken(c, raw)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}

		if !report.OK() {
			return errors.New("token was not issued for this environment")
		}
		return nil
	},
}
