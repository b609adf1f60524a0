package cli

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/ugent-library/coffee-shop-env/environment"
)

func init() {
	probeCmd.Flags().String("issuer", "", "override the issuer derived from the domain prefix")
	probeCmd.Flags().Bool("skip-api", false, "do not contact the api server")
	probeCmd.Flags().Duration("timeout", 10*time.Second, "timeout per request")
	rootCmd.AddCommand(probeCmd)
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "check the environment against the identity provider and api server",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := loadEnvironment(cmd.Context())
		if err != nil {
			return err
		}

		issuer, _ := cmd.Flags().GetString("issuer")
		skipAPI, _ := cmd.Flags().GetBool("skip-api")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		report, err := environment.Probe(cmd.Context(), &http.Client{Timeout: timeout}, c, environment.ProbeOptions{
			IssuerURL: issuer,
			SkipAPI:   skipAPI,
		})
		if err != nil {
			return err
		}

		for _, check := range report.Checks {
			if check.OK {
				logger.Infow("check passed", "check", check.Name)
			} else {
				logger.Warnw("check failed", "check", check.Name, "error", check.Error)
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}

		if !report.OK() {
			return errors.New("probe failed")
		}
		return nil
	},
}
