package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/ugent-library/coffee-shop-env/environment"
)

func init() {
	showCmd.Flags().StringP("format", "f", string(environment.FormatJSON), "output format (json, ts, env)")
	showCmd.Flags().StringP("out", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "print the resolved environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		format, err := environment.ParseFormat(formatName)
		if err != nil {
			return err
		}

		profile, c, err := loadEnvironment(cmd.Context())
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
			logger.Infof("writing %s environment to %s", profile, out)
		}

		return environment.Render(w, profile, c, format)
	},
}
