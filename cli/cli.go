package cli

import (
	"context"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/spf13/cobra"
	"github.com/ugent-library/coffee-shop-env/environment"
	"github.com/ugent-library/coffee-shop-env/secrets"
	"go.uber.org/zap"

	_ "github.com/joho/godotenv/autoload"
)

var logger *zap.SugaredLogger
var config Config
var rootCmd = &cobra.Command{
	Use:   "coffee-shop-env",
	Short: "resolve, check and serve the coffee shop client environment",
}

func initConfig() {
	cobra.CheckErr(env.ParseWithOptions(&config, env.Options{
		Prefix: environment.EnvPrefix,
	}))
	// flags win over the environment
	if f := rootCmd.PersistentFlags().Lookup("profile"); f != nil && f.Changed {
		config.Profile = f.Value.String()
	}
	if f := rootCmd.PersistentFlags().Lookup("config"); f != nil && f.Changed {
		config.ConfigFile = f.Value.String()
	}
}

func initLogger() {
	var l *zap.Logger
	var e error
	if config.Production || config.Profile == string(environment.Production) {
		l, e = zap.NewProduction()
	} else {
		l, e = zap.NewDevelopment()
	}
	cobra.CheckErr(e)
	logger = l.Sugar()
}

// loadEnvironment resolves the record for the selected profile. Commands
// call it once and pass the value on.
func loadEnvironment(ctx context.Context) (environment.Profile, environment.Config, error) {
	profile, err := environment.ParseProfile(config.Profile)
	if err != nil {
		return "", environment.Config{}, err
	}

	ttl, err := time.ParseDuration(config.SecretsCacheTTL)
	if err != nil {
		return "", environment.Config{}, err
	}

	resolver, err := secrets.NewVault(secrets.VaultConfig{
		Address:  config.VaultAddr,
		Token:    config.VaultToken,
		CacheTTL: ttl,
		Logger:   logger,
	})
	if err != nil {
		return "", environment.Config{}, err
	}

	c, err := environment.Load(ctx, environment.LoadOptions{
		Profile: profile,
		File:    config.ConfigFile,
		Secrets: resolver,
		Logger:  logger,
	})
	if err != nil {
		return "", environment.Config{}, err
	}

	return profile, c, nil
}

func init() {
	rootCmd.PersistentFlags().String("profile", "", "environment profile (development, production)")
	rootCmd.PersistentFlags().String("config", "", "yaml file overlaying the profile")

	cobra.OnInitialize(initConfig, initLogger)
	cobra.OnFinalize(func() {
		if logger != nil {
			logger.Sync()
		}
	})
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
