package environment

import (
	"context"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v8"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const EnvPrefix = "COFFEE_SHOP_"

const secretRefPrefix = "vault:"

type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

type LoadOptions struct {
	Profile Profile
	// File is an optional YAML overlay using the json field names.
	File    string
	Secrets SecretResolver
	Logger  *zap.SugaredLogger
	// Environ replaces the process environment, mostly for tests.
	Environ map[string]string
}

// Load builds the record for a profile. Later layers win: built-in
// profile, file overlay, COFFEE_SHOP_* variables. Secret references are
// resolved last and the result is validated before it is returned.
func Load(ctx context.Context, opts LoadOptions) (Config, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	if _, ok := profiles[opts.Profile]; !ok {
		return Config{}, fmt.Errorf("%w %q", ErrUnknownProfile, opts.Profile)
	}
	c := opts.Profile.Config()

	if opts.File != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("unable to read %s: %w", opts.File, err)
		}
		// unknown keys (client_id, auth0.url) would otherwise leave the
		// profile value in place without notice
		if err := k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{
			DecoderConfig: &mapstructure.DecoderConfig{
				ErrorUnused:      true,
				Result:           &c,
				TagName:          "koanf",
				WeaklyTypedInput: true,
			},
		}); err != nil {
			return Config{}, fmt.Errorf("unable to decode %s: %w", opts.File, err)
		}
		logger.Debugf("applied overlay %s", opts.File)
	}

	envOpts := env.Options{Prefix: EnvPrefix}
	if opts.Environ != nil {
		envOpts.Environment = opts.Environ
	}
	if err := env.ParseWithOptions(&c, envOpts); err != nil {
		return Config{}, fmt.Errorf("unable to read environment: %w", err)
	}

	if err := resolveSecrets(ctx, &c, opts.Secrets); err != nil {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	if c.Production && c.UsesDevelopmentCredentials() {
		logger.Warnw("production environment uses the development tenant or client id",
			"profile", opts.Profile,
			"domain_prefix", c.Auth.DomainPrefix,
			"client_id", c.Auth.ClientID,
		)
	}

	logger.Infow("environment loaded",
		"profile", opts.Profile,
		"production", c.Production,
		"api_server_url", c.APIServerURL,
		"issuer", c.IssuerURL(),
	)

	return c, nil
}

func resolveSecrets(ctx context.Context, c *Config, r SecretResolver) error {
	fields := []struct {
		name string
		val  *string
	}{
		{"apiServerUrl", &c.APIServerURL},
		{"auth.domainPrefix", &c.Auth.DomainPrefix},
		{"auth.audience", &c.Auth.Audience},
		{"auth.clientId", &c.Auth.ClientID},
		{"auth.callbackUrl", &c.Auth.CallbackURL},
	}

	for _, f := range fields {
		if !strings.HasPrefix(*f.val, secretRefPrefix) {
			continue
		}
		if r == nil {
			return fmt.Errorf("%s: secret reference %q but no secret resolver configured", f.name, *f.val)
		}
		v, err := r.Resolve(ctx, strings.TrimPrefix(*f.val, secretRefPrefix))
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.val = v
	}

	return nil
}
