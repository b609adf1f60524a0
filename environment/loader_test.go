package environment

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mapResolver map[string]string

func (m mapResolver) Resolve(_ context.Context, ref string) (string, error) {
	if v, ok := m[ref]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfileOnly(t *testing.T) {
	c, err := Load(context.Background(), LoadOptions{
		Profile: Development,
		Environ: map[string]string{},
	})
	require.NoError(t, err)
	assert.Equal(t, Development.Config(), c)
}

func TestLoadUnknownProfile(t *testing.T) {
	_, err := Load(context.Background(), LoadOptions{Profile: "staging", Environ: map[string]string{}})
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestLoadOverlays(t *testing.T) {
	file := writeFile(t, "env.yaml", `
apiServerUrl: http://api.internal:5000
auth:
  clientId: from-file
  callbackUrl: http://localhost:4200
`)

	tests := []struct {
		name    string
		environ map[string]string
		check   func(*testing.T, Config)
	}{
		{
			name:    "file over profile",
			environ: map[string]string{},
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "http://api.internal:5000", c.APIServerURL)
				assert.Equal(t, "from-file", c.Auth.ClientID)
				assert.Equal(t, "http://localhost:4200", c.Auth.CallbackURL)
				// untouched keys keep the profile value
				assert.Equal(t, "dev-g310bp-8.us", c.Auth.DomainPrefix)
				assert.Equal(t, "http://www.coffee-shop-api.com", c.Auth.Audience)
				assert.False(t, c.Production)
			},
		},
		{
			name: "environment over file",
			environ: map[string]string{
				"COFFEE_SHOP_AUTH_CLIENT_ID":     "from-env",
				"COFFEE_SHOP_PRODUCTION":         "true",
				"COFFEE_SHOP_AUTH_DOMAIN_PREFIX": "coffee.eu",
			},
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "from-env", c.Auth.ClientID)
				assert.True(t, c.Production)
				assert.Equal(t, "coffee.eu", c.Auth.DomainPrefix)
				assert.Equal(t, "http://api.internal:5000", c.APIServerURL)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(context.Background(), LoadOptions{
				Profile: Development,
				File:    file,
				Environ: tt.environ,
			})
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestLoadFailsFast(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		environ map[string]string
		target  error
	}{
		{
			name:    "invalid url from environment",
			environ: map[string]string{"COFFEE_SHOP_API_SERVER_URL": "127.0.0.1:5000"},
			target:  ErrInvalid,
		},
		{
			name:    "invalid bool",
			environ: map[string]string{"COFFEE_SHOP_PRODUCTION": "maybe"},
		},
		{
			name: "missing file",
			file: filepath.Join(t.TempDir(), "nope.yaml"),
		},
		{
			name: "misspelled nested key",
			file: writeFile(t, "snake.yaml", "auth:\n  client_id: prod-client\n"),
		},
		{
			name: "old client section",
			file: writeFile(t, "auth0.yaml", "auth0:\n  url: prod.eu\n  clientId: prod-client\n"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), LoadOptions{
				Profile: Production,
				File:    tt.file,
				Environ: tt.environ,
			})
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestLoadSecretReferences(t *testing.T) {
	environ := map[string]string{
		"COFFEE_SHOP_AUTH_CLIENT_ID": "vault:secret/coffee-shop#client_id",
	}

	c, err := Load(context.Background(), LoadOptions{
		Profile: Production,
		Environ: environ,
		Secrets: mapResolver{"secret/coffee-shop#client_id": "s3cr3t-client"},
	})
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t-client", c.Auth.ClientID)

	_, err = Load(context.Background(), LoadOptions{
		Profile: Production,
		Environ: environ,
	})
	assert.ErrorContains(t, err, "auth.clientId")

	_, err = Load(context.Background(), LoadOptions{
		Profile: Production,
		Environ: environ,
		Secrets: mapResolver{},
	})
	assert.ErrorContains(t, err, "not found")
}

func TestDotenvRoundTrip(t *testing.T) {
	want := Development.Config()
	want.Auth.ClientID = `quote"and space`

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Development, want, FormatDotenv))

	environ, err := godotenv.Unmarshal(buf.String())
	require.NoError(t, err)

	got, err := Load(context.Background(), LoadOptions{
		Profile: Production,
		Environ: environ,
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadWarnsOnDevelopmentCredentials(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		environ map[string]string
		warns   bool
	}{
		{
			name:    "production left at defaults",
			profile: Production,
			environ: map[string]string{},
			warns:   true,
		},
		{
			name:    "production with only the client id replaced",
			profile: Production,
			environ: map[string]string{"COFFEE_SHOP_AUTH_CLIENT_ID": "prod-client"},
			warns:   true,
		},
		{
			name:    "production fully overridden",
			profile: Production,
			environ: map[string]string{
				"COFFEE_SHOP_AUTH_CLIENT_ID":     "prod-client",
				"COFFEE_SHOP_AUTH_DOMAIN_PREFIX": "coffee-shop.eu",
			},
		},
		{
			name:    "development",
			profile: Development,
			environ: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			_, err := Load(context.Background(), LoadOptions{
				Profile: tt.profile,
				Environ: tt.environ,
				Logger:  zap.New(core).Sugar(),
			})
			require.NoError(t, err)

			warnings := logs.FilterMessageSnippet("development tenant").Len()
			if tt.warns {
				assert.Equal(t, 1, warnings)
			} else {
				assert.Zero(t, warnings)
			}
		})
	}
}
