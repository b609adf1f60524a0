// Package secrets resolves secret references found in environment values.
//
// A reference has the form <mount>/<path>#<key>, e.g.
// secret/coffee-shop#client_id, and points at a key of a KV v2 secret.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bluele/gcache"
	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

var ErrMalformedRef = errors.New("malformed secret reference")

type VaultConfig struct {
	// Address and Token fall back to VAULT_ADDR and VAULT_TOKEN.
	Address   string
	Token     string
	CacheSize int
	CacheTTL  time.Duration
	Logger    *zap.SugaredLogger
}

// Vault is safe for concurrent use.
type Vault struct {
	api    *vault.Client
	cache  gcache.Cache
	logger *zap.SugaredLogger
}

func NewVault(config VaultConfig) (*Vault, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env config: %w", err)
	}
	if config.Address != "" {
		cfg.Address = config.Address
	}

	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}
	if config.Token != "" {
		api.SetToken(config.Token)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	size := config.CacheSize
	if size <= 0 {
		size = 100
	}
	builder := gcache.New(size).LRU()
	if config.CacheTTL > 0 {
		builder = builder.Expiration(config.CacheTTL)
	}

	return &Vault{
		api:    api,
		cache:  builder.Build(),
		logger: logger,
	}, nil
}

func (v *Vault) Resolve(ctx context.Context, ref string) (string, error) {
	if val, err := v.cache.Get(ref); err == nil {
		return val.(string), nil
	}

	mount, path, key, err := ParseRef(ref)
	if err != nil {
		return "", err
	}

	secret, err := v.api.KVv2(mount).Get(ctx, path)
	if err != nil {
		return "", fmt.Errorf("vault get %s/%s: %w", mount, path, err)
	}

	raw, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %s/%s", key, mount, path)
	}
	val, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s is not a string", ref)
	}

	if err := v.cache.Set(ref, val); err != nil {
		v.logger.Errorf("unable to cache secret %s: %s", ref, err)
	}
	v.logger.Debugf("resolved secret %s", ref)

	return val, nil
}

// Purge drops all cached values.
func (v *Vault) Purge() {
	v.cache.Purge()
}

// ParseRef splits mount/path#key. The mount is the first path segment.
func ParseRef(ref string) (mount, path, key string, err error) {
	p, key, ok := strings.Cut(ref, "#")
	if !ok || key == "" {
		return "", "", "", fmt.Errorf("%w %q: missing #key", ErrMalformedRef, ref)
	}
	mount, path, ok = strings.Cut(strings.Trim(p, "/"), "/")
	if !ok || mount == "" || path == "" {
		return "", "", "", fmt.Errorf("%w %q: expected <mount>/<path>#<key>", ErrMalformedRef, ref)
	}
	return mount, path, key, nil
}
