package environment

import (
	"errors"
	"net/url"
)

// Config is the environment record handed to the client application.
// It only holds values, so copies never share state.
type Config struct {
	Production   bool   `json:"production" koanf:"production" env:"PRODUCTION"`
	APIServerURL string `json:"apiServerUrl" koanf:"apiServerUrl" env:"API_SERVER_URL" validate:"required,absurl"`
	Auth         Auth   `json:"auth" koanf:"auth" envPrefix:"AUTH_"`
}

type Auth struct {
	DomainPrefix string `json:"domainPrefix" koanf:"domainPrefix" env:"DOMAIN_PREFIX" validate:"required,hostname_rfc1123"`
	Audience     string `json:"audience" koanf:"audience" env:"AUDIENCE" validate:"required,uri"`
	ClientID     string `json:"clientId" koanf:"clientId" env:"CLIENT_ID" validate:"required"`
	CallbackURL  string `json:"callbackUrl" koanf:"callbackUrl" env:"CALLBACK_URL" validate:"required,absurl"`
}

const identityProviderDomain = "auth0.com"

func (c Config) IdentityProviderHost() string {
	return c.Auth.DomainPrefix + "." + identityProviderDomain
}

// IssuerURL is the token issuer, including the trailing slash the
// provider puts in the iss claim.
func (c Config) IssuerURL() string {
	return "https://" + c.IdentityProviderHost() + "/"
}

func (c Config) DiscoveryURL() string {
	return c.IssuerURL() + ".well-known/openid-configuration"
}

func (c Config) JWKSURL() string {
	return c.IssuerURL() + ".well-known/jwks.json"
}

// LoginURL is the implicit flow entry point the client sends users to.
// The provider redirects back to the user page below CallbackURL.
func (c Config) LoginURL() string {
	q := url.Values{}
	q.Set("audience", c.Auth.Audience)
	q.Set("response_type", "token")
	q.Set("client_id", c.Auth.ClientID)
	q.Set("redirect_uri", c.Auth.CallbackURL+"/tabs/user-page")
	return c.IssuerURL() + "authorize?" + q.Encode()
}

var (
	ErrUnknownProfile = errors.New("unknown profile")
	ErrInvalid        = errors.New("invalid environment")
	ErrUnknownFormat  = errors.New("unknown format")
)
