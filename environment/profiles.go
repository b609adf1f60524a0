package environment

import (
	"fmt"
	"strings"
)

type Profile string

const (
	Development Profile = "development"
	Production  Profile = "production"
)

var profiles = map[Profile]Config{
	Development: {
		Production:   false,
		APIServerURL: "http://127.0.0.1:5000",
		Auth: Auth{
			DomainPrefix: "dev-g310bp-8.us",
			Audience:     "http://www.coffee-shop-api.com",
			ClientID:     "WAdAVFv1JYT24sljyxt9vOFRteHbnIEr",
			CallbackURL:  "http://localhost:8100",
		},
	},
	// deployments are expected to override the URLs and supply the client
	// id through COFFEE_SHOP_* variables or a vault reference
	Production: {
		Production:   true,
		APIServerURL: "https://api.coffee-shop.example.com",
		Auth: Auth{
			DomainPrefix: "dev-g310bp-8.us",
			Audience:     "http://www.coffee-shop-api.com",
			ClientID:     "WAdAVFv1JYT24sljyxt9vOFRteHbnIEr",
			CallbackURL:  "https://coffee-shop.example.com",
		},
	},
}

func Profiles() []Profile {
	return []Profile{Development, Production}
}

func ParseProfile(name string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := profiles[p]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// Config returns a copy of the built-in record for the profile. The zero
// Config is returned for profiles outside the closed set.
func (p Profile) Config() Config {
	return profiles[p]
}

// UsesDevelopmentCredentials reports whether the record still points at
// the development tenant or client.
func (c Config) UsesDevelopmentCredentials() bool {
	dev := profiles[Development].Auth
	return c.Auth.DomainPrefix == dev.DomainPrefix || c.Auth.ClientID == dev.ClientID
}

func (p Profile) String() string {
	return string(p)
}
