package environment

import (
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

type TokenReport struct {
	Subject       string   `json:"sub,omitempty"`
	Issuer        string   `json:"iss"`
	Audience      []string `json:"aud"`
	IssuerMatch   bool     `json:"issuerMatch"`
	AudienceMatch bool     `json:"audienceMatch"`
}

func (r *TokenReport) OK() bool {
	return r.IssuerMatch && r.AudienceMatch
}

// CheckToken compares the iss and aud claims of an access token with the
// record. The signature is NOT verified; this only tells whether a token
// was minted for this configuration.
func CheckToken(c Config, raw string) (*TokenReport, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("unable to parse token: %w", err)
	}

	iss, err := claims.GetIssuer()
	if err != nil {
		return nil, err
	}
	aud, err := claims.GetAudience()
	if err != nil {
		return nil, err
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, err
	}

	return &TokenReport{
		Subject:       sub,
		Issuer:        iss,
		Audience:      aud,
		IssuerMatch:   iss == c.IssuerURL(),
		AudienceMatch: slices.Contains(aud, c.Auth.Audience),
	}, nil
}
