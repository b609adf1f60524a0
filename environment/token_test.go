package environment

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-checked"))
	require.NoError(t, err)
	return s
}

func TestCheckToken(t *testing.T) {
	c := Development.Config()

	tests := []struct {
		name          string
		claims        jwt.MapClaims
		issuerMatch   bool
		audienceMatch bool
	}{
		{
			name: "issued for this environment",
			claims: jwt.MapClaims{
				"iss": "https://dev-g310bp-8.us.auth0.com/",
				"sub": "auth0|123",
				"aud": []string{"http://www.coffee-shop-api.com", "https://dev-g310bp-8.us.auth0.com/userinfo"},
			},
			issuerMatch:   true,
			audienceMatch: true,
		},
		{
			name: "single audience string",
			claims: jwt.MapClaims{
				"iss": "https://dev-g310bp-8.us.auth0.com/",
				"aud": "http://www.coffee-shop-api.com",
			},
			issuerMatch:   true,
			audienceMatch: true,
		},
		{
			name: "other tenant",
			claims: jwt.MapClaims{
				"iss": "https://other.eu.auth0.com/",
				"aud": "http://www.coffee-shop-api.com",
			},
			audienceMatch: true,
		},
		{
			name: "other api",
			claims: jwt.MapClaims{
				"iss": "https://dev-g310bp-8.us.auth0.com/",
				"aud": "http://www.tea-shop-api.com",
			},
			issuerMatch: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := CheckToken(c, signToken(t, tt.claims))
			require.NoError(t, err)
			assert.Equal(t, tt.issuerMatch, report.IssuerMatch)
			assert.Equal(t, tt.audienceMatch, report.AudienceMatch)
			assert.Equal(t, tt.issuerMatch && tt.audienceMatch, report.OK())
		})
	}
}

func TestCheckTokenMalformed(t *testing.T) {
	_, err := CheckToken(Development.Config(), "not.a.token")
	assert.Error(t, err)
}
