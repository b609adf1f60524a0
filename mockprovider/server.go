// Package mockprovider is a stand-in identity provider for tests. It only
// publishes the metadata a client configuration is checked against: the
// discovery document and the signing keys.
package mockprovider

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"gopkg.in/square/go-jose.v2"
)

type Config struct {
	// Keys is the number of signing keys published.
	Keys int
	// Issuer overrides the announced issuer, which defaults to the
	// server url with a trailing slash.
	Issuer string
}

type Endpoints struct {
	Issuer                           string   `json:"issuer"`
	AuthorizationEndpoint            string   `json:"authorization_endpoint"`
	TokenEndpoint                    string   `json:"token_endpoint"`
	JWKSURI                          string   `json:"jwks_uri"`
	UserInfoEndpoint                 string   `json:"userinfo_endpoint"`
	ResponseTypesSupported           []string `json:"response_types_supported"`
	IDTokenSigningAlgValuesSupported []string `json:"id_token_signing_alg_values_supported"`
}

type Server struct {
	*httptest.Server
	endpoints *Endpoints
	keys      jose.JSONWebKeySet
}

// New starts a provider; it is closed when the caller calls Close.
func New(config Config) (*Server, error) {
	s := &Server{}

	for i := 0; i < config.Keys; i++ {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, err
		}
		s.keys.Keys = append(s.keys.Keys, jose.JSONWebKey{
			Key:       &key.PublicKey,
			KeyID:     ulid.Make().String(),
			Use:       "sig",
			Algorithm: "RS256",
		})
	}

	mux := chi.NewMux()
	mux.Get("/.well-known/openid-configuration", s.Discovery)
	mux.Get("/.well-known/jwks.json", s.Certs)
	s.Server = httptest.NewServer(mux)

	uriBase := s.URL + "/"
	issuer := config.Issuer
	if issuer == "" {
		issuer = uriBase
	}
	s.endpoints = &Endpoints{
		Issuer:                           issuer,
		AuthorizationEndpoint:            uriBase + "authorize",
		TokenEndpoint:                    uriBase + "oauth/token",
		JWKSURI:                          uriBase + ".well-known/jwks.json",
		UserInfoEndpoint:                 uriBase + "userinfo",
		ResponseTypesSupported:           []string{"code", "token", "id_token"},
		IDTokenSigningAlgValuesSupported: []string{"RS256"},
	}

	return s, nil
}

func (s *Server) Certs(w http.ResponseWriter, r *http.Request) {
	data, _ := json.Marshal(s.keys)
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) Discovery(w http.ResponseWriter, r *http.Request) {
	data, _ := json.Marshal(s.endpoints)
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
