package environment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gopkg.in/square/go-jose.v2"
)

// ProviderMetadata is the subset of the discovery document the client
// relies on.
type ProviderMetadata struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
}

type ProbeOptions struct {
	// IssuerURL overrides the issuer derived from the record.
	IssuerURL string
	// SkipAPI leaves out the api server check.
	SkipAPI bool
}

type CheckResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type ProbeReport struct {
	Issuer        string        `json:"issuer"`
	SigningKeys   int           `json:"signingKeys"`
	APIStatusCode int           `json:"apiStatusCode,omitempty"`
	Checks        []CheckResult `json:"checks"`
}

func (r *ProbeReport) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

func (r *ProbeReport) add(name string, err error) {
	c := CheckResult{Name: name, OK: err == nil}
	if err != nil {
		c.Error = err.Error()
	}
	r.Checks = append(r.Checks, c)
}

// Probe checks the record against the live identity provider and api
// server. Failing checks end up in the report; an error is only returned
// when the probe could not run at all.
func Probe(ctx context.Context, client *http.Client, c Config, opts ProbeOptions) (*ProbeReport, error) {
	if client == nil {
		client = http.DefaultClient
	}

	issuer := opts.IssuerURL
	if issuer == "" {
		issuer = c.IssuerURL()
	}
	if !strings.HasSuffix(issuer, "/") {
		issuer += "/"
	}

	report := &ProbeReport{Issuer: issuer}

	var meta ProviderMetadata
	err := getJSON(ctx, client, issuer+".well-known/openid-configuration", &meta)
	if err == nil && meta.Issuer != issuer {
		err = fmt.Errorf("issuer mismatch: provider announces %q", meta.Issuer)
	}
	report.add("discovery", err)

	jwksURI := meta.JWKSURI
	if jwksURI == "" {
		jwksURI = issuer + ".well-known/jwks.json"
	}
	var jwks jose.JSONWebKeySet
	err = getJSON(ctx, client, jwksURI, &jwks)
	if err == nil {
		for _, k := range jwks.Keys {
			if k.Use == "" || k.Use == "sig" {
				report.SigningKeys++
			}
		}
		if report.SigningKeys == 0 {
			err = fmt.Errorf("no signing keys at %s", jwksURI)
		}
	}
	report.add("jwks", err)

	if !opts.SkipAPI {
		code, err := status(ctx, client, c.APIServerURL)
		report.APIStatusCode = code
		report.add("api", err)
	}

	return report, nil
}

func getJSON(ctx context.Context, client *http.Client, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", u, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("GET %s: %w", u, err)
	}
	return nil
}

// status only cares whether something answers; any http status counts.
func status(ctx context.Context, client *http.Client, u string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	res, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return res.StatusCode, nil
}
