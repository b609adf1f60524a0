package environment

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/joho/godotenv"
)

type Format string

const (
	FormatJSON       Format = "json"
	FormatTypeScript Format = "ts"
	FormatDotenv     Format = "env"
)

func Formats() []Format {
	return []Format{FormatJSON, FormatTypeScript, FormatDotenv}
}

func ParseFormat(name string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, name)
}

// ContentType is the media type served for a rendered format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatTypeScript:
		return "application/typescript; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render writes the record for profile p in format f.
func Render(w io.Writer, p Profile, c Config, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case FormatTypeScript:
		return templateTypeScript.Execute(w, templateTypeScriptParams{
			Profile: p,
			Config:  c,
		})
	case FormatDotenv:
		data, err := godotenv.Marshal(Environ(c))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, data+"\n")
		return err
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, f)
}

// Environ maps the record onto the COFFEE_SHOP_* variables Load reads.
func Environ(c Config) map[string]string {
	return map[string]string{
		EnvPrefix + "PRODUCTION":         strconv.FormatBool(c.Production),
		EnvPrefix + "API_SERVER_URL":     c.APIServerURL,
		EnvPrefix + "AUTH_DOMAIN_PREFIX": c.Auth.DomainPrefix,
		EnvPrefix + "AUTH_AUDIENCE":      c.Auth.Audience,
		EnvPrefix + "AUTH_CLIENT_ID":     c.Auth.ClientID,
		EnvPrefix + "AUTH_CALLBACK_URL":  c.Auth.CallbackURL,
	}
}
