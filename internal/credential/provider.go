package credential

import (
	"os"
	"strings"
)

// Provider supplies the access token for the text-generation service.
// ok is false when the provider has nothing to offer.
type Provider interface {
	Credential() (value string, ok bool)
}

// Func adapts a plain function to Provider.
type Func func() (string, bool)

func (f Func) Credential() (string, bool) {
	return f()
}

// Static returns a fixed value, typically the key loaded into the config.
type Static string

func (s Static) Credential() (string, bool) {
	v := strings.TrimSpace(string(s))
	return v, v != ""
}

// Env reads the named environment variable on every call.
type Env string

func (e Env) Credential() (string, bool) {
	if e == "" {
		return "", false
	}
	v := strings.TrimSpace(os.Getenv(string(e)))
	return v, v != ""
}

// Chain polls its providers in order and returns the first non-blank value.
type Chain []Provider

func (c Chain) Credential() (string, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if v, ok := p.Credential(); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}
