package config

import (
	"net/url"
	"strings"
)

const redacted = "xxxxx"

// Redacted returns a copy of cfg that is safe to print. Secrets in the
// database URL are masked; everything else is unchanged.
func (cfg *Config) Redacted() *Config {
	out := *cfg
	out.Database.URL = RedactURL(cfg.Database.URL)
	return &out
}

// RedactURL masks the password in a URL's user info and the values of
// query parameters that look like credentials. A value that does not parse
// as a URL is masked entirely unless it is a plain file path.
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return redacted
	}
	if u.Scheme == "" && u.User == nil && u.RawQuery == "" {
		return raw
	}

	if q := u.Query(); len(q) > 0 {
		changed := false
		for key := range q {
			if isSecretKey(key) {
				q.Set(key, redacted)
				changed = true
			}
		}
		if changed {
			u.RawQuery = q.Encode()
		}
	}
	return u.Redacted()
}

func isSecretKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range []string{"pass", "pwd", "secret", "token", "key", "auth"} {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}
