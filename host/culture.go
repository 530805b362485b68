package host

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

// DefaultCulture is used when the environment names no usable locale.
var DefaultCulture = Culture{tag: language.AmericanEnglish}

// Culture is an immutable locale snapshot such as "en-US".
type Culture struct {
	tag language.Tag
}

// NewCulture wraps a language tag.
func NewCulture(tag language.Tag) Culture {
	return Culture{tag: tag}
}

// ParseCulture parses a BCP 47 tag or a POSIX locale name ("de_DE.UTF-8").
func ParseCulture(s string) (Culture, error) {
	name := normalizeLocale(s)
	if name == "" {
		return Culture{}, fmt.Errorf("locale %q names no culture", s)
	}
	tag, err := language.Parse(name)
	if err != nil {
		return Culture{}, err
	}
	return Culture{tag: tag}, nil
}

// Tag returns the underlying language tag.
func (c Culture) Tag() language.Tag { return c.tag }

// String returns the culture name, e.g. "en-US".
func (c Culture) String() string { return c.tag.String() }

// IsZero reports whether c holds no tag.
func (c Culture) IsZero() bool { return c.tag == language.Und }

// Environment variables consulted for each culture, highest precedence first.
var (
	cultureEnv   = []string{"LC_ALL", "LC_NUMERIC", "LC_TIME", "LANG"}
	uiCultureEnv = []string{"LC_ALL", "LC_MESSAGES", "LANG"}
)

// CurrentCulture reads the process formatting locale from the environment.
// The result is a snapshot; later environment changes do not affect it.
func CurrentCulture() Culture {
	return cultureFromEnv(cultureEnv)
}

// CurrentUICulture reads the process message locale from the environment.
func CurrentUICulture() Culture {
	return cultureFromEnv(uiCultureEnv)
}

func cultureFromEnv(keys []string) Culture {
	for _, key := range keys {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		// POSIX precedence: the first non-empty variable wins, even when it
		// names the C locale.
		c, err := ParseCulture(v)
		if err != nil || c.IsZero() {
			return DefaultCulture
		}
		return c
	}
	return DefaultCulture
}

// normalizeLocale turns "en_US.UTF-8@euro" into "en-US". "C" and "POSIX"
// become the empty string.
func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}
