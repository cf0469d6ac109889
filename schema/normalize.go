package schema

import "strings"

// ValidatePodSlug ensures a slug is safe to splice into proxy hostnames:
// [a-z0-9-], no leading or trailing dash, no normalization.
func ValidatePodSlug(slug PodSlug) error {
	raw := string(slug)
	if raw == "" {
		return ErrInvalidSlug
	}
	if strings.HasPrefix(raw, "-") || strings.HasSuffix(raw, "-") {
		return ErrInvalidSlug
	}
	for _, r := range raw {
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '-' {
			continue
		}
		return ErrInvalidSlug
	}
	return nil
}

// NormalizeTabName trims and validates a user-entered tab name.
func NormalizeTabName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrInvalidTabName
	}
	return trimmed, nil
}
