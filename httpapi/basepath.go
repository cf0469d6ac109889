package httpapi

import "strings"

// normalizeBasePath canonicalizes a configured base path to "" or
// "/segment[/...]" with no trailing slash.
func normalizeBasePath(value string) string {
	trimmed := strings.Trim(strings.TrimSpace(value), "/")
	if trimmed == "" {
		return ""
	}
	return "/" + trimmed
}

// buildBaseHref joins the public URL and base path into the href the UI
// document is served under, slash-terminated whenever non-empty.
func buildBaseHref(baseURL, basePath string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	href := base + normalizeBasePath(basePath)
	if href == "" {
		return ""
	}
	return href + "/"
}
