package kendo

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	hintPolicyOnce sync.Once
	hintPolicy     *bluemonday.Policy
)

// plainText strips every tag from raw. The result is unescaped text that the
// template layer escapes again on output.
func plainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}

// hintMarkup keeps inline formatting and links in hints. The result is safe
// to emit unescaped: braces are encoded so Angular never interpolates hint
// text.
func hintMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return braceEntities.Replace(strings.TrimSpace(hintSanitizer().Sanitize(trimmed)))
}

var braceEntities = strings.NewReplacer("{", "&#123;", "}", "&#125;")

func hintSanitizer() *bluemonday.Policy {
	hintPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "i", "em", "strong", "code", "br", "small")
		policy.AllowAttrs("href", "title").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		hintPolicy = policy
	})
	return hintPolicy
}
