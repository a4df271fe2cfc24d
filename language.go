package ldexpand

import (
	"log/slog"
	"strings"

	"golang.org/x/text/language"
)

// normalizeLanguage lowercases a language tag. Tags that aren't well-formed
// BCP 47 are kept, but result in a warning.
func (p *run) normalizeLanguage(tag string) string {
	if _, err := language.Parse(tag); err != nil {
		p.logger.Warn("language tag is not well-formed",
			slog.String("language", tag),
			slog.String("error", err.Error()))
	}
	return strings.ToLower(tag)
}
