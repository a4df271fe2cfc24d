package ldexpand

import (
	"log/slog"
	"strings"

	"sourcery.dny.nu/ldexpand/internal/iri"
)

// expandIRI expands value to an absolute IRI, a blank node identifier or a
// keyword. An empty result means the value maps to null.
//
// When local is set, terms from the context definition being processed are
// created on demand.
func (p *run) expandIRI(
	activeContext *Context,
	value string,
	relative bool,
	vocab bool,
	local *localContext,
) (string, error) {
	// 1)
	if isKeyword(value) {
		return value, nil
	}

	// 2)
	if looksLikeKeyword(value) {
		p.logger.Warn("ignoring keyword lookalike value",
			slog.String("value", value))
		return "", nil
	}

	// 3)
	if local.pending(value) {
		if err := p.createTerm(activeContext, local, value, local.opts.dependency()); err != nil {
			return "", err
		}
	}

	t, hasTerm := activeContext.defs[value]

	// 4)
	if hasTerm && isKeyword(t.IRI) {
		return t.IRI, nil
	}

	// 5)
	if vocab && hasTerm {
		return t.IRI, nil
	}

	// 6)
	if strings.Index(value, ":") >= 1 {
		// 6.1)
		prefix, suffix, _ := strings.Cut(value, ":")

		// 6.2)
		if prefix == "_" || strings.HasPrefix(suffix, "//") {
			return value, nil
		}

		// 6.3)
		if local.pending(prefix) {
			if err := p.createTerm(activeContext, local, prefix, local.opts.dependency()); err != nil {
				return "", err
			}
		}

		// 6.4)
		if t, ok := activeContext.defs[prefix]; ok && t.IRI != "" && t.Prefix {
			return t.IRI + suffix, nil
		}

		// 6.5)
		if iri.HasScheme(value) {
			return value, nil
		}
	}

	// 7)
	if vocab && activeContext.vocabMapping != "" {
		return activeContext.vocabMapping + value, nil
	}

	// 8)
	if relative {
		u, err := iri.Resolve(activeContext.currentBaseIRI, value)
		if err != nil {
			return value, nil
		}
		return u, nil
	}

	// 9)
	return value, nil
}
