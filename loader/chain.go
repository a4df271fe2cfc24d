package loader

import (
	"context"

	"github.com/cockroachdb/errors"

	ld "sourcery.dny.nu/ldexpand"
)

// Chain tries each loader in order and returns the first document that's
// successfully retrieved.
type Chain []ld.Loader

// LoadContext implements [ldexpand.Loader].
func (c Chain) LoadContext(ctx context.Context, iri string) (ld.Document, error) {
	var errs error
	for _, l := range c {
		if err := ctx.Err(); err != nil {
			return ld.Document{}, errors.Mark(err, ld.ErrLoadingRemoteContext)
		}

		doc, err := l.LoadContext(ctx, iri)
		if err == nil {
			return doc, nil
		}
		errs = errors.CombineErrors(errs, err)
	}

	if errs == nil {
		return ld.Document{}, errors.Wrapf(ld.ErrLoadingRemoteContext, "no loader for %s", iri)
	}
	return ld.Document{}, errs
}
