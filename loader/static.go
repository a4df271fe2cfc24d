// Package loader provides implementations of [ldexpand.Loader].
//
// Use [Static] for contexts that ship with your application and [HTTP] to
// retrieve them over the network. [Chain] combines them, so that the network
// is only used for contexts you don't have a local copy of.
package loader

import (
	"context"
	"io/fs"

	"github.com/cockroachdb/errors"

	ld "sourcery.dny.nu/ldexpand"
)

// Static serves contexts from memory. It's safe for concurrent use.
type Static struct {
	docs map[string]ld.Document
}

// NewStatic creates a [Static] loader from a map of context IRI to the raw
// JSON document.
func NewStatic(contexts map[string][]byte) (*Static, error) {
	docs := make(map[string]ld.Document, len(contexts))
	for iri, data := range contexts {
		doc, err := ld.NewDocument(iri, data)
		if err != nil {
			return nil, err
		}
		docs[iri] = doc
	}

	return &Static{docs: docs}, nil
}

// NewStaticFS creates a [Static] loader from files in fsys. The files map
// holds context IRI to file path.
func NewStaticFS(fsys fs.FS, files map[string]string) (*Static, error) {
	contexts := make(map[string][]byte, len(files))
	for iri, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.Wrapf(err, "reading context for %s", iri)
		}
		contexts[iri] = data
	}

	return NewStatic(contexts)
}

// LoadContext implements [ldexpand.Loader].
func (s *Static) LoadContext(_ context.Context, iri string) (ld.Document, error) {
	doc, ok := s.docs[iri]
	if !ok {
		return ld.Document{}, errors.Wrapf(ld.ErrLoadingRemoteContext, "no static context for %s", iri)
	}
	return doc, nil
}

// Len returns the number of contexts the loader holds.
func (s *Static) Len() int {
	return len(s.docs)
}
