// Package resolve turns documentation lookups into a small decorator chain
// around one or more xmldoc stores: cross-reference rewriting closest to the
// store, then memoization, then optional missing-documentation reporting.
// The chain is composed once at startup and is safe for concurrent use.
package resolve

import (
	"github.com/beevik/etree"

	"github.com/dotpages/clrdoc/internal/descriptor"
	"github.com/dotpages/clrdoc/internal/docid"
	"github.com/dotpages/clrdoc/internal/xmldoc"
)

// Target names one lookup: the canonical identifier plus a human-readable
// subject used in missing-documentation reports ("command Get-Widget",
// "parameter Name of Get-Widget").
type Target struct {
	ID      string
	Subject string
}

// TargetFor encodes m into its canonical identifier and pairs it with a
// report subject. Encoding fails only on a descriptor shape the encoder
// does not know, which is a programmer error at the call site.
func TargetFor(m descriptor.Member, subject string) (Target, error) {
	id, err := docid.Encode(m)
	if err != nil {
		return Target{}, err
	}
	return Target{ID: id, Subject: subject}, nil
}

// Lookup resolves a target to a documentation fragment. A nil fragment with
// a nil error means no documentation is available; callers decide whether
// that warrants a warning.
type Lookup interface {
	Comments(t Target) (*etree.Element, error)
}

// StoreLookup adapts a single documentation store to the Lookup interface.
type StoreLookup struct {
	Store *xmldoc.Store
}

func (s StoreLookup) Comments(t Target) (*etree.Element, error) {
	frag, ok := s.Store.Get(t.ID)
	if !ok {
		return nil, nil
	}
	return frag, nil
}

// StoreSetLookup queries several stores in order; the first hit wins. Used
// when more than one assembly's documentation is loaded.
type StoreSetLookup struct {
	Stores []*xmldoc.Store
}

func (s StoreSetLookup) Comments(t Target) (*etree.Element, error) {
	for _, store := range s.Stores {
		if frag, ok := store.Get(t.ID); ok {
			return frag, nil
		}
	}
	return nil, nil
}

// NewPipeline composes the standard chain around base: rewriting, then
// caching, then, when report is non-nil, missing-documentation reporting.
func NewPipeline(base Lookup, resolver Resolver, cacheSize int, report ReportFunc) Lookup {
	var l Lookup = NewRewriter(base, resolver)
	l = NewCache(l, cacheSize)
	if report != nil {
		l = NewReporter(l, report)
	}
	return l
}
