package resolve

import (
	"sync"

	"github.com/beevik/etree"
)

// ReportFunc is invoked for a lookup that found no documentation. It only
// records; it must not abort the run.
type ReportFunc func(t Target)

// Reporter invokes a callback for missing documentation, at most once per
// distinct identifier per run. It sits outermost in the chain, so the memo
// cache below may answer repeats; the seen set keeps those repeats silent.
type Reporter struct {
	next   Lookup
	report ReportFunc

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewReporter(next Lookup, report ReportFunc) *Reporter {
	return &Reporter{next: next, report: report, seen: make(map[string]struct{})}
}

func (r *Reporter) Comments(t Target) (*etree.Element, error) {
	frag, err := r.next.Comments(t)
	if err != nil || frag != nil {
		return frag, err
	}

	r.mu.Lock()
	_, reported := r.seen[t.ID]
	if !reported {
		r.seen[t.ID] = struct{}{}
	}
	r.mu.Unlock()

	if !reported {
		r.report(t)
	}
	return nil, nil
}
