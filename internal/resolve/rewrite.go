package resolve

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/dotpages/clrdoc/internal/xmldoc"
)

// Resolver maps a cross-referenced identifier to a short display name. It is
// an explicit capability rather than a global registry so the rewriter can
// be tested with a fake.
type Resolver interface {
	// CommandName returns the Verb-Noun name when id refers to a type that
	// is exposed as a documented command.
	CommandName(id string) (string, bool)

	// TypeName returns the simple (unqualified) name of the type behind id
	// when it is known to this run.
	TypeName(id string) (string, bool)
}

// Rewriter collapses cross-reference markers (<see cref="..."/> and
// <seealso cref="..."/>) inside a fragment into plain text. Explicit marker
// text wins; otherwise the identifier is resolved to a display name.
// Rewriting happens per retrieval, on the store's private copy, because
// command names may only be known late in a run.
type Rewriter struct {
	next     Lookup
	resolver Resolver
}

func NewRewriter(next Lookup, resolver Resolver) *Rewriter {
	return &Rewriter{next: next, resolver: resolver}
}

func (rw *Rewriter) Comments(t Target) (*etree.Element, error) {
	frag, err := rw.next.Comments(t)
	if err != nil || frag == nil {
		return frag, err
	}
	rw.rewrite(frag)
	return frag, nil
}

func isCrossRef(el *etree.Element) bool {
	return el.Tag == "see" || el.Tag == "seealso"
}

// rewrite replaces each cross-reference child of el with a text node.
// Collapsed markers contribute only text, so recursion continues solely
// into children that were not collapsed.
func (rw *Rewriter) rewrite(el *etree.Element) {
	for _, child := range el.ChildElements() {
		cref := child.SelectAttrValue("cref", "")
		if !isCrossRef(child) || cref == "" {
			rw.rewrite(child)
			continue
		}

		text := innerText(child)
		if strings.TrimSpace(text) == "" {
			text = rw.displayText(cref)
		}

		idx := child.Index()
		el.RemoveChildAt(idx)
		el.InsertChildAt(idx, etree.NewText(text))
	}
}

// displayText picks the inline text for an unlabeled cross-reference:
// command name if the target is a documented command, then the type's
// simple name, then the identifier's last dot-separated segment.
func (rw *Rewriter) displayText(cref string) string {
	if rw.resolver != nil {
		if cmd, ok := rw.resolver.CommandName(cref); ok {
			return cmd
		}
		if name, ok := rw.resolver.TypeName(cref); ok {
			return name
		}
	}
	return fallbackDisplay(cref)
}

func fallbackDisplay(cref string) string {
	s := cref
	if len(s) > 2 && s[1] == ':' {
		s = s[2:]
	}
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// innerText flattens every text node under el, in document order.
func innerText(el *etree.Element) string {
	var b strings.Builder
	for _, tok := range el.Child {
		switch v := tok.(type) {
		case *etree.CharData:
			b.WriteString(v.Data)
		case *etree.Element:
			b.WriteString(innerText(v))
		}
	}
	return b.String()
}

// TableResolver is a Resolver backed by a command-name table and the type
// identifiers of the loaded stores.
type TableResolver struct {
	commands map[string]string
	types    map[string]string
}

// NewTableResolver builds a resolver from a type-ID to Verb-Noun command
// table and the T: entries of the given stores. Command keys match
// case-insensitively because the config layer folds TOML keys to lower
// case.
func NewTableResolver(commands map[string]string, stores ...*xmldoc.Store) TableResolver {
	folded := make(map[string]string, len(commands))
	for id, name := range commands {
		folded[strings.ToLower(id)] = name
	}
	types := make(map[string]string)
	for _, store := range stores {
		for _, id := range store.Identifiers() {
			if strings.HasPrefix(id, "T:") {
				types[id] = fallbackDisplay(id)
			}
		}
	}
	return TableResolver{commands: folded, types: types}
}

func (r TableResolver) CommandName(id string) (string, bool) {
	name, ok := r.commands[strings.ToLower(id)]
	return name, ok && name != ""
}

func (r TableResolver) TypeName(id string) (string, bool) {
	name, ok := r.types[id]
	return name, ok
}
