// Package xmldoc loads .NET XML documentation files into an immutable
// in-memory store keyed by canonical doc-comment identifier.
package xmldoc

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// Store maps doc-comment identifiers to documentation fragments for a single
// assembly. It is built once per file and never mutated afterwards; Get
// hands out deep copies so callers can rewrite fragments freely.
type Store struct {
	assembly string
	members  map[string]*etree.Element
}

// Load reads and parses a documentation file from disk.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading documentation file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Store from documentation XML bytes. The document must have
// the fixed shape
//
//	<doc>
//	  <assembly><name>...</name></assembly>
//	  <members><member name="ID">...</member>*</members>
//	</doc>
//
// and any deviation (stray elements, duplicate sections, a member without a
// name attribute) is a fatal load error. Member content is opaque and passed
// through uninterpreted.
func Parse(data []byte) (*Store, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing documentation XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, errors.New("documentation file has no root element")
	}
	if root.Tag != "doc" {
		return nil, fmt.Errorf("document root is <%s>, expected <doc>", root.Tag)
	}

	var assemblyEl, membersEl *etree.Element
	for _, el := range root.ChildElements() {
		switch el.Tag {
		case "assembly":
			if assemblyEl != nil {
				return nil, errors.New("duplicate <assembly> element")
			}
			assemblyEl = el
		case "members":
			if membersEl != nil {
				return nil, errors.New("duplicate <members> element")
			}
			membersEl = el
		default:
			return nil, fmt.Errorf("unexpected <%s> element under <doc>", el.Tag)
		}
	}
	if assemblyEl == nil {
		return nil, errors.New("missing <assembly> element")
	}
	if membersEl == nil {
		return nil, errors.New("missing <members> element")
	}

	nameEl := assemblyEl.SelectElement("name")
	assembly := ""
	if nameEl != nil {
		assembly = strings.TrimSpace(nameEl.Text())
	}
	if assembly == "" {
		return nil, errors.New("missing assembly name")
	}

	members := make(map[string]*etree.Element)
	for _, el := range membersEl.ChildElements() {
		if el.Tag != "member" {
			return nil, fmt.Errorf("unexpected <%s> element under <members>", el.Tag)
		}
		id := el.SelectAttrValue("name", "")
		if id == "" {
			return nil, errors.New("<member> element missing name attribute")
		}
		if _, dup := members[id]; dup {
			return nil, fmt.Errorf("duplicate member %q", id)
		}
		members[id] = el.Copy()
	}

	return &Store{assembly: assembly, members: members}, nil
}

// Assembly returns the assembly name declared by the documentation file.
func (s *Store) Assembly() string { return s.assembly }

// Len returns the number of documented members.
func (s *Store) Len() int { return len(s.members) }

// Get returns a deep copy of the fragment stored for id. Absence is not an
// error; it means no documentation is available for that member.
func (s *Store) Get(id string) (*etree.Element, bool) {
	m, ok := s.members[id]
	if !ok {
		return nil, false
	}
	return m.Copy(), true
}

// Identifiers returns every stored identifier in sorted order.
func (s *Store) Identifiers() []string {
	ids := make([]string, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
