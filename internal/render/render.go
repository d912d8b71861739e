// Package render flattens documentation fragments into plain text, markdown
// or HTML for terminal and MCP output. It understands the handful of
// elements that commonly appear inside <member> content (summary, remarks,
// para, param, returns, code, c, list, ...); anything else is flattened to
// its text.
package render

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	gm "github.com/gomarkdown/markdown"
	gmparser "github.com/gomarkdown/markdown/parser"
)

// Text returns the whitespace-normalized plain text of el.
func Text(el *etree.Element) string {
	return collapseSpace(inline(el))
}

// Markdown renders a <member> fragment as markdown, one block per child
// section in document order.
func Markdown(frag *etree.Element) string {
	var parts []string
	for _, el := range frag.ChildElements() {
		if block := renderBlock(el); block != "" {
			parts = append(parts, block)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// XML serializes a fragment back to indented XML.
func XML(frag *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(frag.Copy())
	doc.Indent(2)
	return doc.WriteToString()
}

// HTML renders a fragment to HTML by way of its markdown form.
func HTML(frag *etree.Element) string {
	md := Markdown(frag)
	if md == "" {
		return ""
	}
	p := gmparser.NewWithExtensions(gmparser.CommonExtensions | gmparser.Autolink)
	return string(gm.ToHTML([]byte(md), p, nil))
}

func renderBlock(el *etree.Element) string {
	switch el.Tag {
	case "param":
		return fmt.Sprintf("- `%s`: %s", el.SelectAttrValue("name", "?"), Text(el))
	case "typeparam":
		return fmt.Sprintf("- `%s` (type parameter): %s", el.SelectAttrValue("name", "?"), Text(el))
	case "returns":
		return "Returns: " + Text(el)
	case "exception":
		return fmt.Sprintf("Throws `%s`: %s", lastSegment(el.SelectAttrValue("cref", "?")), Text(el))
	case "seealso":
		if txt := Text(el); txt != "" {
			return "See also: " + txt
		}
		return "See also: " + lastSegment(el.SelectAttrValue("cref", "?"))
	case "code":
		return "```\n" + strings.TrimRight(dedent(rawText(el)), "\n") + "\n```"
	case "list":
		return renderList(el)
	default:
		// summary, remarks, value, example and unknown sections all render
		// as plain paragraphs.
		return paragraphs(el)
	}
}

func renderList(el *etree.Element) string {
	var b strings.Builder
	for _, item := range el.ChildElements() {
		if item.Tag != "item" {
			continue
		}
		term := ""
		desc := ""
		if t := item.SelectElement("term"); t != nil {
			term = Text(t)
		}
		if d := item.SelectElement("description"); d != nil {
			desc = Text(d)
		}
		if term == "" && desc == "" {
			desc = Text(item)
		}
		switch {
		case term != "" && desc != "":
			fmt.Fprintf(&b, "- **%s**: %s\n", term, desc)
		case term != "":
			fmt.Fprintf(&b, "- **%s**\n", term)
		default:
			fmt.Fprintf(&b, "- %s\n", desc)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// paragraphs flattens el, honoring <para> breaks.
func paragraphs(el *etree.Element) string {
	raw := inline(el)
	var out []string
	for _, p := range strings.Split(raw, "\n\n") {
		if p = collapseSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

// inline flattens the tokens of el, rendering inline markup as it goes.
// <para> contributes paragraph breaks that paragraphs() splits on later.
func inline(el *etree.Element) string {
	var b strings.Builder
	for _, tok := range el.Child {
		switch v := tok.(type) {
		case *etree.CharData:
			b.WriteString(v.Data)
		case *etree.Element:
			switch v.Tag {
			case "c":
				b.WriteByte('`')
				b.WriteString(strings.TrimSpace(inline(v)))
				b.WriteByte('`')
			case "paramref", "typeparamref":
				b.WriteByte('`')
				b.WriteString(v.SelectAttrValue("name", ""))
				b.WriteByte('`')
			case "see", "seealso":
				// Normally collapsed by the rewriting stage already; handle
				// raw fragments too.
				if txt := strings.TrimSpace(inline(v)); txt != "" {
					b.WriteString(txt)
				} else {
					b.WriteString(lastSegment(v.SelectAttrValue("cref", "")))
				}
			case "para":
				b.WriteString("\n\n")
				b.WriteString(inline(v))
				b.WriteString("\n\n")
			default:
				b.WriteString(inline(v))
			}
		}
	}
	return b.String()
}

// rawText flattens text without inline markup, for code blocks.
func rawText(el *etree.Element) string {
	var b strings.Builder
	for _, tok := range el.Child {
		switch v := tok.(type) {
		case *etree.CharData:
			b.WriteString(v.Data)
		case *etree.Element:
			b.WriteString(rawText(v))
		}
	}
	return b.String()
}

// dedent strips the common leading whitespace XML indentation adds to
// every line of a code block.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	margin := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}
	if margin <= 0 {
		return strings.TrimLeft(s, "\n")
	}
	for i, line := range lines {
		if len(line) >= margin {
			lines[i] = line[margin:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.TrimLeft(strings.Join(lines, "\n"), "\n")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func lastSegment(id string) string {
	if len(id) > 2 && id[1] == ':' {
		id = id[2:]
	}
	if i := strings.IndexByte(id, '('); i >= 0 {
		id = id[:i]
	}
	if i := strings.LastIndexByte(id, '.'); i >= 0 {
		id = id[i+1:]
	}
	return id
}
