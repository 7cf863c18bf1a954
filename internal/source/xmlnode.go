package source

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one element of a parsed XML document. The feeds are too irregular
// for static struct decoding, so adapters work against this generic tree with
// small path expressions instead.
type Node struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Node
}

// ParseXML reads a full document into a node tree. The decoder runs in
// non-strict mode with auto-closing enabled because the feeds occasionally
// ship unescaped entities and mismatched tags; only unrecoverable syntax
// errors surface as a ParseError.
func ParseXML(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose

	root := &Node{Name: ""}
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[a.Name.Local] = a.Value
				}
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			cur := stack[len(stack)-1]
			cur.Text += string(t)
		}
	}

	if len(root.Children) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("document has no elements")}
	}
	return root, nil
}

// FindAll collects every descendant whose element name matches one of names.
// Matched nodes are not descended into, so nested same-named elements inside
// an entity do not produce duplicates.
func (n *Node) FindAll(names ...string) []*Node {
	match := make(map[string]struct{}, len(names))
	for _, name := range names {
		match[name] = struct{}{}
	}

	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, child := range cur.Children {
			if _, ok := match[child.Name]; ok {
				out = append(out, child)
				continue
			}
			walk(child)
		}
	}
	walk(n)
	return out
}

// TrimmedText returns the node's own character data with surrounding
// whitespace removed.
func (n *Node) TrimmedText() string {
	return strings.TrimSpace(n.Text)
}

// Select returns every node reached by path from n. A path is a series of
// element names separated by "/"; a segment may carry a [child=value]
// predicate matching a direct child's text, and a final "@name" segment
// selects an attribute value instead of an element.
//
//	INDIVIDUALS/INDIVIDUAL
//	nameAlias[isPrimary=true]/wholeName
//	@DATAID
func (n *Node) Select(path string) []*Node {
	segments := strings.Split(path, "/")
	current := []*Node{n}

	for _, seg := range segments {
		if seg == "" || seg == "." {
			continue
		}
		if strings.HasPrefix(seg, "@") {
			// Attribute segments terminate the path; represent each value
			// as a synthetic text node so callers stay uniform.
			attr := seg[1:]
			var out []*Node
			for _, c := range current {
				if v, ok := c.Attrs[attr]; ok {
					out = append(out, &Node{Name: attr, Text: v})
				}
			}
			return out
		}

		name, pred := splitPredicate(seg)
		var out []*Node
		for _, c := range current {
			for _, child := range c.Children {
				if child.Name != name {
					continue
				}
				if pred != nil && !pred.matches(child) {
					continue
				}
				out = append(out, child)
			}
		}
		current = out
		if len(current) == 0 {
			return nil
		}
	}
	return current
}

// Value returns the first value reached by any of the given paths, tried in
// order.
func (n *Node) Value(paths ...string) string {
	for _, p := range paths {
		for _, m := range n.Select(p) {
			if v := m.TrimmedText(); v != "" {
				return v
			}
		}
	}
	return ""
}

// Values returns the concatenated non-empty values of all given paths.
func (n *Node) Values(paths ...string) []string {
	var out []string
	for _, p := range paths {
		for _, m := range n.Select(p) {
			if v := m.TrimmedText(); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

type predicate struct {
	child string
	value string
}

func (p *predicate) matches(n *Node) bool {
	if v, ok := n.Attrs[p.child]; ok && strings.EqualFold(v, p.value) {
		return true
	}
	for _, c := range n.Children {
		if c.Name == p.child && strings.EqualFold(c.TrimmedText(), p.value) {
			return true
		}
	}
	return false
}

func splitPredicate(seg string) (string, *predicate) {
	open := strings.IndexByte(seg, '[')
	if open < 0 || !strings.HasSuffix(seg, "]") {
		return seg, nil
	}
	expr := seg[open+1 : len(seg)-1]
	name := seg[:open]
	child, value, ok := strings.Cut(expr, "=")
	if !ok {
		return name, nil
	}
	return name, &predicate{child: child, value: strings.Trim(value, `"'`)}
}
