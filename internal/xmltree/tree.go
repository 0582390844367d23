// Package xmltree parses a provider document into a generic element tree.
// Provider files for the same logical feed arrive with inconsistent tag
// casing, optional namespaces, and occasional non-UTF-8 encodings, so lookup
// is by folded unqualified tag name and the decoder runs non-strict with a
// charset reader.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// Node is one element: local tag name, attributes, text content and children
// in document order.
type Node struct {
	Name     string // unqualified tag name as written
	folded   string // lowercased Name, used for matching
	Attrs    []xml.Attr
	Children []*Node
	text     strings.Builder
}

// Text returns the node's own character data, trimmed.
func (n *Node) Text() string { return strings.TrimSpace(n.text.String()) }

// Attr returns the value of the first attribute whose unqualified name
// matches name case-insensitively, and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return strings.TrimSpace(a.Value), true
		}
	}
	return "", false
}

// Descendants returns all descendant elements (not the node itself) whose
// unqualified tag name matches any of the given names case-insensitively,
// in document order.
func (n *Node) Descendants(names ...string) []*Node {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = struct{}{}
	}
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			if _, ok := set[c.folded]; ok {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// FirstText returns the first non-empty text among descendants matching any
// of the given tag aliases, trying aliases in priority order.
func (n *Node) FirstText(aliases ...string) string {
	for _, a := range aliases {
		for _, d := range n.Descendants(a) {
			if t := d.Text(); t != "" {
				return t
			}
		}
	}
	return ""
}

// Parse reads an XML document into a tree rooted at the document element.
// The decoder is non-strict about casing and entities but a document whose
// element stream dies before the document element closes is rejected: a
// truncated file must surface as a per-file error, not as a smaller tree
// staged with records cut mid-field.
func Parse(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.CharsetReader = charsetReader

	root := &Node{Name: "", folded: ""}
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Name:   t.Name.Local,
				folded: strings.ToLower(t.Name.Local),
				Attrs:  append([]xml.Attr(nil), t.Attr...),
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			stack[len(stack)-1].text.Write(t)
		}
	}

	if len(root.Children) == 0 {
		return nil, fmt.Errorf("parse xml: no document element")
	}
	// The non-strict decoder reports io.EOF instead of an error when input
	// ends with elements still open, so unwind state is the truncation check.
	if len(stack) > 1 {
		return nil, fmt.Errorf("parse xml: truncated document inside <%s>", stack[len(stack)-1].Name)
	}
	return root.Children[0], nil
}

// charsetReader resolves declared encodings (e.g. ISO-8859-1, windows-1252)
// through the IANA index.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}
