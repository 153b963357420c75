// Package xmlwalk parses XML into a small element tree that is searched by
// local tag name only. The price feed moves elements between namespace
// versions without warning, so nothing here ever matches on a namespace URI;
// the resolved URI is still available per node for diagnostics.
package xmlwalk

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Node is one element of a parsed document.
type Node struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Text     string
	Children []*Node
}

// Parse reads a complete XML document into a Node tree and returns the root.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node
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
			n := &Node{Name: t.Name, Attrs: t.Copy().Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("parse xml: multiple document roots")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			// The decoder guarantees matching end elements.
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				cur := stack[len(stack)-1]
				cur.Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("parse xml: empty document")
	}
	return root, nil
}

// Local returns the element name without its namespace.
func (n *Node) Local() string {
	return n.Name.Local
}

// Namespace returns the resolved namespace URI of the element, which may be
// empty for namespace-less documents.
func (n *Node) Namespace() string {
	return n.Name.Space
}

// TrimmedText returns the element's character data with surrounding
// whitespace removed.
func (n *Node) TrimmedText() string {
	return strings.TrimSpace(n.Text)
}

// Attr returns the value of the first attribute with the given local name,
// or "" when absent.
func (n *Node) Attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// Find returns the first descendant whose local name matches, searching
// depth-first in document order. The node itself is not considered.
// Returns nil when nothing matches.
func (n *Node) Find(local string) *Node {
	for _, c := range n.Children {
		if c.Name.Local == local {
			return c
		}
		if found := c.Find(local); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant whose local name matches, in document
// order. The node itself is not considered.
func (n *Node) FindAll(local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name.Local == local {
			out = append(out, c)
		}
		out = append(out, c.FindAll(local)...)
	}
	return out
}

// ChildText returns the trimmed text of the first descendant with the given
// local name, or "" when the element is absent.
func (n *Node) ChildText(local string) string {
	c := n.Find(local)
	if c == nil {
		return ""
	}
	return c.TrimmedText()
}
