package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"golang.org/x/net/html/charset"
)

// node is a generic element tree; the source export has no fixed schema.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Nodes   []node     `xml:",any"`
}

func decode(data []byte) (*node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Reason: "empty document"}
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity

	var root node
	if err := dec.Decode(&root); err != nil {
		return nil, &ParseError{Reason: "malformed XML", Err: err}
	}
	// only comments, processing instructions and whitespace may follow the root
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Reason: "malformed XML", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return nil, &ParseError{Reason: "multiple root elements"}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, &ParseError{Reason: "text after root element"}
			}
		}
	}
	return &root, nil
}

func (n *node) name() string { return n.XMLName.Local }

func (n *node) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (n *node) hasAttr(name string) bool {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return true
		}
	}
	return false
}

func (n *node) child(name string) *node {
	for i := range n.Nodes {
		if n.Nodes[i].name() == name {
			return &n.Nodes[i]
		}
	}
	return nil
}

func (n *node) children(name string) []*node {
	var out []*node
	for i := range n.Nodes {
		if n.Nodes[i].name() == name {
			out = append(out, &n.Nodes[i])
		}
	}
	return out
}

// descendants walks below n in document order.
func (n *node) descendants(name string) []*node {
	var out []*node
	var walk func(*node)
	walk = func(cur *node) {
		for i := range cur.Nodes {
			c := &cur.Nodes[i]
			if c.name() == name {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// path follows nested first children, nil when any step is missing.
func (n *node) path(names ...string) *node {
	cur := n
	for _, name := range names {
		if cur = cur.child(name); cur == nil {
			return nil
		}
	}
	return cur
}
