package segment

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// wireNode is the serialized form shared by the JSON and CBOR encodings
type wireNode struct {
	Kind     string  `json:"kind" cbor:"kind"`
	Text     string  `json:"text,omitempty" cbor:"text,omitempty"`
	Tooltip  string  `json:"tooltip,omitempty" cbor:"tooltip,omitempty"`
	Href     string  `json:"href,omitempty" cbor:"href,omitempty"`
	Children []*Node `json:"children,omitempty" cbor:"children,omitempty"`
}

var cborEncMode = func() cbor.EncMode {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder: %v", err))
	}
	return encMode
}()

func (n *Node) toWire() wireNode {
	return wireNode{
		Kind:     n.Kind.String(),
		Text:     n.Text,
		Tooltip:  n.Tooltip,
		Href:     n.Href,
		Children: n.Children,
	}
}

func (n *Node) fromWire(w wireNode) error {
	kind, ok := ParseKind(w.Kind)
	if !ok {
		return fmt.Errorf("unknown segment kind %q", w.Kind)
	}
	*n = Node{Kind: kind, Text: w.Text, Tooltip: w.Tooltip, Href: w.Href, Children: w.Children}
	return nil
}

// MarshalJSON encodes the node with its kind name
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toWire())
}

// UnmarshalJSON decodes a node produced by MarshalJSON
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return n.fromWire(w)
}

// MarshalCBOR produces a deterministic CBOR encoding of the node
func (n *Node) MarshalCBOR() ([]byte, error) {
	data, err := cborEncMode.Marshal(n.toWire())
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// UnmarshalCBOR decodes a node produced by MarshalCBOR
func (n *Node) UnmarshalCBOR(data []byte) error {
	var w wireNode
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("CBOR decoding failed: %w", err)
	}
	return n.fromWire(w)
}
