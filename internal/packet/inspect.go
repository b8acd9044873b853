package packet

import "gopkg.in/yaml.v3"

// Node is a serialisable view of a decoded packet.
type Node struct {
	Version    uint8  `yaml:"version"`
	Type       string `yaml:"type"`
	LengthType string `yaml:"length_type,omitempty"`
	Bits       int    `yaml:"bits"`
	Value      string `yaml:"value,omitempty"`
	Children   []Node `yaml:"children,omitempty"`
}

func Inspect(p Packet) Node {
	switch n := p.(type) {
	case *Literal:
		return Node{Version: n.Ver, Type: "literal", Bits: n.Bits, Value: n.Value.Dec()}
	case *Operator:
		node := Node{
			Version:    n.Ver,
			Type:       n.Kind.String(),
			LengthType: n.Length.String(),
			Bits:       n.Bits,
			Children:   make([]Node, 0, len(n.Children)),
		}
		for _, child := range n.Children {
			node.Children = append(node.Children, Inspect(child))
		}
		return node
	default:
		return Node{}
	}
}

// Report is the document written by the inspect command.
type Report struct {
	VersionSum uint64    `yaml:"version_sum"`
	Value      string    `yaml:"value,omitempty"`
	EvalError  string    `yaml:"eval_error,omitempty"`
	Stats      TreeStats `yaml:"stats"`
	Root       Node      `yaml:"root"`
}

// NewReport evaluates p and records an evaluation failure instead of returning it.
func NewReport(p Packet) Report {
	r := Report{
		VersionSum: VersionSum(p),
		Stats:      Stats(p),
		Root:       Inspect(p),
	}
	if v, err := Evaluate(p); err != nil {
		r.EvalError = err.Error()
	} else {
		r.Value = v.Dec()
	}
	return r
}

func (r Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
