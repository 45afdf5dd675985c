package sexpr

import (
	"bytes"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/metaphox/mil-lang/ast"
)

// YAML renders e as a YAML document, one mapping per node:
//
//	kind: binary
//	op: +
//	left:
//	  kind: identifier
//	  name: a
//	right: ...
func YAML(e ast.Expression) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Node(e)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Node converts e into a yaml.Node tree. Keys appear in a fixed order so
// output is stable.
func Node(e ast.Expression) *yaml.Node {
	m := &mapping{node: &yaml.Node{Kind: yaml.MappingNode}}
	switch n := e.(type) {
	case nil, *ast.Empty:
		m.str("kind", "empty")
	case *ast.IntLiteral:
		m.str("kind", "int")
		m.scalar("value", strconv.FormatInt(n.Value, 10), "!!int")
	case *ast.FloatLiteral:
		m.str("kind", "float")
		m.scalar("value", n.Raw, "!!float")
	case *ast.StringLiteral:
		m.str("kind", "string")
		m.str("value", n.Value)
	case *ast.CharLiteral:
		m.str("kind", "char")
		m.str("value", string(n.Value))
	case *ast.AtomLiteral:
		m.str("kind", "atom")
		m.str("name", n.Name)
	case *ast.BuiltinLiteral:
		m.str("kind", "builtin")
		m.str("name", n.Name)
	case *ast.Identifier:
		m.str("kind", "identifier")
		m.str("name", n.Name)
	case *ast.Assign:
		m.str("kind", "assign")
		m.str("name", n.Name)
		m.child("value", Node(n.Value))
	case *ast.BinaryExpr:
		m.str("kind", "binary")
		m.str("op", n.Op.String())
		m.child("left", Node(n.Left))
		m.child("right", Node(n.Right))
	case *ast.UnaryExpr:
		m.str("kind", "unary")
		m.str("op", n.Op.String())
		m.child("operand", Node(n.Right))
	case *ast.CallExpr:
		m.str("kind", "call")
		m.child("callee", Node(n.Callee))
		args := &yaml.Node{Kind: yaml.SequenceNode}
		for _, a := range n.Args {
			args.Content = append(args.Content, Node(a))
		}
		m.child("args", args)
	case *ast.FieldExpr:
		m.str("kind", "field")
		m.child("object", Node(n.Object))
		m.str("field", n.Field)
	}
	if e != nil {
		pos := e.Pos()
		m.scalar("line", strconv.Itoa(pos.Line), "!!int")
		m.scalar("col", strconv.Itoa(pos.Col), "!!int")
	}
	return m.node
}

type mapping struct {
	node *yaml.Node
}

func (m *mapping) scalar(key, value, tag string) {
	m.node.Content = append(m.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value},
	)
}

func (m *mapping) str(key, value string) {
	m.scalar(key, value, "!!str")
}

func (m *mapping) child(key string, n *yaml.Node) {
	m.node.Content = append(m.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, n)
}
