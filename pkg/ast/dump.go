package ast

import (
	"gopkg.in/yaml.v3"
)

// DumpNode is the serializable form of a node used by the YAML dump
type DumpNode struct {
	Kind     string               `yaml:"kind"`
	Name     string               `yaml:"name,omitempty"`
	Op       string               `yaml:"op,omitempty"`
	Value    *int64               `yaml:"value,omitempty"`
	String   string               `yaml:"string,omitempty"`
	Type     string               `yaml:"type,omitempty"`
	Offset   *int                 `yaml:"offset,omitempty"`
	Padding  int                  `yaml:"padding,omitempty"`
	Size     *int                 `yaml:"size,omitempty"`
	Flags    []string             `yaml:"flags,omitempty"`
	Children map[string]*DumpNode `yaml:"children,omitempty"`
	Items    []*DumpNode          `yaml:"items,omitempty"`
}

// Dump converts the top-level nodes of t into their serializable form
func Dump(t *Tree) []*DumpNode {
	out := make([]*DumpNode, 0, len(t.Root))
	for _, h := range t.Root {
		out = append(out, dumpNode(t, h))
	}
	return out
}

// MarshalYAML renders the tree as a YAML document
func MarshalYAML(t *Tree) ([]byte, error) {
	return yaml.Marshal(map[string][]*DumpNode{"nodes": Dump(t)})
}

func intPtr(v int) *int { return &v }

func dumpFlags(f Flags) []string {
	var out []string
	if f&FlagInsideExpression != 0 {
		out = append(out, "inside_expression")
	}
	if f&FlagIsForwardDeclaration != 0 {
		out = append(out, "forward_declaration")
	}
	if f&FlagHasVariableCombined != 0 {
		out = append(out, "variable_combined")
	}
	return out
}

func dumpNode(t *Tree, h Handle) *DumpNode {
	n, ok := t.Lookup(h)
	if !ok {
		return nil
	}
	d := &DumpNode{Kind: n.Kind().String(), Flags: dumpFlags(n.Flags)}
	child := func(role string, c Handle) {
		if !c.Valid() {
			return
		}
		if d.Children == nil {
			d.Children = make(map[string]*DumpNode)
		}
		d.Children[role] = dumpNode(t, c)
	}
	items := func(hs []Handle) {
		for _, c := range hs {
			d.Items = append(d.Items, dumpNode(t, c))
		}
	}

	switch p := n.Data.(type) {
	case *Expression:
		d.Op = p.Op
		child("left", p.Left)
		child("right", p.Right)
	case *Parentheses:
		child("exp", p.Exp)
	case *Number:
		v := p.Value
		d.Value = &v
	case *Identifier:
		d.Name = p.Name
	case *String:
		d.String = p.Value
	case *Variable:
		d.Name = p.Name
		d.Type = p.Type.String()
		d.Offset = intPtr(p.Offset)
		d.Padding = p.Padding
		d.Size = intPtr(p.Type.SizeOf())
		child("value", p.Value)
	case *VariableList:
		d.Size = intPtr(t.VariableListSize(h))
		items(p.List)
	case *Function:
		d.Name = p.Name
		d.Type = p.ReturnType.String()
		d.Size = intPtr(p.StackSize)
		if p.Native {
			d.Flags = append(d.Flags, "native")
		}
		if p.Variadic {
			d.Flags = append(d.Flags, "variadic")
		}
		items(p.Args)
		child("body", p.Body)
	case *Body:
		d.Size = intPtr(p.Size)
		items(p.Statements)
	case *Return:
		child("exp", p.Exp)
	case *If:
		child("cond", p.Cond)
		child("body", p.Body)
		child("next", p.Next)
	case *Else:
		child("body", p.Body)
	case *While:
		child("cond", p.Cond)
		child("body", p.Body)
	case *DoWhile:
		child("body", p.Body)
		child("cond", p.Cond)
	case *For:
		child("init", p.Init)
		child("cond", p.Cond)
		child("loop", p.Loop)
		child("body", p.Body)
	case *Switch:
		child("exp", p.Exp)
		child("body", p.Body)
	case *Case:
		child("exp", p.Exp)
	case *Goto:
		child("label", p.Label)
	case *Unary:
		d.Op = p.Op
		child("operand", p.Operand)
	case *Ternary:
		child("true", p.True)
		child("false", p.False)
	case *Label:
		child("name", p.Name)
	case *Struct:
		d.Name = p.Name
		child("body", p.Body)
		child("var", p.Var)
	case *Union:
		d.Name = p.Name
		child("body", p.Body)
		child("var", p.Var)
	case *Bracket:
		child("inner", p.Inner)
	case *Cast:
		d.Type = p.Type.String()
		child("operand", p.Operand)
	}
	return d
}
