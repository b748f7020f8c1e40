package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/cadbom/pkg/bom"
	"github.com/chazu/cadbom/pkg/csg"
	"github.com/chazu/cadbom/pkg/scad"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms assembly script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: nut-height -> nut_height
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNode wraps a csg.Node so it can be passed between builtins.
type sexpNode struct {
	node *csg.Node
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	if n.node.Label != "" {
		return fmt.Sprintf("(part %q)", n.node.Label)
	}
	return fmt.Sprintf("(%s)", n.node.Kind)
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a csg.Vec3.
type sexpVec3 struct {
	vec csg.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	order      []string
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if _, seen := result.kw[name]; !seen {
				result.order = append(result.order, name)
			}
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toFlag reads a boolean keyword. A trailing keyword with no value counts
// as true.
func toFlag(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toCost reads a unit cost written as a number or as a decimal string.
// Strings keep exact cents; numbers go through their shortest float form.
func toCost(s zygo.Sexp) (decimal.Decimal, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return decimal.NewFromInt(v.Val), nil
	case *zygo.SexpFloat:
		return decimal.NewFromFloat(v.Val), nil
	case *zygo.SexpStr:
		d, err := decimal.NewFromString(v.S)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("invalid cost %q: %w", v.S, err)
		}
		return d, nil
	}
	return decimal.Decimal{}, fmt.Errorf("expected number or string, got %T (%s)", s, s.SexpString(nil))
}

// toField converts a defpart metadata value to the Go value stored on the part.
func toField(s zygo.Sexp) (any, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	case *zygo.SexpStr:
		return v.S, nil
	case *zygo.SexpBool:
		return v.Val, nil
	}
	return nil, fmt.Errorf("expected number, string or bool, got %T (%s)", s, s.SexpString(nil))
}

// toNode extracts a csg.Node from a sexpNode.
func toNode(s zygo.Sexp) (*csg.Node, error) {
	if n, ok := s.(*sexpNode); ok {
		return n.node, nil
	}
	return nil, fmt.Errorf("expected geometry, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (csg.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return csg.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toNodes collects geometry arguments. Lists and arrays are flattened one
// level so scripts can pass the result of map.
func toNodes(args []zygo.Sexp) ([]*csg.Node, error) {
	var nodes []*csg.Node
	for i, a := range args {
		if n, ok := a.(*sexpNode); ok {
			nodes = append(nodes, n.node)
			continue
		}
		items, err := sexpListToSlice(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: expected geometry, got %T (%s)", i+1, a, a.SexpString(nil))
		}
		for _, item := range items {
			n, err := toNode(item)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i+1, err)
			}
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// reservedKeywords are defpart keywords that are not copied into part fields.
var reservedKeywords = map[string]bool{"cost": true, "currency": true}

// registerBuiltins installs the assembly DSL builtins into a zygomys
// environment. Part declarations and usages go to reg; the (assembly ...)
// form fills in res.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, reg *bom.Registry, res *Result) {
	constructors := make(map[string]bom.Constructor)

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		v, err := vec3Args(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (cube (vec3 30 10 5) :center true) or (cube 30 10 5)
	// -----------------------------------------------------------------------
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		var size csg.Vec3
		var err error
		switch len(pa.positional) {
		case 1:
			size, err = toVec3(pa.positional[0])
		case 3:
			size, err = vec3Args(pa.positional)
		default:
			return zygo.SexpNull, fmt.Errorf("cube requires a vec3 or 3 numbers, got %d arguments", len(pa.positional))
		}
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: size: %w", err)
		}

		center := false
		if v, ok := pa.kw["center"]; ok {
			if center, err = toFlag(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("cube: center: %w", err)
			}
		}
		return &sexpNode{node: csg.Cube(size, center)}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :h 2.8 :r 2.65 :fn 6 :center false)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var cd csg.CylinderData

		for _, req := range []struct {
			kw  string
			dst *float64
		}{{"h", &cd.Height}, {"r", &cd.Radius}} {
			v, ok := pa.kw[req.kw]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("cylinder requires :%s", req.kw)
			}
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: %s: %w", req.kw, err)
			}
			*req.dst = f
		}
		if v, ok := pa.kw["fn"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: fn: %w", err)
			}
			cd.Segments = n
		}
		if v, ok := pa.kw["center"]; ok {
			c, err := toFlag(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: center: %w", err)
			}
			cd.Center = c
		}
		return &sexpNode{node: &csg.Node{Kind: csg.KindCylinder, Data: cd}}, nil
	})

	// -----------------------------------------------------------------------
	// (union a b ...), (difference base cut ...), (intersection a b ...)
	// -----------------------------------------------------------------------
	booleans := map[string]func([]*csg.Node) *csg.Node{
		"union":        func(ns []*csg.Node) *csg.Node { return csg.Union(ns...) },
		"intersection": func(ns []*csg.Node) *csg.Node { return csg.Intersection(ns...) },
		"difference":   func(ns []*csg.Node) *csg.Node { return csg.Difference(ns[0], ns[1:]...) },
	}
	for op, build := range booleans {
		env.AddFunction(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			nodes, err := toNodes(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			if len(nodes) == 0 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least one child", name)
			}
			return &sexpNode{node: build(nodes)}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (translate (vec3 0 0 2.5) child), (rotate (vec3 90 0 0) child)
	// -----------------------------------------------------------------------
	transforms := map[string]func(csg.Vec3, *csg.Node) *csg.Node{
		"translate": csg.Translate,
		"rotate":    csg.Rotate,
	}
	for op, build := range transforms {
		env.AddFunction(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires a vec3 and a child, got %d arguments", name, len(args))
			}
			v, err := toVec3(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			child, err := toNode(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: child: %w", name, err)
			}
			return &sexpNode{node: build(v, child)}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (defpart "M3 Nut" :cost 0.04 :currency "R$" :link "..." body)
	// -----------------------------------------------------------------------
	env.AddFunction("defpart", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("defpart requires a name and a body expression")
		}

		partName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: name: %w", err)
		}
		body, err := toNode(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart %q: body: %w", partName, err)
		}

		p := bom.Part{Name: partName}
		if v, ok := pa.kw["cost"]; ok {
			if p.UnitCost, err = toCost(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("defpart %q: cost: %w", partName, err)
			}
		}
		if v, ok := pa.kw["currency"]; ok {
			if p.Currency, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("defpart %q: currency: %w", partName, err)
			}
		}
		for _, kw := range pa.order {
			if reservedKeywords[kw] {
				continue
			}
			f, err := toField(pa.kw[kw])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defpart %q: %s: %w", partName, kw, err)
			}
			if p.Fields == nil {
				p.Fields = make(map[string]any)
			}
			p.Fields[kw] = f
		}

		ctor, err := bom.Define(reg, p, func() *csg.Node { return body })
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: %w", err)
		}
		constructors[partName] = ctor
		return &zygo.SexpStr{S: partName}, nil
	})

	// -----------------------------------------------------------------------
	// (part "M3 Nut")
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}

		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}

		ctor, ok := constructors[partName]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("part: %w: %q", bom.ErrUnknownPart, partName)
		}
		return &sexpNode{node: ctor()}, nil
	})

	// -----------------------------------------------------------------------
	// (assembly "bracket" child ...)
	// -----------------------------------------------------------------------
	env.AddFunction("assembly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("assembly requires a name and at least one child")
		}
		if res.Root != nil {
			return zygo.SexpNull, errAssemblyTwice
		}

		asmName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
		}
		if err := scad.CheckName(asmName); err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: %w", err)
		}
		nodes, err := toNodes(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: %w", err)
		}

		res.Name = asmName
		res.Root = csg.Union(nodes...)
		return &sexpNode{node: res.Root}, nil
	})
}

var errAssemblyTwice = errors.New("assembly declared more than once")

func vec3Args(args []zygo.Sexp) (csg.Vec3, error) {
	var xyz [3]float64
	for i, axis := range []string{"x", "y", "z"} {
		f, err := toFloat64(args[i])
		if err != nil {
			return csg.Vec3{}, fmt.Errorf("%s: %w", axis, err)
		}
		xyz[i] = f
	}
	return csg.V(xyz[0], xyz[1], xyz[2]), nil
}
