// Package payload is a tolerant reader for third-party JSON documents.
//
// Every accessor reports whether the field was present. Absent and null
// fields are never errors; a field that is present with the wrong JSON type
// is. Callers pick the default for a missing field at the call site.
package payload

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var ErrInvalidJSON = errors.New("payload is not valid JSON")

type TypeError struct {
	Path string
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("field %s: expected %s, got %s", e.Path, e.Want, e.Got)
}

type Node struct {
	value jsoniter.Any
	path  string
}

func Parse(raw []byte) (Node, error) {
	if len(raw) == 0 || !jsoniter.Valid(raw) {
		return Node{}, ErrInvalidJSON
	}
	root := jsoniter.Get(raw)
	if root.ValueType() != jsoniter.ObjectValue {
		return Node{}, &TypeError{Path: "$", Want: "object", Got: typeName(root.ValueType())}
	}
	return Node{value: root, path: "$"}, nil
}

// Get walks object keys (string) and array indexes (int).
func (n Node) Get(path ...any) Node {
	next := Node{path: n.path + formatPath(path)}
	if n.value == nil {
		return next
	}
	next.value = n.value.Get(path...)
	return next
}

func (n Node) Path() string {
	return n.path
}

func (n Node) Present() bool {
	if n.value == nil {
		return false
	}
	vt := n.value.ValueType()
	return vt != jsoniter.InvalidValue && vt != jsoniter.NilValue
}

func (n Node) Int() (int, bool, error) {
	if !n.Present() {
		return 0, false, nil
	}
	if vt := n.value.ValueType(); vt != jsoniter.NumberValue {
		return 0, false, &TypeError{Path: n.path, Want: "number", Got: typeName(vt)}
	}
	return n.value.ToInt(), true, nil
}

func (n Node) Int64() (int64, bool, error) {
	if !n.Present() {
		return 0, false, nil
	}
	if vt := n.value.ValueType(); vt != jsoniter.NumberValue {
		return 0, false, &TypeError{Path: n.path, Want: "number", Got: typeName(vt)}
	}
	return n.value.ToInt64(), true, nil
}

func (n Node) String() (string, bool, error) {
	if !n.Present() {
		return "", false, nil
	}
	if vt := n.value.ValueType(); vt != jsoniter.StringValue {
		return "", false, &TypeError{Path: n.path, Want: "string", Got: typeName(vt)}
	}
	return n.value.ToString(), true, nil
}

func (n Node) Bool() (bool, bool, error) {
	if !n.Present() {
		return false, false, nil
	}
	if vt := n.value.ValueType(); vt != jsoniter.BoolValue {
		return false, false, &TypeError{Path: n.path, Want: "bool", Got: typeName(vt)}
	}
	return n.value.ToBool(), true, nil
}

func (n Node) IntOr(def int) (int, error) {
	v, ok, err := n.Int()
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

func (n Node) StringOr(def string) (string, error) {
	v, ok, err := n.String()
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

func (n Node) BoolOr(def bool) (bool, error) {
	v, ok, err := n.Bool()
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

// Array returns the elements of an array node; an absent node is an empty array.
func (n Node) Array() ([]Node, error) {
	if !n.Present() {
		return nil, nil
	}
	if vt := n.value.ValueType(); vt != jsoniter.ArrayValue {
		return nil, &TypeError{Path: n.path, Want: "array", Got: typeName(vt)}
	}

	size := n.value.Size()
	nodes := make([]Node, size)
	for i := 0; i < size; i++ {
		nodes[i] = Node{value: n.value.Get(i), path: fmt.Sprintf("%s[%d]", n.path, i)}
	}
	return nodes, nil
}

func formatPath(path []any) string {
	var b strings.Builder
	for _, p := range path {
		switch v := p.(type) {
		case int:
			fmt.Fprintf(&b, "[%d]", v)
		default:
			fmt.Fprintf(&b, ".%v", v)
		}
	}
	return b.String()
}

func typeName(vt jsoniter.ValueType) string {
	switch vt {
	case jsoniter.StringValue:
		return "string"
	case jsoniter.NumberValue:
		return "number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "bool"
	case jsoniter.ArrayValue:
		return "array"
	case jsoniter.ObjectValue:
		return "object"
	default:
		return "nothing"
	}
}
