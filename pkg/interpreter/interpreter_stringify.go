package interpreter

import (
	"strconv"
	"strings"

	"linger/interpreter-go/pkg/runtime"
)

// ValueToString renders a value the way print shows it.
func ValueToString(val runtime.Value) string {
	return valueToString(val)
}

func valueToString(val runtime.Value) string {
	var b strings.Builder
	writeValue(&b, val)
	return b.String()
}

func writeValue(b *strings.Builder, val runtime.Value) {
	switch v := val.(type) {
	case nil, runtime.NilValue:
		b.WriteString("nil")
	case runtime.IntegerValue:
		b.WriteString(strconv.FormatInt(v.Val, 10))
	case runtime.BoolValue:
		b.WriteString(strconv.FormatBool(v.Val))
	case runtime.StringValue:
		b.WriteString(v.Val)
	case *runtime.SequenceValue:
		b.WriteByte('[')
		for idx, el := range v.Elements() {
			if idx > 0 {
				b.WriteString(", ")
			}
			writeValue(b, el)
		}
		b.WriteByte(']')
	case *runtime.FunctionValue:
		if v.Name == "" {
			b.WriteString("<lambda>")
			return
		}
		b.WriteString("<procedure ")
		b.WriteString(v.Name)
		b.WriteByte('>')
	case runtime.NativeFunctionValue:
		b.WriteString("<builtin ")
		b.WriteString(v.Name)
		b.WriteByte('>')
	default:
		b.WriteString("<")
		b.WriteString(val.Kind().String())
		b.WriteString(">")
	}
}
