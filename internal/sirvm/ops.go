package sirvm

import (
	"fmt"
	"strings"
)

// isBinOp reports whether op is one of the arithmetic/comparison
// mnemonics internal/sir emits, e.g. "add.i32" or "cmp.lt.f64".
func isBinOp(op string) bool {
	parts := strings.Split(op, ".")
	if len(parts) < 2 {
		return false
	}
	switch parts[0] {
	case "add", "sub", "mul", "div", "mod", "and", "or", "xor", "shl", "shr", "cmp":
		return true
	}
	return false
}

func applyBinOp(op string, lhs, rhs any) (any, error) {
	parts := strings.Split(op, ".")
	kind := parts[0]
	if kind == "cmp" {
		return compare(parts[1], lhs, rhs)
	}

	lf, lIsFloat := lhs.(float64)
	rf, rIsFloat := rhs.(float64)
	if lIsFloat || rIsFloat {
		if !lIsFloat {
			lf = float64(lhs.(int64))
		}
		if !rIsFloat {
			rf = float64(rhs.(int64))
		}
		switch kind {
		case "add":
			return lf + rf, nil
		case "sub":
			return lf - rf, nil
		case "mul":
			return lf * rf, nil
		case "div":
			return lf / rf, nil
		}
		return nil, fmt.Errorf("sirvm: unsupported float op %q", op)
	}

	li, rI := lhs.(int64), rhs.(int64)
	switch kind {
	case "add":
		return li + rI, nil
	case "sub":
		return li - rI, nil
	case "mul":
		return li * rI, nil
	case "div":
		return li / rI, nil
	case "mod":
		return li % rI, nil
	case "and":
		return li & rI, nil
	case "or":
		return li | rI, nil
	case "xor":
		return li ^ rI, nil
	case "shl":
		return li << uint(rI), nil
	case "shr":
		return li >> uint(rI), nil
	}
	return nil, fmt.Errorf("sirvm: unsupported op %q", op)
}

func compare(relOp string, lhs, rhs any) (any, error) {
	lf, lIsFloat := lhs.(float64)
	rf, rIsFloat := rhs.(float64)
	if lIsFloat || rIsFloat {
		if !lIsFloat {
			lf = float64(lhs.(int64))
		}
		if !rIsFloat {
			rf = float64(rhs.(int64))
		}
		return compareOrdered(relOp, lf, rf)
	}
	if li, ok := lhs.(int64); ok {
		ri := rhs.(int64)
		return compareOrdered(relOp, li, ri)
	}
	if ls, ok := lhs.(string); ok {
		rs := rhs.(string)
		return compareOrdered(relOp, ls, rs)
	}
	lb, rb := lhs.(bool), rhs.(bool)
	switch relOp {
	case "eq":
		return lb == rb, nil
	case "ne":
		return lb != rb, nil
	}
	return nil, fmt.Errorf("sirvm: unsupported comparison %q on bool", relOp)
}

type ordered interface{ ~int64 | ~float64 | ~string }

func compareOrdered[T ordered](relOp string, a, b T) (any, error) {
	switch relOp {
	case "eq":
		return a == b, nil
	case "ne":
		return a != b, nil
	case "lt":
		return a < b, nil
	case "le":
		return a <= b, nil
	case "gt":
		return a > b, nil
	case "ge":
		return a >= b, nil
	}
	return nil, fmt.Errorf("sirvm: unsupported comparison %q", relOp)
}
