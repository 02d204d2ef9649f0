// Package sirvm is a minimal reference interpreter for the textual SIR
// internal/sir emits. It exists for end-to-end testability (spec.md
// §8's concrete scenarios): it is not the verified bytecode VM, which
// stays a named external interface outside this compiler's scope.
package sirvm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/simple-lang/internal/sir"
)

// VM executes one emitted Module.
type VM struct {
	mod     *sir.Module
	consts  map[string]any
	globals map[string]any
	funcs   map[string]*compiledFunc
	out     strings.Builder
}

// compiledFunc is a Func with its label offsets resolved once, so jumps
// are O(1) during execution.
type compiledFunc struct {
	fn     *sir.Func
	labels map[string]int
}

// New prepares a VM to run mod; it resolves constants, globals, and
// per-function label tables but does not start execution.
func New(mod *sir.Module) *VM {
	vm := &VM{
		mod:     mod,
		consts:  map[string]any{},
		globals: map[string]any{},
		funcs:   map[string]*compiledFunc{},
	}
	for _, c := range mod.Consts {
		vm.consts[c.Name] = parseConst(c.SIRType, c.Literal)
	}
	for _, f := range mod.Funcs {
		cf := &compiledFunc{fn: f, labels: map[string]int{}}
		for i, ins := range f.Instrs {
			if strings.HasSuffix(ins, ":") && !strings.Contains(ins, " ") {
				cf.labels[strings.TrimSuffix(ins, ":")] = i
			}
		}
		vm.funcs[f.Name] = cf
	}
	for _, g := range mod.Globals {
		if g.Init != "" {
			vm.globals[g.Name] = vm.consts[g.Init]
		} else {
			vm.globals[g.Name] = zeroOf(g.SIRType)
		}
	}
	return vm
}

func zeroOf(sirType string) any {
	switch sirType {
	case "f32", "f64":
		return float64(0)
	case "bool":
		return false
	case "string":
		return ""
	default:
		return int64(0)
	}
}

func parseConst(sirType, literal string) any {
	switch sirType {
	case "f32", "f64":
		v, _ := strconv.ParseFloat(literal, 64)
		return v
	case "bool":
		return literal == "true"
	case "string":
		s, err := strconv.Unquote(literal)
		if err != nil {
			return literal
		}
		return s
	case "char":
		s, err := strconv.Unquote(literal)
		if err != nil || len(s) == 0 {
			return byte(0)
		}
		return s[0]
	default:
		v, err := strconv.ParseInt(literal, 0, 64)
		if err != nil {
			u, uerr := strconv.ParseUint(literal, 0, 64)
			if uerr == nil {
				return int64(u)
			}
		}
		return v
	}
}

// Output returns everything the program wrote via IO.print/println.
func (vm *VM) Output() string { return vm.out.String() }

// Run invokes the module's entry function with no arguments and
// returns its result as a process exit code: the returned i32 value,
// or 0 for a void entry.
func (vm *VM) Run() (int, error) {
	if vm.mod.Entry == "" {
		return 0, fmt.Errorf("sirvm: module has no entry function")
	}
	if initFn, ok := vm.funcs["__global_init"]; ok {
		if _, err := vm.call(initFn, nil); err != nil {
			return 0, err
		}
	}
	entry, ok := vm.funcs[vm.mod.Entry]
	if !ok {
		return 0, fmt.Errorf("sirvm: unknown entry function %q", vm.mod.Entry)
	}
	ret, err := vm.call(entry, nil)
	if err != nil {
		return 0, err
	}
	if n, ok := ret.(int64); ok {
		return int(n), nil
	}
	return 0, nil
}

type frame struct {
	locals []any
	stack  []any
}

func (f *frame) push(v any)  { f.stack = append(f.stack, v) }
func (f *frame) pop() any {
	n := len(f.stack) - 1
	v := f.stack[n]
	f.stack = f.stack[:n]
	return v
}
func (f *frame) dup()  { f.push(f.stack[len(f.stack)-1]) }
func (f *frame) swap() {
	n := len(f.stack)
	f.stack[n-1], f.stack[n-2] = f.stack[n-2], f.stack[n-1]
}

// call executes one function to completion, returning what it last
// pushed before `ret` (or nil for a void function).
func (vm *VM) call(cf *compiledFunc, args []any) (any, error) {
	fr := &frame{locals: make([]any, cf.fn.Locals)}
	for i, a := range args {
		fr.locals[i] = a
	}

	pc := 0
	for pc < len(cf.fn.Instrs) {
		line := cf.fn.Instrs[pc]
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			pc++
			continue
		}
		op, rest := splitOp(line)
		switch op {
		case "ret":
			if len(fr.stack) > 0 {
				return fr.pop(), nil
			}
			return nil, nil
		case "jmp":
			pc = cf.labels[rest]
			continue
		case "jmp.false":
			if !truthy(fr.pop()) {
				pc = cf.labels[rest]
				continue
			}
		case "jmp.true":
			if truthy(fr.pop()) {
				pc = cf.labels[rest]
				continue
			}
		case "pop":
			fr.pop()
		case "dup":
			fr.dup()
		case "swap":
			fr.swap()
		case "ldloc":
			idx, _ := strconv.Atoi(rest)
			fr.push(fr.locals[idx])
		case "stloc":
			idx, _ := strconv.Atoi(rest)
			fr.locals[idx] = fr.pop()
		case "ldglob":
			fr.push(vm.globals[rest])
		case "stglob":
			vm.globals[rest] = fr.pop()
		case "const.i32", "const.i64", "const.i8", "const.i16",
			"const.u8", "const.u16", "const.u32", "const.u64":
			n, _ := strconv.ParseInt(rest, 0, 64)
			fr.push(n)
		case "const.f32", "const.f64":
			v, _ := strconv.ParseFloat(rest, 64)
			fr.push(v)
		case "const.bool":
			fr.push(rest == "true")
		case "const.char":
			s, _ := strconv.Unquote(rest)
			if len(s) > 0 {
				fr.push(s[0])
			} else {
				fr.push(byte(0))
			}
		case "const.string":
			fr.push(vm.consts[rest])
		case "neg.i32", "neg.i64", "neg.f32", "neg.f64":
			fr.push(negate(fr.pop()))
		case "not.bool":
			fr.push(!truthy(fr.pop()))
		case "intrinsic":
			if rest == "PrintAny" {
				vm.out.WriteString(fmt.Sprint(fr.pop()))
			}
		case "newarray", "newlist":
			parts := strings.Fields(rest)
			n, _ := strconv.Atoi(parts[len(parts)-1])
			fr.push(make([]any, n))
		case "array.set.i32", "list.set":
			v := fr.pop()
			idx := fr.pop()
			arr := fr.pop().([]any)
			arr[idx.(int64)] = v
			fr.push(arr)
		case "array.get.i32":
			idx := fr.pop()
			arr := fr.pop().([]any)
			fr.push(arr[idx.(int64)])
		case "newobj":
			fr.push(map[string]any{"__type": rest})
		case "stfld":
			v := fr.pop()
			obj := fr.pop().(map[string]any)
			obj[rest] = v
			fr.push(obj)
		case "stfld.idx":
			v := fr.pop()
			obj := fr.pop().(map[string]any)
			obj[rest] = v
			fr.push(obj)
		case "ldfld":
			obj := fr.pop().(map[string]any)
			fr.push(obj[rest])
		case "ldfunc":
			fr.push(rest)
		case "call":
			parts := strings.Fields(rest)
			name := parts[0]
			argc, _ := strconv.Atoi(parts[1])
			args := make([]any, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = fr.pop()
			}
			target, ok := vm.funcs[name]
			if !ok {
				return nil, fmt.Errorf("sirvm: call to unknown function %q", name)
			}
			ret, err := vm.call(target, args)
			if err != nil {
				return nil, err
			}
			if ret != nil {
				fr.push(ret)
			}
		default:
			if isBinOp(op) {
				rhs := fr.pop()
				lhs := fr.pop()
				v, err := applyBinOp(op, lhs, rhs)
				if err != nil {
					return nil, err
				}
				fr.push(v)
			} else {
				return nil, fmt.Errorf("sirvm: unsupported instruction %q", line)
			}
		}
		pc++
	}
	if len(fr.stack) > 0 {
		return fr.pop(), nil
	}
	return nil, nil
}

func splitOp(line string) (op, rest string) {
	i := strings.IndexByte(line, ' ')
	if i < 0 {
		return line, ""
	}
	return line[:i], line[i+1:]
}

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func negate(v any) any {
	switch n := v.(type) {
	case int64:
		return -n
	case float64:
		return -n
	}
	return v
}
