// Package reserved holds the read-only signature table for the
// compiler's reserved capability modules (IO, Math, Time, File, and the
// Core.* namespace) along with the alias/canonicalization table used to
// resolve an import path to one of them.
package reserved

import (
	"strings"

	"github.com/cwbudde/simple-lang/internal/types"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// candidateCollator orders "did you mean" candidates deterministically
// regardless of the host's locale. Root collation is not a byte-wise
// sort: it compares case-insensitively first, so "PI" sorts after "min".
var candidateCollator = collate.New(language.Und)

// Module is a canonical reserved-module name.
type Module string

const (
	IO      Module = "IO"
	Math    Module = "Math"
	Time    Module = "Time"
	File    Module = "File"
	CoreDL  Module = "Core.DL"
	CoreOS  Module = "Core.OS"
	CoreFS  Module = "Core.FS"
	CoreLog Module = "Core.Log"
)

// aliases maps a lowercased import path to its canonical Module. Ported
// from the original compiler's CanonicalizeReservedImportPath table.
var aliases = map[string]Module{
	"math":        Math,
	"system.math": Math,
	"io":          IO,
	"system.io":   IO,
	"system.stream": IO,
	"time":        Time,
	"system.time": Time,
	"file":        File,
	"system.file": File,
	"core.dl":     CoreDL,
	"system.dl":   CoreDL,
	"core.os":     CoreOS,
	"system.os":   CoreOS,
	"core.fs":     CoreFS,
	"system.fs":   CoreFS,
	"core.log":    CoreLog,
	"system.log":  CoreLog,
}

// Canonicalize resolves an import path to a reserved Module. It accepts
// an all-lowercase spelling or the exact canonical spelling; any other
// casing is rejected per spec.md §6.2's "reject mixed-case variants"
// rule.
func Canonicalize(path string) (Module, bool) {
	if m, ok := byCanonical[Module(path)]; ok {
		return m, true
	}
	lower := strings.ToLower(path)
	if m, ok := aliases[lower]; ok {
		if path == lower || path == string(m) {
			return m, true
		}
		return "", false
	}
	return "", false
}

var byCanonical = func() map[Module]Module {
	m := map[Module]Module{}
	for _, mod := range []Module{IO, Math, Time, File, CoreDL, CoreOS, CoreFS, CoreLog} {
		m[mod] = mod
	}
	return m
}()

// Member describes one callable or constant exposed by a reserved
// module.
type Member struct {
	Name     string
	Params   []types.TypeRef
	Result   types.TypeRef
	Variadic bool // true for IO.println(fmt, args...)
	IsConst  bool
	Generic  bool // true for Math.abs/min/max<T>
}

func t(name string) types.TypeRef { return types.TypeRef{Name: name} }

func arr(elem string) types.TypeRef {
	return types.TypeRef{Name: elem, Dims: []types.Dim{{Size: 0}}}
}

// Signatures is the full reserved-module member table, grounded in
// spec.md §6.2.
var Signatures = map[Module][]Member{
	IO: {
		{Name: "print", Params: []types.TypeRef{t("any")}},
		{Name: "println", Params: []types.TypeRef{t("any")}},
		{Name: "println", Params: []types.TypeRef{t("string"), t("any")}, Variadic: true},
		{Name: "buffer_new", Params: []types.TypeRef{t("i32")}, Result: arr("i32")},
		{Name: "buffer_len", Params: []types.TypeRef{arr("i32")}, Result: t("i32")},
		{Name: "buffer_fill", Params: []types.TypeRef{arr("i32"), t("i32"), t("i32")}, Result: t("i32")},
		{Name: "buffer_copy", Params: []types.TypeRef{arr("i32"), arr("i32"), t("i32")}, Result: t("i32")},
	},
	Math: {
		{Name: "PI", Result: t("f64"), IsConst: true},
		{Name: "abs", Params: []types.TypeRef{t("T")}, Result: t("T"), Generic: true},
		{Name: "min", Params: []types.TypeRef{t("T"), t("T")}, Result: t("T"), Generic: true},
		{Name: "max", Params: []types.TypeRef{t("T"), t("T")}, Result: t("T"), Generic: true},
	},
	Time: {
		{Name: "mono_ns", Result: t("i64")},
		{Name: "wall_ns", Result: t("i64")},
	},
	File: {
		{Name: "open", Params: []types.TypeRef{t("string"), t("i32")}, Result: t("i32")},
		{Name: "close", Params: []types.TypeRef{t("i32")}},
		{Name: "read", Params: []types.TypeRef{t("i32"), arr("i32"), t("i32")}, Result: t("i32")},
		{Name: "write", Params: []types.TypeRef{t("i32"), arr("i32"), t("i32")}, Result: t("i32")},
	},
	CoreDL: {
		{Name: "open", Params: []types.TypeRef{t("string")}, Result: t("i64")},
		{Name: "sym", Params: []types.TypeRef{t("i64"), t("string")}, Result: t("i64")},
		{Name: "close", Params: []types.TypeRef{t("i64")}, Result: t("i32")},
		{Name: "last_error", Result: t("string")},
		{Name: "call_i32"},
		{Name: "call_i64"},
		{Name: "call_f32"},
		{Name: "call_f64"},
		{Name: "call_str0"},
		{Name: "supported", Result: t("bool"), IsConst: true},
	},
	CoreOS: {
		{Name: "args_count", Result: t("i32")},
		{Name: "args_get", Params: []types.TypeRef{t("i32")}, Result: t("string")},
		{Name: "env_get", Params: []types.TypeRef{t("string")}, Result: t("string")},
		{Name: "cwd_get", Result: t("string")},
		{Name: "time_mono_ns", Result: t("i64")},
		{Name: "time_wall_ns", Result: t("i64")},
		{Name: "sleep_ms", Params: []types.TypeRef{t("i32")}},
		{Name: "is_linux", Result: t("bool"), IsConst: true},
		{Name: "is_macos", Result: t("bool"), IsConst: true},
		{Name: "is_windows", Result: t("bool"), IsConst: true},
		{Name: "has_dl", Result: t("bool"), IsConst: true},
	},
	CoreLog: {
		{Name: "log", Params: []types.TypeRef{t("string"), t("i32")}},
	},
}

// Lookup finds a member by name within a module.
func Lookup(mod Module, name string) (Member, bool) {
	for _, m := range Signatures[mod] {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// editDistance is a classic two-row Levenshtein distance, ported from
// the original validator's EditDistance.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			cur[j] = min3(del, ins, sub)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// Suggest returns the closest member name in mod to name when its edit
// distance is within 3, for "unknown member, did you mean" diagnostics.
// Ties are broken by sorted candidate order so the result is
// deterministic.
func Suggest(mod Module, name string) (string, bool) {
	members := Signatures[mod]
	candidates := make([]string, len(members))
	for i, m := range members {
		candidates[i] = m.Name
	}
	candidateCollator.SortStrings(candidates)

	best := ""
	bestDist := 1 << 30
	for _, c := range candidates {
		d := editDistance(name, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	if best == "" || bestDist > 3 {
		return "", false
	}
	return best, true
}
