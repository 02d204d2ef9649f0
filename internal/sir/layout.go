package sir

import "github.com/cwbudde/simple-lang/internal/ast"

// maxFieldAlign is the artifact layout's alignment cap from spec.md §4.5:
// even an 8-byte field never pushes the artifact's own alignment past 8.
const maxFieldAlign = 8

// fieldSizeAlign returns the size and alignment, in bytes, of a field
// whose SIR type is sirType. Heap-managed references (arrays, lists,
// procedures, strings, and artifact-typed fields) are all 4-byte handles.
func fieldSizeAlign(sirType string) (size, align int) {
	switch sirType {
	case "i8", "u8", "bool", "char":
		return 1, 1
	case "i16", "u16":
		return 2, 2
	case "i32", "u32", "f32":
		return 4, 4
	case "i64", "u64", "f64":
		return 8, 8
	default:
		// "ref", "string", and any artifact/enum name used as a field
		// type: all heap-managed references are 4-byte handles.
		return 4, 4
	}
}

// alignUp rounds offset up to the next multiple of align.
func alignUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	rem := offset % align
	if rem == 0 {
		return offset
	}
	return offset + (align - rem)
}

// layoutArtifact computes decl's declaration-order field layout per
// spec.md §4.5, records it as a types: entry on the module, and keeps
// it available for lookup by artifact-literal emission.
func (e *Emitter) layoutArtifact(decl *ast.ArtifactDecl) {
	fields := make([]FieldLayout, len(decl.Fields))
	offset := 0
	maxAlign := 1
	for i, f := range decl.Fields {
		sirType := sirTypeOf(f.Type, e.enums)
		size, align := fieldSizeAlign(sirType)
		if align > maxFieldAlign {
			align = maxFieldAlign
		}
		offset = alignUp(offset, align)
		fields[i] = FieldLayout{Name: f.Name, SIRType: sirType, Offset: offset}
		offset += size
		if align > maxAlign {
			maxAlign = align
		}
	}
	if maxAlign > maxFieldAlign {
		maxAlign = maxFieldAlign
	}
	total := alignUp(offset, maxAlign)
	if total == 0 {
		total = 1
	}

	t := TypeDecl{Name: decl.Name, Size: total, Kind: "artifact", Fields: fields}
	e.artifactLayouts[decl.Name] = t
	e.mod.Types = append(e.mod.Types, t)
}
