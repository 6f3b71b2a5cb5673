// Package wasmtest assembles small wasm binaries for host-side tests.
package wasmtest

// ValType is a wasm value type as encoded in the binary format.
type ValType byte

const (
	I32 ValType = 0x7f
	I64 ValType = 0x7e
)

// Signature is a function type.
type Signature struct {
	Params  []ValType
	Results []ValType
}

// Import is an imported host function.
type Import struct {
	Module string
	Name   string
	Sig    Signature
}

// Func is a function defined by the module. Body holds instructions only;
// the local declarations and the trailing end are added by the builder.
// Functions with an empty Name are not exported.
type Func struct {
	Name string
	Sig  Signature
	Body []byte
}

// Data is an active data segment in memory 0.
type Data struct {
	Offset uint32
	Bytes  []byte
}

// Module describes a module. When Memory is set the module defines one page
// of memory exported as "memory".
type Module struct {
	Imports []Import
	Funcs   []Func
	Memory  bool
	Data    []Data
}

const (
	sectionType     = 0x01
	sectionImport   = 0x02
	sectionFunction = 0x03
	sectionMemory   = 0x05
	sectionExport   = 0x07
	sectionCode     = 0x0a
	sectionData     = 0x0b
)

// Bytes encodes the module. Imported functions take the first function
// indices, so Call(0) targets the first import.
func (m Module) Bytes() []byte {
	out := []byte{
		0x00, 0x61, 0x73, 0x6d, // magic
		0x01, 0x00, 0x00, 0x00, // version
	}
	section := func(id byte, payload []byte) {
		out = append(out, id)
		out = append(out, ULEB128(uint32(len(payload)))...)
		out = append(out, payload...)
	}

	// One type per import and function, in that order.
	types := vec(len(m.Imports) + len(m.Funcs))
	for _, imp := range m.Imports {
		types = append(types, encodeSig(imp.Sig)...)
	}
	for _, fn := range m.Funcs {
		types = append(types, encodeSig(fn.Sig)...)
	}
	section(sectionType, types)

	if len(m.Imports) > 0 {
		imports := vec(len(m.Imports))
		for i, imp := range m.Imports {
			imports = append(imports, name(imp.Module)...)
			imports = append(imports, name(imp.Name)...)
			imports = append(imports, 0x00) // func
			imports = append(imports, ULEB128(uint32(i))...)
		}
		section(sectionImport, imports)
	}

	funcs := vec(len(m.Funcs))
	for i := range m.Funcs {
		funcs = append(funcs, ULEB128(uint32(len(m.Imports)+i))...)
	}
	section(sectionFunction, funcs)

	if m.Memory {
		section(sectionMemory, []byte{0x01, 0x00, 0x01}) // one memory, min 1 page
	}

	var exports []byte
	count := 0
	if m.Memory {
		exports = append(exports, name("memory")...)
		exports = append(exports, 0x02, 0x00)
		count++
	}
	for i, fn := range m.Funcs {
		if fn.Name == "" {
			continue
		}
		exports = append(exports, name(fn.Name)...)
		exports = append(exports, 0x00)
		exports = append(exports, ULEB128(uint32(len(m.Imports)+i))...)
		count++
	}
	section(sectionExport, append(vec(count), exports...))

	code := vec(len(m.Funcs))
	for _, fn := range m.Funcs {
		body := append([]byte{0x00}, fn.Body...) // no locals
		body = append(body, 0x0b)
		code = append(code, ULEB128(uint32(len(body)))...)
		code = append(code, body...)
	}
	section(sectionCode, code)

	if len(m.Data) > 0 {
		data := vec(len(m.Data))
		for _, d := range m.Data {
			data = append(data, 0x00) // active, memory 0
			data = append(data, I32Const(int32(d.Offset))...)
			data = append(data, 0x0b)
			data = append(data, ULEB128(uint32(len(d.Bytes)))...)
			data = append(data, d.Bytes...)
		}
		section(sectionData, data)
	}

	return out
}

func encodeSig(sig Signature) []byte {
	out := []byte{0x60}
	out = append(out, ULEB128(uint32(len(sig.Params)))...)
	for _, p := range sig.Params {
		out = append(out, byte(p))
	}
	out = append(out, ULEB128(uint32(len(sig.Results)))...)
	for _, r := range sig.Results {
		out = append(out, byte(r))
	}
	return out
}

func vec(n int) []byte {
	return ULEB128(uint32(n))
}

func name(s string) []byte {
	return append(ULEB128(uint32(len(s))), s...)
}

// I32Const pushes v.
func I32Const(v int32) []byte {
	return append([]byte{0x41}, SLEB128(int64(v))...)
}

// I64Const pushes v.
func I64Const(v int64) []byte {
	return append([]byte{0x42}, SLEB128(v)...)
}

// LocalGet pushes parameter or local i.
func LocalGet(i uint32) []byte {
	return append([]byte{0x20}, ULEB128(i)...)
}

// Call calls function index i.
func Call(i uint32) []byte {
	return append([]byte{0x10}, ULEB128(i)...)
}

// Drop pops the top of the stack.
var Drop = []byte{0x1a}

// Unreachable traps.
var Unreachable = []byte{0x00}

// Seq concatenates instruction sequences.
func Seq(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// ULEB128 encodes v as unsigned LEB128.
func ULEB128(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

// SLEB128 encodes v as signed LEB128, the encoding used by const instructions.
func SLEB128(v int64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}
