package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"log/slog"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// maxFields bounds the tracked fields per record so that multi-write
// store positions always fit the uint16 slot index plus its sentinel.
const maxFields = 4096

type record struct {
	Name   string
	Fields []*field
}

type field struct {
	Name      string
	TypeName  string
	Kind      string // Bool, Int, Uint, Float or String; empty for nested records
	Slot      int
	Child     *record
	LowerName string
}

var scalarKinds = map[string]string{
	"bool":    "Bool",
	"int":     "Int",
	"int8":    "Int",
	"int16":   "Int",
	"int32":   "Int",
	"int64":   "Int",
	"uint":    "Uint",
	"uint8":   "Uint",
	"uint16":  "Uint",
	"uint32":  "Uint",
	"uint64":  "Uint",
	"uintptr": "Uint",
	"float32": "Float",
	"float64": "Float",
	"string":  "String",
}

// reservedFieldNames collide with methods generated on the change value.
var reservedFieldNames = map[string]bool{
	"Field":         true,
	"Apply":         true,
	"String":        true,
	"EncodeMsgpack": true,
}

// reservedMemberNames collide with fixed members of generated stores,
// cursors and change values once the field name is lowered.
var reservedMemberNames = map[string]bool{
	"bits":  true,
	"words": true,
	"log":   true,
	"pos":   true,
	"n":     true,
	"up":    true,
	"s":     true,
	"i":     true,
	"desc":  true,
	"cur":   true,
	"field": true,
	"word":  true,
	"str":   true,
}

type packageInfo struct {
	Name    string
	Structs map[string]*ast.StructType
}

func loadPackage(dir string) (*packageInfo, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", dir, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("found %d packages in %s, wanted exactly one", len(pkgs), dir)
	}
	info := &packageInfo{Structs: make(map[string]*ast.StructType)}
	for _, pkg := range pkgs {
		info.Name = pkg.Name
		for _, file := range pkg.Files {
			for _, decl := range file.Decls {
				gd, ok := decl.(*ast.GenDecl)
				if !ok || gd.Tok != token.TYPE {
					continue
				}
				for _, spec := range gd.Specs {
					ts := spec.(*ast.TypeSpec)
					if st, ok := ts.Type.(*ast.StructType); ok {
						info.Structs[ts.Name.Name] = st
					}
				}
			}
		}
	}
	slog.Debug("parsed package", "dir", dir, "package", info.Name, "structs", len(info.Structs))
	return info, nil
}

type resolver struct {
	pkg      *packageInfo
	records  map[string]*record
	building map[string]bool
	order    []*record
}

// resolveRecords builds the schema for every requested type name plus
// any record types they embed by value, children before parents.
func resolveRecords(pkg *packageInfo, names []string) ([]*record, error) {
	rv := &resolver{
		pkg:      pkg,
		records:  make(map[string]*record),
		building: make(map[string]bool),
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := rv.resolve(name); err != nil {
			return nil, err
		}
	}
	if len(rv.order) == 0 {
		return nil, fmt.Errorf("no record types requested")
	}
	return rv.order, nil
}

func (rv *resolver) resolve(name string) (*record, error) {
	if rec := rv.records[name]; rec != nil {
		return rec, nil
	}
	if rv.building[name] {
		return nil, fmt.Errorf("%s: records cannot nest recursively", name)
	}
	st := rv.pkg.Structs[name]
	if st == nil {
		return nil, fmt.Errorf("%s: no struct type with this name in the package", name)
	}
	rv.building[name] = true
	rec := &record{Name: name}
	for _, af := range st.Fields.List {
		if len(af.Names) == 0 {
			return nil, fmt.Errorf("%s: embedded fields are not supported", name)
		}
		for _, ident := range af.Names {
			fieldName := ident.Name
			if !ast.IsExported(fieldName) {
				slog.Debug("skipping unexported field", "record", name, "field", fieldName)
				continue
			}
			if tagValue(af.Tag, "changeset") == "-" {
				slog.Debug("skipping excluded field", "record", name, "field", fieldName)
				continue
			}
			f, err := rv.resolveField(name, fieldName, af.Type)
			if err != nil {
				return nil, err
			}
			f.Slot = len(rec.Fields)
			rec.Fields = append(rec.Fields, f)
		}
	}
	if len(rec.Fields) == 0 {
		return nil, fmt.Errorf("%s: no tracked fields", name)
	}
	if len(rec.Fields) > maxFields {
		return nil, fmt.Errorf("%s: %d tracked fields, the limit is %d", name, len(rec.Fields), maxFields)
	}
	delete(rv.building, name)
	rv.records[name] = rec
	rv.order = append(rv.order, rec)
	slog.Debug("resolved record", "type", name, "fields", len(rec.Fields),
		"fingerprint", fmt.Sprintf("%016x", rec.Fingerprint()))
	return rec, nil
}

func (rv *resolver) resolveField(recName, fieldName string, typ ast.Expr) (*field, error) {
	ident, ok := typ.(*ast.Ident)
	if !ok {
		return nil, fmt.Errorf("%s.%s: unsupported field type %s", recName, fieldName, types.ExprString(typ))
	}
	if reservedFieldNames[fieldName] {
		return nil, fmt.Errorf("%s.%s: field name collides with a generated method", recName, fieldName)
	}
	lower := lowerFirst(fieldName)
	if reservedMemberNames[lower] || token.IsKeyword(lower) {
		return nil, fmt.Errorf("%s.%s: field name collides with generated store internals", recName, fieldName)
	}
	f := &field{Name: fieldName, TypeName: ident.Name, LowerName: lower}
	if kind, ok := scalarKinds[ident.Name]; ok {
		f.Kind = kind
		return f, nil
	}
	if _, ok := rv.pkg.Structs[ident.Name]; ok {
		child, err := rv.resolve(ident.Name)
		if err != nil {
			return nil, err
		}
		f.Child = child
		return f, nil
	}
	return nil, fmt.Errorf("%s.%s: unsupported field type %s (use builtin scalars, string or another record struct)", recName, fieldName, ident.Name)
}

func tagValue(tag *ast.BasicLit, key string) string {
	if tag == nil {
		return ""
	}
	return reflect.StructTag(strings.Trim(tag.Value, "`")).Get(key)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// Canonical renders the tracked field layout as a deterministic string.
// Nested records contribute their own layout, so a parent fingerprint
// changes whenever any reachable child changes.
func (r *record) Canonical() string {
	var sb strings.Builder
	sb.WriteString(r.Name)
	sb.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(f.Name)
		sb.WriteByte(':')
		if f.Child != nil {
			sb.WriteString(f.Child.Canonical())
		} else {
			sb.WriteString(f.TypeName)
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

func (r *record) Fingerprint() uint64 {
	return xxhash.Sum64String(r.Canonical())
}

func (r *record) BitWords() int {
	return (len(r.Fields) + 31) / 32
}

func (r *record) HasNested() bool {
	for _, f := range r.Fields {
		if f.Child != nil {
			return true
		}
	}
	return false
}

func (r *record) HasString() bool {
	for _, f := range r.Fields {
		if f.Kind == "String" {
			return true
		}
	}
	return false
}

func (r *record) NestedFields() []*field {
	var nested []*field
	for _, f := range r.Fields {
		if f.Child != nil {
			nested = append(nested, f)
		}
	}
	return nested
}

func (r *record) StringFields() []*field {
	var strs []*field
	for _, f := range r.Fields {
		if f.Kind == "String" {
			strs = append(strs, f)
		}
	}
	return strs
}

func (r *record) EntryType() string {
	return lowerFirst(r.Name) + "LogEntry"
}

func (f *field) IsNested() bool {
	return f.Child != nil
}

func (f *field) IsString() bool {
	return f.Kind == "String"
}

// WordExpr converts a typed value expression to its uint64 word.
func (f *field) WordExpr(v string) string {
	switch f.Kind {
	case "Bool":
		return "changeset.BoolWord(" + v + ")"
	case "Float":
		return "changeset.FloatWord(" + v + ")"
	default:
		return "changeset.IntWord(" + v + ")"
	}
}

// ValueExpr converts a uint64 word expression back to the field type.
func (f *field) ValueExpr(w string) string {
	switch f.Kind {
	case "Bool":
		return "changeset.WordBool(" + w + ")"
	case "Float":
		return "changeset.WordFloat[" + f.TypeName + "](" + w + ")"
	default:
		return "changeset.WordInt[" + f.TypeName + "](" + w + ")"
	}
}

func (f *field) EncodeExpr(recName string) string {
	code := fmt.Sprintf("int(%sField%s)", recName, f.Name)
	switch {
	case f.Child != nil:
		return fmt.Sprintf("changeset.EncodeNestedChange(enc, %s, c.%s)", code, f.LowerName)
	case f.Kind == "String":
		return fmt.Sprintf("changeset.EncodeStringChange(enc, %s, c.str)", code)
	case f.Kind == "Bool":
		return fmt.Sprintf("changeset.EncodeBoolChange(enc, %s, changeset.WordBool(c.word))", code)
	case f.Kind == "Float":
		return fmt.Sprintf("changeset.EncodeFloatChange(enc, %s, float64(changeset.WordFloat[%s](c.word)))", code, f.TypeName)
	case f.Kind == "Int":
		return fmt.Sprintf("changeset.EncodeIntChange(enc, %s, changeset.WordInt[int64](c.word))", code)
	default:
		return fmt.Sprintf("changeset.EncodeUintChange(enc, %s, c.word)", code)
	}
}

func (f *field) Verb() string {
	if f.Kind == "String" {
		return "%q"
	}
	return "%v"
}
