package main

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
)

type fileData struct {
	Package string
	Records []*record
}

// storeCtx parametrizes the template sections shared by all three store
// flavors.
type storeCtx struct {
	R      *record
	Store  string
	Cursor string
}

func (r *record) Opt() storeCtx  { return storeCtx{r, r.Name + "OptSet", r.Name + "OptCursor"} }
func (r *record) Once() storeCtx { return storeCtx{r, r.Name + "OnceSet", r.Name + "OnceCursor"} }
func (r *record) Last() storeCtx { return storeCtx{r, r.Name + "LastSet", r.Name + "LastCursor"} }

func (f *field) DecodeArg() string {
	switch f.Kind {
	case "String", "Bool":
		return "v"
	default:
		return f.TypeName + "(v)"
	}
}

func generate(pkgName string, records []*record) ([]byte, error) {
	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, &fileData{Package: pkgName, Records: records}); err != nil {
		return nil, fmt.Errorf("cannot render artifacts: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("cannot format generated code: %w", err)
	}
	return src, nil
}

var fileTemplate = template.Must(template.New("file").Parse(fileText[1:] + storeTailText))

const fileText = `
// Code generated by changesetgen. DO NOT EDIT.

package {{.Package}}

import (
	"fmt"
	"iter"

	"github.com/andreyvit/changeset"
	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)
{{range $r := .Records}}
// ---- {{$r.Name}} ----

type {{$r.Name}}Field int

const (
	{{$r.Name}}FieldNone {{$r.Name}}Field = iota
{{range $f := $r.Fields}}	{{$r.Name}}Field{{$f.Name}}
{{end}})

const Num{{$r.Name}}Fields = {{len $r.Fields}}

// {{$r.Name}}SchemaHash fingerprints the tracked field layout of {{$r.Name}}.
// Compare fingerprints before exchanging encoded batches across builds.
var {{$r.Name}}SchemaHash = xxhash.Sum64String("{{$r.Canonical}}")

func (f {{$r.Name}}Field) String() string {
	switch f {
	case {{$r.Name}}FieldNone:
		return "none"
{{range $f := $r.Fields}}	case {{$r.Name}}Field{{$f.Name}}:
		return "{{$f.Name}}"
{{end}}	default:
		return fmt.Sprintf("{{$r.Name}}Field(%d)", int(f))
	}
}

func (f {{$r.Name}}Field) Kind() changeset.LeafKind {
	switch f {
{{range $f := $r.Fields}}{{if not $f.IsNested}}	case {{$r.Name}}Field{{$f.Name}}:
		return changeset.Kind{{$f.Kind}}
{{end}}{{end}}	default:
		return changeset.KindNone
	}
}

type {{$r.Name}}Change struct {
	field {{$r.Name}}Field
	word  uint64
{{if $r.HasString}}	str   string
{{end}}{{range $f := $r.NestedFields}}	{{$f.LowerName}} {{$f.TypeName}}Change
{{end}}}

type {{$r.Name}}Cursor = changeset.Cursor[{{$r.Name}}Change]

func (c {{$r.Name}}Change) Field() {{$r.Name}}Field { return c.field }
{{range $f := $r.Fields}}
func (c {{$r.Name}}Change) {{$f.Name}}() {{if $f.IsNested}}{{$f.TypeName}}Change{{else}}{{$f.TypeName}}{{end}} {
	if c.field != {{$r.Name}}Field{{$f.Name}} {
		panic(fmt.Errorf("changeset: {{$f.Name}} of %v change", c.field))
	}
	return {{if $f.IsNested}}c.{{$f.LowerName}}{{else if $f.IsString}}c.str{{else}}{{$f.ValueExpr "c.word"}}{{end}}
}
{{end}}
func (c {{$r.Name}}Change) Apply(to {{$r.Name}}Setter) {
	switch c.field {
{{range $f := $r.Fields}}	case {{$r.Name}}Field{{$f.Name}}:
{{if $f.IsNested}}		c.{{$f.LowerName}}.Apply(to.Update{{$f.Name}}())
{{else if $f.IsString}}		to.Set{{$f.Name}}(c.str)
{{else}}		to.Set{{$f.Name}}({{$f.ValueExpr "c.word"}})
{{end}}{{end}}	}
}

func (c {{$r.Name}}Change) String() string {
	switch c.field {
{{range $f := $r.Fields}}	case {{$r.Name}}Field{{$f.Name}}:
		return fmt.Sprintf("{{$f.Name}}({{$f.Verb}})", {{if $f.IsNested}}c.{{$f.LowerName}}{{else if $f.IsString}}c.str{{else}}{{$f.ValueExpr "c.word"}}{{end}})
{{end}}	default:
		return "none"
	}
}

func (c {{$r.Name}}Change) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch c.field {
{{range $f := $r.Fields}}	case {{$r.Name}}Field{{$f.Name}}:
		return {{$f.EncodeExpr $r.Name}}
{{end}}	default:
		return changeset.WireErrf("encode", "{{$r.Name}}", nil, "cannot encode a none change")
	}
}

type {{$r.Name}}Setter interface {
{{range $f := $r.Fields}}	{{if $f.IsNested}}Update{{$f.Name}}() {{$f.TypeName}}Setter{{else}}Set{{$f.Name}}(v {{$f.TypeName}}){{end}}
{{end}}}

{{range $f := $r.Fields}}{{if $f.IsNested}}func (r *{{$r.Name}}) Update{{$f.Name}}() {{$f.TypeName}}Setter { return &r.{{$f.Name}} }
{{else}}func (r *{{$r.Name}}) Set{{$f.Name}}(v {{$f.TypeName}}) { r.{{$f.Name}} = v }
{{end}}{{end}}
type {{$r.Name}}OptSet struct {
	bits  [{{$r.BitWords}}]uint32
	words [Num{{$r.Name}}Fields]uint64
{{range $f := $r.StringFields}}	{{$f.LowerName}} string
{{end}}{{range $f := $r.NestedFields}}	{{$f.LowerName}} {{$f.TypeName}}OptSet
{{end}}}

func New{{$r.Name}}OptSet() *{{$r.Name}}OptSet {
	return new({{$r.Name}}OptSet)
}
{{range $f := $r.Fields}}
{{if $f.IsNested}}func (s *{{$r.Name}}OptSet) Update{{$f.Name}}() {{$f.TypeName}}Setter { return &s.{{$f.LowerName}} }
{{else if $f.IsString}}func (s *{{$r.Name}}OptSet) Set{{$f.Name}}(v string) {
	s.{{$f.LowerName}} = v
	changeset.SetBit(s.bits[:], {{$f.Slot}})
}
{{else}}func (s *{{$r.Name}}OptSet) Set{{$f.Name}}(v {{$f.TypeName}}) {
	s.words[{{$f.Slot}}] = {{$f.WordExpr "v"}}
	changeset.SetBit(s.bits[:], {{$f.Slot}})
}
{{end}}{{end}}
{{if $r.HasNested}}func (s *{{$r.Name}}OptSet) Len() int {
	return changeset.CountBits(s.bits[:]){{range $f := $r.NestedFields}} + s.{{$f.LowerName}}.Len(){{end}}
}

func (s *{{$r.Name}}OptSet) IsEmpty() bool {
	return s.bits == [{{$r.BitWords}}]uint32{}{{range $f := $r.NestedFields}} && s.{{$f.LowerName}}.IsEmpty(){{end}}
}
{{else}}func (s *{{$r.Name}}OptSet) Len() int      { return changeset.CountBits(s.bits[:]) }
func (s *{{$r.Name}}OptSet) IsEmpty() bool { return s.bits == [{{$r.BitWords}}]uint32{} }
{{end}}
func (s *{{$r.Name}}OptSet) Reset() {
	s.bits = [{{$r.BitWords}}]uint32{}
{{range $f := $r.StringFields}}	s.{{$f.LowerName}} = ""
{{end}}{{range $f := $r.NestedFields}}	s.{{$f.LowerName}}.Reset()
{{end}}}
{{template "storetail" $r.Opt}}
{{if $r.HasNested}}type {{$r.Name}}OptCursor struct {
	s    *{{$r.Name}}OptSet
	i    int
	desc int
{{range $f := $r.NestedFields}}	{{$f.LowerName}} {{$f.TypeName}}OptCursor
{{end}}	cur  {{$r.Name}}Change
}

func (c *{{$r.Name}}OptCursor) Next() bool {
	for {
		switch c.desc {
{{range $f := $r.NestedFields}}		case int({{$r.Name}}Field{{$f.Name}}):
			if c.{{$f.LowerName}}.Next() {
				c.cur = {{$r.Name}}Change{field: {{$r.Name}}Field{{$f.Name}}, {{$f.LowerName}}: c.{{$f.LowerName}}.Change()}
				return true
			}
			c.desc = 0
{{end}}		}
		if c.i >= Num{{$r.Name}}Fields {
			return false
		}
		i := c.i
		c.i++
		switch {{$r.Name}}Field(i + 1) {
{{range $f := $r.Fields}}		case {{$r.Name}}Field{{$f.Name}}:
{{if $f.IsNested}}			if c.s.{{$f.LowerName}}.Len() > 0 {
				c.{{$f.LowerName}} = c.s.{{$f.LowerName}}.Changes()
				c.desc = int({{$r.Name}}Field{{$f.Name}})
			}
{{else if $f.IsString}}			if changeset.TestBit(c.s.bits[:], i) {
				c.cur = {{$r.Name}}Change{field: {{$r.Name}}Field{{$f.Name}}, str: c.s.{{$f.LowerName}}}
				return true
			}
{{else}}			if changeset.TestBit(c.s.bits[:], i) {
				c.cur = {{$r.Name}}Change{field: {{$r.Name}}Field{{$f.Name}}, word: c.s.words[i]}
				return true
			}
{{end}}{{end}}		}
	}
}
{{else}}type {{$r.Name}}OptCursor struct {
	s   *{{$r.Name}}OptSet
	i   int
	cur {{$r.Name}}Change
}

func (c *{{$r.Name}}OptCursor) Next() bool {
	for c.i < Num{{$r.Name}}Fields {
		i := c.i
		c.i++
		if !changeset.TestBit(c.s.bits[:], i) {
			continue
		}
		switch {{$r.Name}}Field(i + 1) {
{{range $f := $r.Fields}}		case {{$r.Name}}Field{{$f.Name}}:
			c.cur = {{$r.Name}}Change{field: {{$r.Name}}Field{{$f.Name}}, {{if $f.IsString}}str: c.s.{{$f.LowerName}}{{else}}word: c.s.words[i]{{end}}}
{{end}}		}
		return true
	}
	return false
}
{{end}}
func (c *{{$r.Name}}OptCursor) Change() {{$r.Name}}Change { return c.cur }

type {{$r.EntryType}} struct {
	field {{$r.Name}}Field
	word  uint64
{{if $r.HasString}}	str   string
{{end}}}

type {{$r.Name}}OnceSet struct {
	bits [{{$r.BitWords}}]uint32
	log  [Num{{$r.Name}}Fields]{{$r.EntryType}}
	n    uint16
	up   changeset.Link
{{range $f := $r.NestedFields}}	{{$f.LowerName}} {{$f.TypeName}}OnceSet
{{end}}}

func New{{$r.Name}}OnceSet() *{{$r.Name}}OnceSet {
	s := new({{$r.Name}}OnceSet)
	s.Attach(changeset.Link{})
	return s
}

{{if $r.HasNested}}// Attach wires s and its child stores into a parent chain. Stores made by
// the New constructor are attached already; call this only after embedding
// the store by value into another structure.
{{end}}func (s *{{$r.Name}}OnceSet) Attach(up changeset.Link) {
	s.up = up
{{range $f := $r.NestedFields}}	s.{{$f.LowerName}}.Attach(changeset.Link{Owner: s, Slot: {{$f.Slot}}})
{{end}}}

{{range $f := $r.Fields}}{{if $f.IsNested}}func (s *{{$r.Name}}OnceSet) Update{{$f.Name}}() {{$f.TypeName}}Setter { return &s.{{$f.LowerName}} }
{{else if $f.IsString}}func (s *{{$r.Name}}OnceSet) Set{{$f.Name}}(v string) { s.set({{$r.Name}}Field{{$f.Name}}, 0, v) }
{{else}}func (s *{{$r.Name}}OnceSet) Set{{$f.Name}}(v {{$f.TypeName}}) { s.set({{$r.Name}}Field{{$f.Name}}, {{$f.WordExpr "v"}}{{if $r.HasString}}, ""{{end}}) }
{{end}}{{end}}
{{if $r.HasNested}}func (s *{{$r.Name}}OnceSet) MarkChanged(slot int) {
	s.set({{$r.Name}}Field(slot+1), 0{{if $r.HasString}}, ""{{end}})
}

{{end}}func (s *{{$r.Name}}OnceSet) set(f {{$r.Name}}Field, w uint64{{if $r.HasString}}, str string{{end}}) {
	i := int(f) - 1
	if changeset.TestBit(s.bits[:], i) {
		return // first write wins
	}
	changeset.SetBit(s.bits[:], i)
	if s.n == 0 {
		s.up.Mark()
	}
	s.log[s.n] = {{$r.EntryType}}{field: f, word: w{{if $r.HasString}}, str: str{{end}}}
	s.n++
}

{{if $r.HasNested}}func (s *{{$r.Name}}OnceSet) Len() int {
	n := int(s.n)
{{range $f := $r.NestedFields}}	if k := s.{{$f.LowerName}}.Len(); k > 0 {
		n += k - 1
	}
{{end}}	return n
}

func (s *{{$r.Name}}OnceSet) IsEmpty() bool { return s.n == 0 }
{{else}}func (s *{{$r.Name}}OnceSet) Len() int      { return int(s.n) }
func (s *{{$r.Name}}OnceSet) IsEmpty() bool { return s.n == 0 }
{{end}}
func (s *{{$r.Name}}OnceSet) Reset() {
	s.bits = [{{$r.BitWords}}]uint32{}
	s.n = 0
{{if $r.HasString}}	s.log = [Num{{$r.Name}}Fields]{{$r.EntryType}}{} // drop string refs
{{end}}{{range $f := $r.NestedFields}}	s.{{$f.LowerName}}.Reset()
{{end}}}
{{template "storetail" $r.Once}}
{{if $r.HasNested}}type {{$r.Name}}OnceCursor struct {
	s    *{{$r.Name}}OnceSet
	i    int
	desc int
{{range $f := $r.NestedFields}}	{{$f.LowerName}} {{$f.TypeName}}OnceCursor
{{end}}	cur  {{$r.Name}}Change
}

func (c *{{$r.Name}}OnceCursor) Next() bool {
	for {
		switch c.desc {
{{range $f := $r.NestedFields}}		case int({{$r.Name}}Field{{$f.Name}}):
			if c.{{$f.LowerName}}.Next() {
				c.cur = {{$r.Name}}Change{field: {{$r.Name}}Field{{$f.Name}}, {{$f.LowerName}}: c.{{$f.LowerName}}.Change()}
				return true
			}
			c.desc = 0
{{end}}		}
		if c.i >= int(c.s.n) {
			return false
		}
		e := &c.s.log[c.i]
		c.i++
		switch e.field {
{{range $f := $r.Fields}}		case {{$r.Name}}Field{{$f.Name}}:
{{if $f.IsNested}}			c.{{$f.LowerName}} = c.s.{{$f.LowerName}}.Changes()
			c.desc = int({{$r.Name}}Field{{$f.Name}})
{{else if $f.IsString}}			c.cur = {{$r.Name}}Change{field: {{$r.Name}}Field{{$f.Name}}, str: e.str}
			return true
{{else}}			c.cur = {{$r.Name}}Change{field: {{$r.Name}}Field{{$f.Name}}, word: e.word}
			return true
{{end}}{{end}}		}
	}
}
{{else}}type {{$r.Name}}OnceCursor struct {
	s   *{{$r.Name}}OnceSet
	i   int
	cur {{$r.Name}}Change
}

func (c *{{$r.Name}}OnceCursor) Next() bool {
	if c.i >= int(c.s.n) {
		return false
	}
	e := &c.s.log[c.i]
	c.i++
	c.cur = {{$r.Name}}Change{field: e.field, word: e.word{{if $r.HasString}}, str: e.str{{end}}}
	return true
}
{{end}}
func (c *{{$r.Name}}OnceCursor) Change() {{$r.Name}}Change { return c.cur }

type {{$r.Name}}LastSet struct {
	pos [Num{{$r.Name}}Fields]uint16
	log [Num{{$r.Name}}Fields]{{$r.EntryType}}
	n   uint16
	up  changeset.Link
{{range $f := $r.NestedFields}}	{{$f.LowerName}} {{$f.TypeName}}LastSet
{{end}}}

func New{{$r.Name}}LastSet() *{{$r.Name}}LastSet {
	s := new({{$r.Name}}LastSet)
	s.Attach(changeset.Link{})
	return s
}

{{if $r.HasNested}}// Attach wires s and its child stores into a parent chain. Stores made by
// the New constructor are attached already; call this only after embedding
// the store by value into another structure.
{{end}}func (s *{{$r.Name}}LastSet) Attach(up changeset.Link) {
	s.up = up
{{range $f := $r.NestedFields}}	s.{{$f.LowerName}}.Attach(changeset.Link{Owner: s, Slot: {{$f.Slot}}})
{{end}}}

{{range $f := $r.Fields}}{{if $f.IsNested}}func (s *{{$r.Name}}LastSet) Update{{$f.Name}}() {{$f.TypeName}}Setter { return &s.{{$f.LowerName}} }
{{else if $f.IsString}}func (s *{{$r.Name}}LastSet) Set{{$f.Name}}(v string) { s.set({{$r.Name}}Field{{$f.Name}}, 0, v) }
{{else}}func (s *{{$r.Name}}LastSet) Set{{$f.Name}}(v {{$f.TypeName}}) { s.set({{$r.Name}}Field{{$f.Name}}, {{$f.WordExpr "v"}}{{if $r.HasString}}, ""{{end}}) }
{{end}}{{end}}
{{if $r.HasNested}}func (s *{{$r.Name}}LastSet) MarkChanged(slot int) {
	s.set({{$r.Name}}Field(slot+1), 0{{if $r.HasString}}, ""{{end}})
}

{{end}}func (s *{{$r.Name}}LastSet) set(f {{$r.Name}}Field, w uint64{{if $r.HasString}}, str string{{end}}) {
	i := int(f) - 1
	if p := s.pos[i]; p != 0 {
		{{if $r.HasString}}s.log[p-1].word, s.log[p-1].str = w, str{{else}}s.log[p-1].word = w{{end}} // keep first-write order, take the last value
		return
	}
	if s.n == 0 {
		s.up.Mark()
	}
	s.log[s.n] = {{$r.EntryType}}{field: f, word: w{{if $r.HasString}}, str: str{{end}}}
	s.n++
	s.pos[i] = s.n
}

{{if $r.HasNested}}func (s *{{$r.Name}}LastSet) Len() int {
	n := int(s.n)
{{range $f := $r.NestedFields}}	if k := s.{{$f.LowerName}}.Len(); k > 0 {
		n += k - 1
	}
{{end}}	return n
}

func (s *{{$r.Name}}LastSet) IsEmpty() bool { return s.n == 0 }
{{else}}func (s *{{$r.Name}}LastSet) Len() int      { return int(s.n) }
func (s *{{$r.Name}}LastSet) IsEmpty() bool { return s.n == 0 }
{{end}}
func (s *{{$r.Name}}LastSet) Reset() {
	s.pos = [Num{{$r.Name}}Fields]uint16{}
	s.n = 0
{{if $r.HasString}}	s.log = [Num{{$r.Name}}Fields]{{$r.EntryType}}{} // drop string refs
{{end}}{{range $f := $r.NestedFields}}	s.{{$f.LowerName}}.Reset()
{{end}}}
{{template "storetail" $r.Last}}
{{if $r.HasNested}}type {{$r.Name}}LastCursor struct {
	s    *{{$r.Name}}LastSet
	i    int
	desc int
{{range $f := $r.NestedFields}}	{{$f.LowerName}} {{$f.TypeName}}LastCursor
{{end}}	cur  {{$r.Name}}Change
}

func (c *{{$r.Name}}LastCursor) Next() bool {
	for {
		switch c.desc {
{{range $f := $r.NestedFields}}		case int({{$r.Name}}Field{{$f.Name}}):
			if c.{{$f.LowerName}}.Next() {
				c.cur = {{$r.Name}}Change{field: {{$r.Name}}Field{{$f.Name}}, {{$f.LowerName}}: c.{{$f.LowerName}}.Change()}
				return true
			}
			c.desc = 0
{{end}}		}
		if c.i >= int(c.s.n) {
			return false
		}
		e := &c.s.log[c.i]
		c.i++
		switch e.field {
{{range $f := $r.Fields}}		case {{$r.Name}}Field{{$f.Name}}:
{{if $f.IsNested}}			c.{{$f.LowerName}} = c.s.{{$f.LowerName}}.Changes()
			c.desc = int({{$r.Name}}Field{{$f.Name}})
{{else if $f.IsString}}			c.cur = {{$r.Name}}Change{field: {{$r.Name}}Field{{$f.Name}}, str: e.str}
			return true
{{else}}			c.cur = {{$r.Name}}Change{field: {{$r.Name}}Field{{$f.Name}}, word: e.word}
			return true
{{end}}{{end}}		}
	}
}
{{else}}type {{$r.Name}}LastCursor struct {
	s   *{{$r.Name}}LastSet
	i   int
	cur {{$r.Name}}Change
}

func (c *{{$r.Name}}LastCursor) Next() bool {
	if c.i >= int(c.s.n) {
		return false
	}
	e := &c.s.log[c.i]
	c.i++
	c.cur = {{$r.Name}}Change{field: e.field, word: e.word{{if $r.HasString}}, str: e.str{{end}}}
	return true
}
{{end}}
func (c *{{$r.Name}}LastCursor) Change() {{$r.Name}}Change { return c.cur }

func Decode{{$r.Name}}Changes(dec *msgpack.Decoder, to {{$r.Name}}Setter) error {
	n, err := changeset.DecodeBatchLen(dec, "{{$r.Name}}")
	if err != nil {
		return err
	}
	for range n {
		if err := decode{{$r.Name}}Change(dec, to); err != nil {
			return err
		}
	}
	return nil
}

func decode{{$r.Name}}Change(dec *msgpack.Decoder, to {{$r.Name}}Setter) error {
	code, kind, err := changeset.DecodeChangeHeader(dec, "{{$r.Name}}")
	if err != nil {
		return err
	}
	switch {{$r.Name}}Field(code) {
{{range $f := $r.Fields}}	case {{$r.Name}}Field{{$f.Name}}:
{{if $f.IsNested}}		if err := changeset.ExpectNested(kind, "{{$r.Name}}.{{$f.Name}}"); err != nil {
			return err
		}
		return decode{{$f.TypeName}}Change(dec, to.Update{{$f.Name}}())
{{else}}		v, err := changeset.Decode{{$f.Kind}}Value(dec, kind, "{{$r.Name}}.{{$f.Name}}")
		if err != nil {
			return err
		}
		to.Set{{$f.Name}}({{$f.DecodeArg}})
{{end}}{{end}}	default:
		return changeset.WireErrf("decode", "{{$r.Name}}", nil, "unknown field code %d", code)
	}
	return nil
}

func Unmarshal{{$r.Name}}Changes(data []byte, to {{$r.Name}}Setter) error {
	return changeset.DecodeBytes(data, func(dec *msgpack.Decoder) error {
		return Decode{{$r.Name}}Changes(dec, to)
	})
}

var (
	_ {{$r.Name}}Setter = (*{{$r.Name}})(nil)
	_ {{$r.Name}}Setter = (*{{$r.Name}}OptSet)(nil)
	_ {{$r.Name}}Setter = (*{{$r.Name}}OnceSet)(nil)
	_ {{$r.Name}}Setter = (*{{$r.Name}}LastSet)(nil)
{{if $r.HasNested}}	_ changeset.Owner = (*{{$r.Name}}OnceSet)(nil)
	_ changeset.Owner = (*{{$r.Name}}LastSet)(nil)
{{end}}	_ changeset.Cursor[{{$r.Name}}Change] = (*{{$r.Name}}OptCursor)(nil)
	_ changeset.Cursor[{{$r.Name}}Change] = (*{{$r.Name}}OnceCursor)(nil)
	_ changeset.Cursor[{{$r.Name}}Change] = (*{{$r.Name}}LastCursor)(nil)
)
{{end}}`

const storeTailText = `{{define "storetail"}}
func (s *{{.Store}}) Changes() {{.Cursor}} {
	return {{.Cursor}}{s: s}
}

func (s *{{.Store}}) Seq() iter.Seq[{{.R.Name}}Change] {
	return func(yield func({{.R.Name}}Change) bool) {
		c := s.Changes()
		for c.Next() {
			if !yield(c.Change()) {
				return
			}
		}
	}
}

func (s *{{.Store}}) ApplyTo(to {{.R.Name}}Setter) {
	c := s.Changes()
	for c.Next() {
		c.Change().Apply(to)
	}
}

func (s *{{.Store}}) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(s.Len()); err != nil {
		return err
	}
	c := s.Changes()
	for c.Next() {
		if err := c.Change().EncodeMsgpack(enc); err != nil {
			return err
		}
	}
	return nil
}
{{end}}`
