package bind

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"synapse/internal/diag"
	"synapse/internal/source"
)

// Library holds the bindings visible to one compilation unit, keyed by
// name.
type Library struct {
	byName map[string]*Binding
	order  []string
}

func NewLibrary() *Library {
	return &Library{byName: make(map[string]*Binding)}
}

// Add registers b. A second binding with the same name is a definition
// error.
func (l *Library) Add(b *Binding, sink *diag.Sink) error {
	if prev, ok := l.byName[b.Name]; ok {
		return sink.ErrorWithNote(diag.BindDuplicateItem, b.Span,
			fmt.Sprintf("binding %q is already defined", b.Name), prev.Span, "previous definition")
	}
	l.byName[b.Name] = b
	l.order = append(l.order, b.Name)
	return nil
}

// Replace registers b, dropping any binding with the same name.
func (l *Library) Replace(b *Binding) {
	if _, ok := l.byName[b.Name]; !ok {
		l.order = append(l.order, b.Name)
	}
	l.byName[b.Name] = b
}

func (l *Library) Get(name string) (*Binding, bool) {
	b, ok := l.byName[name]
	return b, ok
}

// Bindings returns the bindings in definition order.
func (l *Library) Bindings() []*Binding {
	out := make([]*Binding, 0, len(l.order))
	for _, n := range l.order {
		out = append(out, l.byName[n])
	}
	return out
}

// Registered returns the bindings flagged for reuse across compilations.
func (l *Library) Registered() []*Binding {
	var out []*Binding
	for _, b := range l.Bindings() {
		if b.Register {
			out = append(out, b)
		}
	}
	return out
}

// containerMagic prefixes a file holding several encoded bindings.
const containerMagic = "synapse-bindings/1"

// EncodeAll writes a container of named bindings:
//
//	[magic:string][count:int32]{[name:string][register:bool][binding]}*
func EncodeAll(w io.Writer, bindings []*Binding) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.EncodeString(containerMagic); err != nil {
		return err
	}
	if err := encodeCount(enc, len(bindings)); err != nil {
		return err
	}
	for _, b := range bindings {
		if err := enc.EncodeString(b.Name); err != nil {
			return err
		}
		if err := enc.EncodeBool(b.Register); err != nil {
			return err
		}
		if err := b.encode(enc); err != nil {
			return fmt.Errorf("binding %q: %w", b.Name, err)
		}
	}
	return nil
}

// DecodeAll reads a container written by EncodeAll.
func DecodeAll(r io.Reader) ([]*Binding, error) {
	dec := msgpack.NewDecoder(r)
	magic, err := dec.DecodeString()
	if err != nil {
		return nil, malformed("container header", err)
	}
	if magic != containerMagic {
		return nil, &diag.Fault{Code: diag.IOMalformedInput, Message: fmt.Sprintf("unexpected container header %q", magic), Span: source.NoSpan}
	}
	n, err := decodeCount(dec, "binding count")
	if err != nil {
		return nil, err
	}
	out := make([]*Binding, 0, min(n, 64))
	for range n {
		name, err := dec.DecodeString()
		if err != nil {
			return nil, malformed("binding name", err)
		}
		register, err := dec.DecodeBool()
		if err != nil {
			return nil, malformed("register flag", err)
		}
		b, err := decodeBinding(dec, name)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", name, err)
		}
		b.Register = register
		out = append(out, b)
	}
	return out, nil
}
