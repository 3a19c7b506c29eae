package changeset

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrBadWire is the root cause of all decoding errors that stem from the
// change data itself rather than from the underlying reader.
var ErrBadWire = errors.New("malformed change data")

// WireError reports a failure to encode or decode a change batch. Op is
// "encode" or "decode", Path names the record field involved when known.
type WireError struct {
	Op   string
	Path string
	Msg  string
	Err  error
}

// WireErrf builds a WireError. A nil err is replaced with ErrBadWire, so
// format-level problems remain matchable with errors.Is.
func WireErrf(op, path string, err error, format string, args ...any) error {
	if err == nil {
		err = ErrBadWire
	}
	return &WireError{op, path, fmt.Sprintf(format, args...), err}
}

func (e *WireError) Unwrap() error {
	return e.Err
}

func (e *WireError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("changeset: %s %s: %s: %v", e.Op, e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("changeset: %s: %s: %v", e.Op, e.Msg, e.Err)
}

// Changes travel as a msgpack array of items, one item per leaf change:
//
//	[code int, kind int, value]
//
// where code is the field's position in its enum and kind is the field's
// LeafKind. A nested change is an item whose kind is KindNone and whose
// value is the wrapped child item. Generated EncodeMsgpack methods and
// Decode<R>Changes functions drive the helpers below.

func EncodeBoolChange(enc *msgpack.Encoder, code int, v bool) error {
	if err := encodeChangeHead(enc, code, KindBool); err != nil {
		return err
	}
	return enc.EncodeBool(v)
}

func EncodeIntChange(enc *msgpack.Encoder, code int, v int64) error {
	if err := encodeChangeHead(enc, code, KindInt); err != nil {
		return err
	}
	return enc.EncodeInt(v)
}

func EncodeUintChange(enc *msgpack.Encoder, code int, v uint64) error {
	if err := encodeChangeHead(enc, code, KindUint); err != nil {
		return err
	}
	return enc.EncodeUint(v)
}

func EncodeFloatChange(enc *msgpack.Encoder, code int, v float64) error {
	if err := encodeChangeHead(enc, code, KindFloat); err != nil {
		return err
	}
	return enc.EncodeFloat64(v)
}

func EncodeStringChange(enc *msgpack.Encoder, code int, v string) error {
	if err := encodeChangeHead(enc, code, KindString); err != nil {
		return err
	}
	return enc.EncodeString(v)
}

func EncodeNestedChange(enc *msgpack.Encoder, code int, child msgpack.CustomEncoder) error {
	if err := encodeChangeHead(enc, code, KindNone); err != nil {
		return err
	}
	return child.EncodeMsgpack(enc)
}

func encodeChangeHead(enc *msgpack.Encoder, code int, kind LeafKind) error {
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(code)); err != nil {
		return err
	}
	return enc.EncodeInt(int64(kind))
}

// DecodeBatchLen reads the item count that opens an encoded batch.
func DecodeBatchLen(dec *msgpack.Decoder, path string) (int, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return 0, WireErrf("decode", path, err, "batch header")
	}
	if n < 0 {
		return 0, WireErrf("decode", path, nil, "batch is not an array")
	}
	return n, nil
}

// DecodeChangeHeader reads an item's code and kind, leaving the decoder
// positioned at the value. The caller dispatches on code and consumes the
// value with the matching DecodeXxxValue helper.
func DecodeChangeHeader(dec *msgpack.Decoder, path string) (code int, kind LeafKind, err error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return 0, 0, WireErrf("decode", path, err, "change header")
	}
	if n != 3 {
		return 0, 0, WireErrf("decode", path, nil, "change has %d elements, wanted 3", n)
	}
	c, err := dec.DecodeInt()
	if err != nil {
		return 0, 0, WireErrf("decode", path, err, "field code")
	}
	k, err := dec.DecodeInt()
	if err != nil {
		return 0, 0, WireErrf("decode", path, err, "field kind")
	}
	return c, LeafKind(k), nil
}

func DecodeBoolValue(dec *msgpack.Decoder, kind LeafKind, path string) (bool, error) {
	if kind != KindBool {
		return false, WireErrf("decode", path, nil, "got kind %v, wanted %v", kind, KindBool)
	}
	v, err := dec.DecodeBool()
	if err != nil {
		return false, WireErrf("decode", path, err, "bool value")
	}
	return v, nil
}

func DecodeIntValue(dec *msgpack.Decoder, kind LeafKind, path string) (int64, error) {
	if kind != KindInt {
		return 0, WireErrf("decode", path, nil, "got kind %v, wanted %v", kind, KindInt)
	}
	v, err := dec.DecodeInt64()
	if err != nil {
		return 0, WireErrf("decode", path, err, "int value")
	}
	return v, nil
}

func DecodeUintValue(dec *msgpack.Decoder, kind LeafKind, path string) (uint64, error) {
	if kind != KindUint {
		return 0, WireErrf("decode", path, nil, "got kind %v, wanted %v", kind, KindUint)
	}
	v, err := dec.DecodeUint64()
	if err != nil {
		return 0, WireErrf("decode", path, err, "uint value")
	}
	return v, nil
}

func DecodeFloatValue(dec *msgpack.Decoder, kind LeafKind, path string) (float64, error) {
	if kind != KindFloat {
		return 0, WireErrf("decode", path, nil, "got kind %v, wanted %v", kind, KindFloat)
	}
	v, err := dec.DecodeFloat64()
	if err != nil {
		return 0, WireErrf("decode", path, err, "float value")
	}
	return v, nil
}

func DecodeStringValue(dec *msgpack.Decoder, kind LeafKind, path string) (string, error) {
	if kind != KindString {
		return "", WireErrf("decode", path, nil, "got kind %v, wanted %v", kind, KindString)
	}
	v, err := dec.DecodeString()
	if err != nil {
		return "", WireErrf("decode", path, err, "string value")
	}
	return v, nil
}

// ExpectNested verifies that an item dispatched to a nested field actually
// wraps a child item.
func ExpectNested(kind LeafKind, path string) error {
	if kind != KindNone {
		return WireErrf("decode", path, nil, "got kind %v, wanted a nested change", kind)
	}
	return nil
}

// AppendChanges appends the msgpack encoding of a batch to buf. The batch
// is any generated store (they all implement msgpack.CustomEncoder).
func AppendChanges(buf []byte, batch msgpack.CustomEncoder) ([]byte, error) {
	bb := bytesBuilder{buf}
	enc := msgpack.GetEncoder()
	enc.ResetDict(&bb, nil)
	enc.SetSortMapKeys(true)
	err := batch.EncodeMsgpack(enc)
	msgpack.PutEncoder(enc)
	if err != nil {
		return nil, err
	}
	return bb.Buf, nil
}

// DecodeBytes runs fn over a pooled decoder reading data. Generated
// Unmarshal<R>Changes functions wrap it around Decode<R>Changes.
func DecodeBytes(data []byte, fn func(dec *msgpack.Decoder) error) error {
	var r bytes.Reader
	r.Reset(data)
	dec := msgpack.GetDecoder()
	dec.ResetDict(&r, nil)
	err := fn(dec)
	msgpack.PutDecoder(dec)
	return err
}

type bytesBuilder struct {
	Buf []byte
}

func (bb *bytesBuilder) Write(b []byte) (int, error) {
	bb.Buf = append(bb.Buf, b...)
	return len(b), nil
}

func (bb *bytesBuilder) WriteByte(v byte) error {
	bb.Buf = append(bb.Buf, v)
	return nil
}
