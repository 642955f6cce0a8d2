package field

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// MarshalElements concatenates the fixed-width encodings of xs.
func MarshalElements(f Field, xs []Element) ([]byte, error) {
	out := make([]byte, 0, len(xs)*f.ByteLen())
	for i, x := range xs {
		if x.Field() != f {
			return nil, fmt.Errorf("field: element %d belongs to %s, expected %s", i, x.Field().Name(), f.Name())
		}
		data, err := x.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("field: marshal element %d: %w", i, err)
		}
		out = append(out, data...)
	}
	return out, nil
}

// UnmarshalElements is the inverse of MarshalElements.
func UnmarshalElements(f Field, data []byte) ([]Element, error) {
	size := f.ByteLen()
	if len(data)%size != 0 {
		return nil, fmt.Errorf("field: %d bytes is not a multiple of the %s element size %d", len(data), f.Name(), size)
	}
	out := make([]Element, len(data)/size)
	for i := range out {
		out[i] = f.NewElement()
		if err := out[i].UnmarshalBinary(data[i*size : (i+1)*size]); err != nil {
			return nil, fmt.Errorf("field: element %d: %w", i, err)
		}
	}
	return out, nil
}

// Elements is a list of elements of a single field which can be embedded in CBOR encoded messages.
// The field is encoded by name, so the receiver does not need to know it in advance.
type Elements struct {
	Field  Field
	Values []Element
}

// NewElements returns Elements wrapping xs.
func NewElements(f Field, xs []Element) Elements {
	return Elements{Field: f, Values: xs}
}

type elementsCBOR struct {
	Field string
	Data  []byte
}

// MarshalCBOR implements cbor.Marshaler.
func (e Elements) MarshalCBOR() ([]byte, error) {
	if e.Field == nil {
		return nil, errors.New("field: cannot marshal elements without a field")
	}
	data, err := MarshalElements(e.Field, e.Values)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(elementsCBOR{Field: e.Field.Name(), Data: data})
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (e *Elements) UnmarshalCBOR(data []byte) error {
	var raw elementsCBOR
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	f, err := ByName(raw.Field)
	if err != nil {
		return err
	}
	values, err := UnmarshalElements(f, raw.Data)
	if err != nil {
		return err
	}
	e.Field = f
	e.Values = values
	return nil
}

// Len returns the number of elements.
func (e Elements) Len() int { return len(e.Values) }
