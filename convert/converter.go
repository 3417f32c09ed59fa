package convert

import (
	"fmt"
	"reflect"

	"github.com/wippyai/jsinterop/errors"
)

// Converter is a value conversion for one Go type.
//
// ToHost produces a wire-compatible value (a primitive, or any value the
// bridge can encode). FromHost rebuilds the Go value from what crossed.
//
// Filters are script expressions over the variable value, run on the host
// side. PreFilter runs before a host value crosses into Go; PostFilter
// runs after an encoded value arrives on the host side.
type Converter struct {
	Type       reflect.Type
	ToHost     func(reflect.Value) (any, error)
	FromHost   func(any) (reflect.Value, error)
	PreFilter  string
	PostFilter string
}

// Option configures a converter at registration.
type Option func(*Converter)

// WithPreFilter sets the host-side expression applied before inbound crossing.
func WithPreFilter(expr string) Option {
	return func(c *Converter) { c.PreFilter = expr }
}

// WithPostFilter sets the host-side expression applied after outbound crossing.
func WithPostFilter(expr string) Option {
	return func(c *Converter) { c.PostFilter = expr }
}

// Encode runs ToHost on v, which must be of the converter's type.
func (c *Converter) Encode(v reflect.Value) (any, error) {
	if v.Type() != c.Type {
		return nil, errors.TypeMismatch(errors.PhaseEncode, nil, v.Type().String(), c.Type.String())
	}
	out, err := c.ToHost(v)
	if err != nil {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			GoType(c.Type.String()).
			Cause(err).
			Detail("converter ToHost failed").
			Build()
	}
	return out, nil
}

// Decode runs FromHost on a value that crossed from the host.
func (c *Converter) Decode(v any) (reflect.Value, error) {
	out, err := c.FromHost(v)
	if err != nil {
		return reflect.Value{}, errors.New(errors.PhaseDecode, errors.KindInvalidInput).
			GoType(c.Type.String()).
			HostType(fmt.Sprintf("%T", v)).
			Cause(err).
			Detail("converter FromHost failed").
			Build()
	}
	if !out.IsValid() {
		return reflect.Value{}, errors.TypeMismatch(errors.PhaseDecode, nil, c.Type.String(), "invalid")
	}
	if out.Type() != c.Type {
		return reflect.Value{}, errors.TypeMismatch(errors.PhaseDecode, nil, c.Type.String(), out.Type().String())
	}
	return out, nil
}

// Register adds a typed converter for T to reg.
func Register[T any](reg *Registry, toHost func(T) (any, error), fromHost func(any) (T, error), opts ...Option) error {
	if toHost == nil || fromHost == nil {
		return errors.Registration("converter", reflect.TypeFor[T]().String(),
			errors.InvalidInput(errors.PhaseRegister, "ToHost and FromHost are required"))
	}
	c := &Converter{
		Type: reflect.TypeFor[T](),
		ToHost: func(v reflect.Value) (any, error) {
			return toHost(v.Interface().(T))
		},
		FromHost: func(v any) (reflect.Value, error) {
			out, err := fromHost(v)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(&out).Elem(), nil
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return reg.Add(c)
}
