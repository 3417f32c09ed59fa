package enum

import (
	stderrors "errors"
	"math"
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/jsinterop/errors"
)

// Integer is the set of underlying types an enum may have.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Member declares one enum member. Export nil selects the default rule
// (member name). Hidden excludes the member from string export; it stays
// reachable by numeric value.
type Member[E Integer] struct {
	Export *Export
	Name   string
	Value  E
	Hidden bool
}

// MemberInfo describes a resolved member.
type MemberInfo struct {
	Name           string
	Aliases        []string
	Representation Representation
	Value          int64
	Rule           Rule
}

type resolved[E Integer] struct {
	info  MemberInfo
	value E
}

// Descriptor is the immutable per-type table mapping members to their
// resolved host representations.
type Descriptor[E Integer] struct {
	goType     reflect.Type
	byValue    map[int64]int
	byString   map[string][]int
	typeName   string
	members    []resolved[E]
	hasNumeric bool
}

// Build validates the declaration and resolves every member once.
func Build[E Integer](typeName string, members []Member[E]) (*Descriptor[E], error) {
	if typeName == "" {
		return nil, errors.InvalidInput(errors.PhaseResolve, "enum type name cannot be empty")
	}

	d := &Descriptor[E]{
		goType:   reflect.TypeFor[E](),
		typeName: typeName,
		members:  make([]resolved[E], 0, len(members)),
		byValue:  make(map[int64]int, len(members)),
		byString: make(map[string][]int, len(members)),
	}

	names := make(map[string]struct{}, len(members))
	for i, m := range members {
		path := []string{typeName, m.Name}
		if m.Name == "" {
			return nil, errors.New(errors.PhaseResolve, errors.KindInvalidInput).
				Path(typeName, strconv.Itoa(i)).
				Detail("member name cannot be empty").
				Build()
		}
		if _, dup := names[m.Name]; dup {
			return nil, errors.New(errors.PhaseResolve, errors.KindInvalidInput).
				Path(path...).
				Detail("duplicate member name").
				Build()
		}
		names[m.Name] = struct{}{}

		key, ok := keyOf(m.Value)
		if !ok {
			return nil, errors.Overflow(errors.PhaseResolve, path, uint64(m.Value), "int64")
		}
		if prev, dup := d.byValue[key]; dup {
			return nil, errors.New(errors.PhaseResolve, errors.KindInvalidInput).
				Path(path...).
				Value(key).
				Detail("value %d already declared by %s", key, d.members[prev].info.Name).
				Build()
		}

		rule := RuleFor(m.Export, m.Hidden)
		rep := Resolve(m.Name, key, rule)
		if s, isStr := rep.AsString(); isStr && s == "" {
			return nil, errors.New(errors.PhaseResolve, errors.KindInvalidInput).
				Path(path...).
				Detail("resolved export string is empty").
				Build()
		}

		idx := len(d.members)
		info := MemberInfo{
			Name:           m.Name,
			Value:          key,
			Rule:           rule,
			Representation: rep,
		}
		if m.Export != nil && !m.Hidden {
			info.Aliases = append([]string(nil), m.Export.Aliases...)
		}
		d.members = append(d.members, resolved[E]{info: info, value: m.Value})
		d.byValue[key] = idx

		if rule.Kind == RuleNumeric {
			d.hasNumeric = true
		}
		if s, isStr := rep.AsString(); isStr {
			d.index(s, idx)
		}
		for _, alias := range info.Aliases {
			d.index(alias, idx)
		}
	}

	for s, idxs := range d.byString {
		if len(idxs) > 1 {
			Logger().Warn("enum string representation shared by several members",
				zap.String("type", typeName),
				zap.String("representation", s),
				zap.Int("members", len(idxs)))
		}
	}

	Logger().Debug("enum descriptor built",
		zap.String("type", typeName),
		zap.String("go_type", d.goType.String()),
		zap.Int("members", len(d.members)))

	return d, nil
}

func (d *Descriptor[E]) index(s string, idx int) {
	if s == "" {
		return
	}
	for _, existing := range d.byString[s] {
		if existing == idx {
			return
		}
	}
	d.byString[s] = append(d.byString[s], idx)
}

// TypeName returns the declared enum type name.
func (d *Descriptor[E]) TypeName() string { return d.typeName }

// GoType returns the Go type of the enum.
func (d *Descriptor[E]) GoType() reflect.Type { return d.goType }

// Members returns the resolved members in declaration order.
func (d *Descriptor[E]) Members() []MemberInfo {
	out := make([]MemberInfo, len(d.members))
	for i, m := range d.members {
		out[i] = m.info
		out[i].Aliases = append([]string(nil), m.info.Aliases...)
	}
	return out
}

// HasNumeric reports whether any member uses the Numeric rule.
func (d *Descriptor[E]) HasNumeric() bool { return d.hasNumeric }

// ToHost returns the resolved representation of v.
func (d *Descriptor[E]) ToHost(v E) (Representation, error) {
	key, ok := keyOf(v)
	if !ok {
		return Representation{}, errors.UnknownEnumMember(d.typeName, uint64(v))
	}
	idx, ok := d.byValue[key]
	if !ok {
		return Representation{}, errors.UnknownEnumMember(d.typeName, key)
	}
	return d.members[idx].info.Representation, nil
}

// FromHost maps a host representation back to a member.
//
// Strings are matched case-sensitively against resolved strings and
// aliases; exactly one match wins. When the type has Numeric members, a
// string that parses as a base-10 integer falls back to value matching.
// Numbers match by underlying value regardless of the member's rule.
func (d *Descriptor[E]) FromHost(r Representation) (E, error) {
	var zero E

	if s, isStr := r.AsString(); isStr {
		if idxs := d.byString[s]; len(idxs) == 1 {
			return d.members[idxs[0]].value, nil
		}
		if d.hasNumeric {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				if idx, ok := d.byValue[n]; ok {
					return d.members[idx].value, nil
				}
			}
		}
		return zero, errors.EnumMemberNotFound(d.typeName, s)
	}

	n, _ := r.AsNumber()
	if idx, ok := d.byValue[n]; ok {
		return d.members[idx].value, nil
	}
	return zero, errors.EnumMemberNotFound(d.typeName, n)
}

// FromValue maps a raw host value (string, float64 or any Go integer) to a member.
func (d *Descriptor[E]) FromValue(v any) (E, error) {
	var zero E
	r, err := representationOf(v)
	switch err {
	case nil:
		return d.FromHost(r)
	case errNotInteger:
		return zero, errors.EnumMemberNotFound(d.typeName, v)
	default:
		return zero, errors.TypeMismatch(errors.PhaseDecode, nil, d.typeName, typeString(reflect.ValueOf(v)))
	}
}

// Encode implements Codec.
func (d *Descriptor[E]) Encode(v reflect.Value) (Representation, error) {
	if !v.IsValid() || v.Type() != d.goType {
		return Representation{}, errors.TypeMismatch(errors.PhaseEncode, nil, typeString(v), d.goType.String())
	}
	return d.ToHost(v.Interface().(E))
}

// Decode implements Codec.
func (d *Descriptor[E]) Decode(r Representation) (reflect.Value, error) {
	e, err := d.FromHost(r)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(e), nil
}

// DecodeValue implements Codec.
func (d *Descriptor[E]) DecodeValue(v any) (reflect.Value, error) {
	e, err := d.FromValue(v)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(e), nil
}

var (
	errNotInteger       = stderrors.New("enum: number is not an integral int64")
	errNotRepresentable = stderrors.New("enum: value is neither string nor number")
)

func representationOf(v any) (Representation, error) {
	switch x := v.(type) {
	case Representation:
		return x, nil
	case string:
		return StringRep(x), nil
	case float64:
		n, ok := numberFromFloat(x)
		if !ok {
			return Representation{}, errNotInteger
		}
		return NumberRep(n), nil
	case float32:
		n, ok := numberFromFloat(float64(x))
		if !ok {
			return Representation{}, errNotInteger
		}
		return NumberRep(n), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NumberRep(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Representation{}, errNotInteger
		}
		return NumberRep(int64(u)), nil
	}
	return Representation{}, errNotRepresentable
}

// keyOf widens v to int64; unsigned values above MaxInt64 are rejected.
func keyOf[E Integer](v E) (int64, bool) {
	var zero, one E = 0, 1
	if zero-one < zero {
		return int64(v), true
	}
	u := uint64(v)
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

func typeString(v reflect.Value) string {
	if !v.IsValid() {
		return "nil"
	}
	return v.Type().String()
}
