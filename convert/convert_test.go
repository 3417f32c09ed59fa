package convert

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/wippyai/jsinterop/errors"
)

type point struct{ X, Y int }

func pointToHost(p point) (any, error) { return fmt.Sprintf("%d,%d", p.X, p.Y), nil }

func pointFromHost(v any) (point, error) {
	s, ok := v.(string)
	if !ok {
		return point{}, fmt.Errorf("want string, got %T", v)
	}
	x, y, ok := strings.Cut(s, ",")
	if !ok {
		return point{}, fmt.Errorf("bad point %q", s)
	}
	px, err := strconv.Atoi(x)
	if err != nil {
		return point{}, err
	}
	py, err := strconv.Atoi(y)
	if err != nil {
		return point{}, err
	}
	return point{px, py}, nil
}

func TestRegister_RoundTrip(t *testing.T) {
	reg := NewRegistry()
	if err := Register(reg, pointToHost, pointFromHost, WithPostFilter("value.split(',')")); err != nil {
		t.Fatal(err)
	}

	c, ok := reg.Lookup(reflect.TypeFor[point]())
	if !ok {
		t.Fatal("converter not found")
	}
	if c.PostFilter != "value.split(',')" || c.PreFilter != "" {
		t.Errorf("filters = %q / %q", c.PreFilter, c.PostFilter)
	}

	wire, err := c.Encode(reflect.ValueOf(point{3, -4}))
	if err != nil {
		t.Fatal(err)
	}
	if wire != "3,-4" {
		t.Errorf("wire = %v", wire)
	}
	back, err := c.Decode(wire)
	if err != nil {
		t.Fatal(err)
	}
	if back.Interface().(point) != (point{3, -4}) {
		t.Errorf("back = %v", back)
	}
}

func TestConverter_Errors(t *testing.T) {
	reg := NewRegistry()
	if err := Register(reg, pointToHost, pointFromHost); err != nil {
		t.Fatal(err)
	}
	c, _ := reg.Lookup(reflect.TypeFor[point]())

	if _, err := c.Decode(float64(1)); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("decode err = %v", err)
	}
	if _, err := c.Encode(reflect.ValueOf(1)); !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Errorf("encode err = %v", err)
	}

	if err := Register(reg, pointToHost, pointFromHost); !errors.IsKind(err, errors.KindRegistration) {
		t.Errorf("duplicate err = %v", err)
	}
	if err := Register[point](NewRegistry(), nil, pointFromHost); err == nil {
		t.Error("nil ToHost should fail")
	}
	if err := reg.Add(&Converter{}); err == nil {
		t.Error("converter without type should fail")
	}
}

func TestRequire(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Require(reflect.TypeFor[point]()); !errors.IsKind(err, errors.KindUnsupportedType) {
		t.Errorf("err = %v, want unsupported_type", err)
	}
	var nilReg *Registry
	if _, ok := nilReg.Lookup(reflect.TypeFor[point]()); ok {
		t.Error("nil registry lookup should miss")
	}
}

func TestDefault_Time(t *testing.T) {
	c, ok := Default().Lookup(reflect.TypeFor[time.Time]())
	if !ok {
		t.Fatal("time converter missing")
	}
	if c.PreFilter == "" || c.PostFilter == "" {
		t.Error("time converter should carry filters")
	}

	when := time.Date(2024, 3, 1, 12, 30, 0, 500, time.FixedZone("X", 3600))
	wire, err := c.Encode(reflect.ValueOf(when))
	if err != nil {
		t.Fatal(err)
	}
	if wire != "2024-03-01T11:30:00.0000005Z" {
		t.Errorf("wire = %v", wire)
	}
	back, err := c.Decode(wire)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Interface().(time.Time).Equal(when) {
		t.Errorf("back = %v", back)
	}

	if _, err := c.Decode("yesterday"); err == nil {
		t.Error("bad time string should fail")
	}
	ms, err := c.Decode(float64(0))
	if err != nil || !ms.Interface().(time.Time).Equal(time.Unix(0, 0)) {
		t.Errorf("epoch = %v, %v", ms, err)
	}
}

func TestDefault_URL(t *testing.T) {
	c, ok := Default().Lookup(reflect.TypeFor[*url.URL]())
	if !ok {
		t.Fatal("url converter missing")
	}
	u, _ := url.Parse("https://example.com/a?b=c")
	wire, err := c.Encode(reflect.ValueOf(u))
	if err != nil || wire != "https://example.com/a?b=c" {
		t.Fatalf("wire = %v, %v", wire, err)
	}
	back, err := c.Decode(wire)
	if err != nil {
		t.Fatal(err)
	}
	if back.Interface().(*url.URL).Host != "example.com" {
		t.Errorf("host = %v", back.Interface())
	}

	null, err := c.Decode(nil)
	if err != nil || !null.IsNil() {
		t.Errorf("nil url = %v, %v", null, err)
	}
}

func TestClone(t *testing.T) {
	base := Default()
	clone := base.Clone()
	if err := Register(clone, pointToHost, pointFromHost); err != nil {
		t.Fatal(err)
	}
	if _, ok := base.Lookup(reflect.TypeFor[point]()); ok {
		t.Error("clone registration leaked into the original")
	}
	if len(clone.Types()) != len(base.Types())+1 {
		t.Errorf("clone types = %d", len(clone.Types()))
	}
}
