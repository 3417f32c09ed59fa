package enum_test

import (
	"testing"

	"github.com/wippyai/jsinterop/enum"
	"github.com/wippyai/jsinterop/errors"
)

type RequestCache int

const (
	Default      RequestCache = -1
	NoStore      RequestCache = 0
	Reload       RequestCache = 1
	NoCache      RequestCache = 2
	ForceCache   RequestCache = 3
	OnlyIfCached RequestCache = -3636
)

func requestCacheMembers() []enum.Member[RequestCache] {
	return []enum.Member[RequestCache]{
		{Name: "Default", Value: Default},
		{Name: "NoStore", Value: NoStore, Export: &enum.Export{Name: "no-store"}},
		{Name: "Reload", Value: Reload, Export: &enum.Export{Convert: enum.ToUpper}},
		{Name: "NoCache", Value: NoCache, Export: &enum.Export{Convert: enum.ToLower}},
		{Name: "ForceCache", Value: ForceCache, Export: &enum.Export{Name: "force-cache"}},
		{Name: "OnlyIfCached", Value: OnlyIfCached, Export: &enum.Export{Convert: enum.Numeric}},
	}
}

type StyleColor uint32

const (
	RedNoExport       StyleColor = 0
	Red               StyleColor = 0xff0000ff
	GreenNumeric      StyleColor = 0x00ff00ff
	RedUpperCase      StyleColor = 0x00ff0100
	RedLowerCase      StyleColor = 0x00ff0101
	RedHex            StyleColor = 0x00ff0102
	RedWithJustExport StyleColor = 0x00ff0103
)

func styleColorMembers() []enum.Member[StyleColor] {
	return []enum.Member[StyleColor]{
		{Name: "RedNoExport", Value: RedNoExport, Hidden: true},
		{Name: "Red", Value: Red, Export: &enum.Export{Name: "Red"}},
		{Name: "GreenNumeric", Value: GreenNumeric, Export: &enum.Export{Convert: enum.Numeric}},
		{Name: "RedUpperCase", Value: RedUpperCase, Export: &enum.Export{Name: "RED"}},
		{Name: "RedLowerCase", Value: RedLowerCase, Export: &enum.Export{Name: "red"}},
		{Name: "RedHex", Value: RedHex, Export: &enum.Export{Name: "#ff0000"}},
		{Name: "RedWithJustExport", Value: RedWithJustExport, Export: &enum.Export{}},
	}
}

func mustBuild[E enum.Integer](t *testing.T, name string, members []enum.Member[E]) *enum.Descriptor[E] {
	t.Helper()
	d, err := enum.Build(name, members)
	if err != nil {
		t.Fatalf("Build(%s): %v", name, err)
	}
	return d
}

func TestRequestCache_Inbound(t *testing.T) {
	d := mustBuild(t, "RequestCache", requestCacheMembers())

	tests := []struct {
		name string
		in   any
		want RequestCache
	}{
		{"default name", "Default", Default},
		{"explicit", "no-store", NoStore},
		{"upper", "RELOAD", Reload},
		{"lower", "nocache", NoCache},
		{"number", float64(3), ForceCache},
		{"numeric only", float64(-3636), OnlyIfCached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.FromValue(tt.in)
			if err != nil {
				t.Fatalf("FromValue(%v): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("FromValue(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestRequestCache_Outbound(t *testing.T) {
	d := mustBuild(t, "RequestCache", requestCacheMembers())

	tests := []struct {
		in   RequestCache
		want enum.Representation
	}{
		{Default, enum.StringRep("Default")},
		{NoStore, enum.StringRep("no-store")},
		{Reload, enum.StringRep("RELOAD")},
		{NoCache, enum.StringRep("nocache")},
		{ForceCache, enum.StringRep("force-cache")},
		{OnlyIfCached, enum.NumberRep(-3636)},
	}

	for _, tt := range tests {
		got, err := d.ToHost(tt.in)
		if err != nil {
			t.Fatalf("ToHost(%d): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ToHost(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRequestCache_CaseSensitive(t *testing.T) {
	d := mustBuild(t, "RequestCache", requestCacheMembers())

	for _, in := range []string{"reload", "Reload", "NOCACHE", "No-Store", "default"} {
		_, err := d.FromValue(in)
		if !errors.IsKind(err, errors.KindEnumMemberNotFound) {
			t.Errorf("FromValue(%q) err = %v, want enum_member_not_found", in, err)
		}
	}
}

func TestRoundTrip_AllMembers(t *testing.T) {
	rc := mustBuild(t, "RequestCache", requestCacheMembers())
	for _, m := range requestCacheMembers() {
		rep, err := rc.ToHost(m.Value)
		if err != nil {
			t.Fatalf("ToHost(%s): %v", m.Name, err)
		}
		back, err := rc.FromHost(rep)
		if err != nil {
			t.Fatalf("FromHost(%v): %v", rep, err)
		}
		if back != m.Value {
			t.Errorf("%s round trip = %d", m.Name, back)
		}
	}

	sc := mustBuild(t, "StyleColor", styleColorMembers())
	for _, m := range styleColorMembers() {
		rep, err := sc.ToHost(m.Value)
		if err != nil {
			t.Fatalf("ToHost(%s): %v", m.Name, err)
		}
		back, err := sc.FromHost(rep)
		if err != nil {
			t.Fatalf("FromHost(%v): %v", rep, err)
		}
		if back != m.Value {
			t.Errorf("%s round trip = %#x", m.Name, back)
		}
	}
}

func TestNumericInbound_AllMembers(t *testing.T) {
	sc := mustBuild(t, "StyleColor", styleColorMembers())
	for _, m := range styleColorMembers() {
		got, err := sc.FromHost(enum.NumberRep(int64(m.Value)))
		if err != nil {
			t.Fatalf("FromHost(number %s): %v", m.Name, err)
		}
		if got != m.Value {
			t.Errorf("FromHost(number %s) = %#x", m.Name, got)
		}
	}
}

func TestStyleColor_Fixture(t *testing.T) {
	d := mustBuild(t, "StyleColor", styleColorMembers())

	strs := map[string]StyleColor{
		"Red":               Red,
		"RED":               RedUpperCase,
		"red":               RedLowerCase,
		"#ff0000":           RedHex,
		"RedWithJustExport": RedWithJustExport,
	}
	for in, want := range strs {
		got, err := d.FromValue(in)
		if err != nil {
			t.Fatalf("FromValue(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("FromValue(%q) = %#x, want %#x", in, got, want)
		}
	}

	rep, err := d.ToHost(RedNoExport)
	if err != nil {
		t.Fatal(err)
	}
	if rep != enum.NumberRep(0) {
		t.Errorf("hidden member rep = %v, want 0", rep)
	}
	if _, err := d.FromValue("RedNoExport"); !errors.IsKind(err, errors.KindEnumMemberNotFound) {
		t.Errorf("hidden member name should not resolve, err = %v", err)
	}

	rep, err = d.ToHost(GreenNumeric)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := rep.AsNumber(); !ok || n != 0x00ff00ff {
		t.Errorf("GreenNumeric rep = %v", rep)
	}
}

func TestNumericStringFallback(t *testing.T) {
	sc := mustBuild(t, "StyleColor", styleColorMembers())
	got, err := sc.FromValue("16711935")
	if err != nil {
		t.Fatalf("numeric string: %v", err)
	}
	if got != GreenNumeric {
		t.Errorf("got %#x, want GreenNumeric", got)
	}

	type Plain int
	plain := mustBuild(t, "Plain", []enum.Member[Plain]{
		{Name: "A", Value: 0},
		{Name: "B", Value: 1},
	})
	if _, err := plain.FromValue("1"); !errors.IsKind(err, errors.KindEnumMemberNotFound) {
		t.Errorf("type without numeric members must not parse strings, err = %v", err)
	}
}

func TestSharedExplicitString_NotConflated(t *testing.T) {
	type Tone uint8
	d := mustBuild(t, "Tone", []enum.Member[Tone]{
		{Name: "Loud", Value: 1, Export: &enum.Export{Name: "red", Convert: enum.ToUpper}},
		{Name: "Quiet", Value: 2, Export: &enum.Export{Name: "red", Convert: enum.ToLower}},
		{Name: "Count", Value: 3, Export: &enum.Export{Convert: enum.Numeric}},
	})

	if got, err := d.FromValue("RED"); err != nil || got != 1 {
		t.Errorf(`"RED" = %d, %v`, got, err)
	}
	if got, err := d.FromValue("red"); err != nil || got != 2 {
		t.Errorf(`"red" = %d, %v`, got, err)
	}
	if _, err := d.FromValue("Red"); !errors.IsKind(err, errors.KindEnumMemberNotFound) {
		t.Errorf(`"Red" should not match, err = %v`, err)
	}
	if got, err := d.FromValue("2"); err != nil || got != 2 {
		t.Errorf(`numeric fallback "2" = %d, %v`, got, err)
	}
}

func TestAmbiguousString_FallsThrough(t *testing.T) {
	type Dup int
	d := mustBuild(t, "Dup", []enum.Member[Dup]{
		{Name: "A", Value: 10, Export: &enum.Export{Name: "same"}},
		{Name: "B", Value: 20, Export: &enum.Export{Name: "same"}},
	})

	if _, err := d.FromValue("same"); !errors.IsKind(err, errors.KindEnumMemberNotFound) {
		t.Errorf("ambiguous string should not resolve, err = %v", err)
	}
	if got, err := d.FromValue(20); err != nil || got != 20 {
		t.Errorf("number still resolves: %d, %v", got, err)
	}
}

func TestAliases_ManyToOne(t *testing.T) {
	type Mode int
	d := mustBuild(t, "Mode", []enum.Member[Mode]{
		{Name: "Cors", Value: 0, Export: &enum.Export{Name: "cors", Aliases: []string{"CORS", "Cors"}}},
		{Name: "SameOrigin", Value: 1, Export: &enum.Export{Name: "same-origin"}},
	})

	for _, in := range []string{"cors", "CORS", "Cors"} {
		got, err := d.FromValue(in)
		if err != nil || got != 0 {
			t.Errorf("FromValue(%q) = %d, %v", in, got, err)
		}
	}
	rep, _ := d.ToHost(0)
	if rep != enum.StringRep("cors") {
		t.Errorf("outbound uses the resolved string only, got %v", rep)
	}
}

func TestFailures(t *testing.T) {
	d := mustBuild(t, "RequestCache", requestCacheMembers())

	if _, err := d.ToHost(RequestCache(99)); !errors.IsKind(err, errors.KindUnknownEnumMember) {
		t.Errorf("ToHost(99) err = %v", err)
	}

	_, err := d.FromValue("no-such")
	if !errors.IsKind(err, errors.KindEnumMemberNotFound) {
		t.Fatalf("err = %v", err)
	}
	var e *errors.Error
	if !asError(err, &e) || e.Value != "no-such" || e.GoType != "RequestCache" {
		t.Errorf("error should carry raw value and type name: %+v", e)
	}

	if _, err := d.FromValue(3.5); !errors.IsKind(err, errors.KindEnumMemberNotFound) {
		t.Errorf("non-integral number err = %v", err)
	}
	if _, err := d.FromValue(float64(42)); !errors.IsKind(err, errors.KindEnumMemberNotFound) {
		t.Errorf("unknown number err = %v", err)
	}
	if _, err := d.FromValue(true); !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Errorf("bool err = %v", err)
	}
}

func TestBuild_Validation(t *testing.T) {
	type V int
	tests := []struct {
		name    string
		members []enum.Member[V]
	}{
		{"empty name", []enum.Member[V]{{Name: "", Value: 1}}},
		{"duplicate name", []enum.Member[V]{{Name: "A", Value: 1}, {Name: "A", Value: 2}}},
		{"duplicate value", []enum.Member[V]{{Name: "A", Value: 1}, {Name: "B", Value: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := enum.Build("V", tt.members); !errors.IsKind(err, errors.KindInvalidInput) {
				t.Errorf("err = %v, want invalid_input", err)
			}
		})
	}

	if _, err := enum.Build[V]("", nil); err == nil {
		t.Error("empty type name should fail")
	}

	type Big uint64
	_, err := enum.Build("Big", []enum.Member[Big]{{Name: "Top", Value: 1 << 63}})
	if !errors.IsKind(err, errors.KindOverflow) {
		t.Errorf("oversized unsigned value err = %v", err)
	}
}

func TestMembers_Introspection(t *testing.T) {
	d := mustBuild(t, "RequestCache", requestCacheMembers())
	ms := d.Members()
	if len(ms) != 6 {
		t.Fatalf("len = %d", len(ms))
	}
	if ms[0].Name != "Default" || ms[0].Value != -1 || ms[0].Rule.Kind != enum.RuleDefault {
		t.Errorf("first member = %+v", ms[0])
	}
	if ms[5].Rule.Kind != enum.RuleNumeric {
		t.Errorf("last member rule = %v", ms[5].Rule.Kind)
	}
	if !d.HasNumeric() {
		t.Error("HasNumeric should be true")
	}
	if d.TypeName() != "RequestCache" || d.GoType().Name() != "RequestCache" {
		t.Errorf("names = %s / %s", d.TypeName(), d.GoType())
	}
}

func asError(err error, target **errors.Error) bool {
	e, ok := err.(*errors.Error)
	if ok {
		*target = e
	}
	return ok
}
