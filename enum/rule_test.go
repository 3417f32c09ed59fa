package enum

import "testing"

func TestRuleFor_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		export *Export
		hidden bool
		want   Rule
	}{
		{"no metadata", nil, false, Rule{Kind: RuleDefault}},
		{"bare export", &Export{}, false, Rule{Kind: RuleDefault}},
		{"explicit", &Export{Name: "no-store"}, false, Rule{Kind: RuleExplicit, Explicit: "no-store"}},
		{"numeric", &Export{Convert: Numeric}, false, Rule{Kind: RuleNumeric}},
		{"upper on name", &Export{Convert: ToUpper}, false, Rule{Kind: RuleDefault, Case: CaseUpper}},
		{"lower on name", &Export{Convert: ToLower}, false, Rule{Kind: RuleDefault, Case: CaseLower}},
		{"explicit beats numeric", &Export{Name: "x", Convert: Numeric}, false, Rule{Kind: RuleExplicit, Explicit: "x"}},
		{"upper on explicit", &Export{Name: "red", Convert: ToUpper}, false, Rule{Kind: RuleExplicit, Explicit: "red", Case: CaseUpper}},
		{"hidden beats explicit", &Export{Name: "x"}, true, Rule{Kind: RuleNone}},
		{"hidden without metadata", nil, true, Rule{Kind: RuleNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RuleFor(tt.export, tt.hidden)
			if got != tt.want {
				t.Errorf("RuleFor = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		member string
		value  int64
		rule   Rule
		want   Representation
	}{
		{"default", "Default", -1, Rule{Kind: RuleDefault}, StringRep("Default")},
		{"explicit", "NoStore", 0, Rule{Kind: RuleExplicit, Explicit: "no-store"}, StringRep("no-store")},
		{"upper name", "Reload", 1, Rule{Kind: RuleDefault, Case: CaseUpper}, StringRep("RELOAD")},
		{"lower name", "NoCache", 2, Rule{Kind: RuleDefault, Case: CaseLower}, StringRep("nocache")},
		{"upper explicit", "X", 3, Rule{Kind: RuleExplicit, Explicit: "force-cache", Case: CaseUpper}, StringRep("FORCE-CACHE")},
		{"numeric", "OnlyIfCached", -3636, Rule{Kind: RuleNumeric}, NumberRep(-3636)},
		{"none", "Hidden", 7, Rule{Kind: RuleNone}, NumberRep(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.member, tt.value, tt.rule)
			if got != tt.want {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseConversion(t *testing.T) {
	tests := map[string]Conversion{
		"":        Default,
		"default": Default,
		"Numeric": Numeric,
		"upper":   ToUpper,
		"ToUpper": ToUpper,
		"lower":   ToLower,
		"tolower": ToLower,
	}
	for in, want := range tests {
		got, err := ParseConversion(in)
		if err != nil {
			t.Fatalf("ParseConversion(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseConversion(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseConversion("camel"); err == nil {
		t.Error("expected error for unknown conversion")
	}
}

func TestRepresentation(t *testing.T) {
	s := StringRep("no-store")
	if s.IsNumber() {
		t.Error("string rep reported as number")
	}
	if v, ok := s.AsString(); !ok || v != "no-store" {
		t.Errorf("AsString = %q, %v", v, ok)
	}
	if s.Host() != "no-store" {
		t.Errorf("Host = %v", s.Host())
	}

	n := NumberRep(-3636)
	if v, ok := n.AsNumber(); !ok || v != -3636 {
		t.Errorf("AsNumber = %d, %v", v, ok)
	}
	if n.Host() != float64(-3636) {
		t.Errorf("Host = %v", n.Host())
	}
	if n.String() != "-3636" || s.String() != `"no-store"` {
		t.Errorf("String = %s / %s", n, s)
	}
}

func TestKeyOf(t *testing.T) {
	if k, ok := keyOf(int8(-5)); !ok || k != -5 {
		t.Errorf("keyOf(int8) = %d, %v", k, ok)
	}
	if k, ok := keyOf(uint32(0xff0000ff)); !ok || k != 0xff0000ff {
		t.Errorf("keyOf(uint32) = %d, %v", k, ok)
	}
	if _, ok := keyOf(uint64(1 << 63)); ok {
		t.Error("uint64 above MaxInt64 should be rejected")
	}
}
