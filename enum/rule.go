package enum

import (
	"fmt"
	"strings"
)

// Conversion is the declared conversion selector on an exported member.
type Conversion uint8

const (
	Default Conversion = iota
	Numeric
	ToUpper
	ToLower
)

func (c Conversion) String() string {
	switch c {
	case Default:
		return "default"
	case Numeric:
		return "numeric"
	case ToUpper:
		return "upper"
	case ToLower:
		return "lower"
	default:
		return fmt.Sprintf("conversion(%d)", uint8(c))
	}
}

// ParseConversion accepts the selector spellings used in declaration tables.
func ParseConversion(s string) (Conversion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return Default, nil
	case "numeric", "number":
		return Numeric, nil
	case "upper", "toupper":
		return ToUpper, nil
	case "lower", "tolower":
		return ToLower, nil
	default:
		return Default, fmt.Errorf("unknown conversion %q", s)
	}
}

// Export is the export metadata attached to a member at declaration time.
// Name is the optional explicit host string. Aliases are extra strings
// accepted on inbound conversion only.
type Export struct {
	Name    string
	Aliases []string
	Convert Conversion
}

// RuleKind tags the resolved export rule.
type RuleKind uint8

const (
	RuleDefault RuleKind = iota
	RuleExplicit
	RuleNumeric
	RuleNone
)

func (k RuleKind) String() string {
	switch k {
	case RuleDefault:
		return "default"
	case RuleExplicit:
		return "explicit"
	case RuleNumeric:
		return "numeric"
	case RuleNone:
		return "none"
	default:
		return fmt.Sprintf("rule(%d)", uint8(k))
	}
}

// CaseKind is the case transform applied to a string representation.
type CaseKind uint8

const (
	CaseKeep CaseKind = iota
	CaseUpper
	CaseLower
)

// Rule is the resolved export policy of one member.
type Rule struct {
	Explicit string
	Kind     RuleKind
	Case     CaseKind
}

// RuleFor derives the rule of a member from its declaration.
//
// Precedence, highest first:
//  1. hidden members get RuleNone;
//  2. an explicit string gets RuleExplicit, and an Upper/Lower selector
//     transforms it; a Numeric selector next to an explicit string is ignored;
//  3. a Numeric selector gets RuleNumeric;
//  4. otherwise the member name is used, transformed by an Upper/Lower selector.
func RuleFor(export *Export, hidden bool) Rule {
	if hidden {
		return Rule{Kind: RuleNone}
	}
	if export == nil {
		return Rule{Kind: RuleDefault}
	}

	var c CaseKind
	switch export.Convert {
	case ToUpper:
		c = CaseUpper
	case ToLower:
		c = CaseLower
	}

	if export.Name != "" {
		return Rule{Kind: RuleExplicit, Explicit: export.Name, Case: c}
	}
	if export.Convert == Numeric {
		return Rule{Kind: RuleNumeric}
	}
	return Rule{Kind: RuleDefault, Case: c}
}

// Resolve computes the host representation of a member under rule.
// Numeric and None members are represented by their underlying value.
func Resolve(memberName string, value int64, rule Rule) Representation {
	var s string
	switch rule.Kind {
	case RuleNumeric, RuleNone:
		return NumberRep(value)
	case RuleExplicit:
		s = rule.Explicit
	default:
		s = memberName
	}

	switch rule.Case {
	case CaseUpper:
		s = strings.ToUpper(s)
	case CaseLower:
		s = strings.ToLower(s)
	}
	return StringRep(s)
}
