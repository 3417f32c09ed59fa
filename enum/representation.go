package enum

import (
	"math"
	"strconv"
)

// Representation is the wire value exchanged with the host for an enum
// member: either a string or a number.
type Representation struct {
	str   string
	num   int64
	isNum bool
}

// StringRep returns a string representation.
func StringRep(s string) Representation {
	return Representation{str: s}
}

// NumberRep returns a numeric representation.
func NumberRep(n int64) Representation {
	return Representation{num: n, isNum: true}
}

// IsNumber reports whether r is numeric.
func (r Representation) IsNumber() bool { return r.isNum }

// AsString returns the string form, if r is a string.
func (r Representation) AsString() (string, bool) {
	return r.str, !r.isNum
}

// AsNumber returns the numeric form, if r is a number.
func (r Representation) AsNumber() (int64, bool) {
	return r.num, r.isNum
}

// Host returns the value as the host sees it: a string or a float64.
func (r Representation) Host() any {
	if r.isNum {
		return float64(r.num)
	}
	return r.str
}

func (r Representation) String() string {
	if r.isNum {
		return strconv.FormatInt(r.num, 10)
	}
	return strconv.Quote(r.str)
}

// numberFromFloat accepts host numbers that are integral and fit int64.
func numberFromFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
