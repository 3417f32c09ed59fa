// Package enum maps Go integer enum types to the string or number form a
// script host sees.
//
// Each member carries an optional export declaration. The declaration
// resolves once, at descriptor build, into a Rule:
//
//   - no declaration: the member name, verbatim
//   - explicit name: that string
//   - ToUpper / ToLower: the explicit string (or member name) case-mapped
//   - Numeric: the underlying integer value
//   - Hidden: no string form; the member travels as its number
//
// An explicit string always wins over Numeric.
//
// Declare members in Go:
//
//	enum.MustRegister("RequestCache", func() []enum.Member[RequestCache] {
//		return []enum.Member[RequestCache]{
//			{Name: "Default", Value: Default},
//			{Name: "NoStore", Value: NoStore, Export: &enum.Export{Name: "no-store"}},
//			{Name: "Reload", Value: Reload, Export: &enum.Export{Convert: enum.ToUpper}},
//		}
//	})
//
//	d, _ := enum.For[RequestCache]()
//	rep, _ := d.ToHost(NoStore)      // "no-store"
//	v, _ := d.FromValue("RELOAD")    // Reload
//
// Or load them from a YAML, TOML or JSONC table:
//
//	t, _ := enum.LoadTable("request_cache.yaml")
//	_ = enum.RegisterTable[RequestCache](t)
//
// Inbound strings match case-sensitively against resolved strings and
// declared aliases. A string matching more than one member is ambiguous
// and falls through to the numeric-string fallback, which only applies to
// types with at least one Numeric member. Inbound numbers match any
// member by underlying value.
//
// Descriptors are built lazily, at most once per type, and are safe for
// concurrent use.
package enum
