// Package convert is the extension point for Go types that cross the
// script boundary by value through their own conversion functions.
//
//	reg := convert.NewRegistry()
//	err := convert.Register(reg,
//		func(p Point) (any, error) { return fmt.Sprintf("%d,%d", p.X, p.Y), nil },
//		parsePoint,
//		convert.WithPostFilter("value.split(',').map(Number)"))
//
// A type with no converter is not marshalable by value. Lookups never fall
// back to a default conversion.
package convert
