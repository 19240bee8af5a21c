// Package coerce holds nullable column types that decode CSV cells the way
// the course datasets expect: a recognised null marker or an unparseable
// value becomes null instead of failing the row.
//
// Every type implements csvutil.Unmarshaler, so a record struct with these
// field types can be decoded straight from a csvutil.Decoder. Value returns
// the driver-ready Go value, or nil for null.
package coerce
