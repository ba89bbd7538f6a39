// Package utils provides conversion helpers shared across features.
//
// The To* functions are lenient and fall back to zero values; they are used
// for query strings and CLI flags. The Parse* functions are strict and
// return an error for values a JSON client should not have sent, which the
// video store turns into per-record validation failures.
package utils
