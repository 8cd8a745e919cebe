// Package fixture decodes externally authored html5lib test fixtures.
//
// Two formats are supported:
//
//   - The multi-section .dat format used by tree-construction fixtures
//     (DecodeTreeCases). Cases are delimited by full-line markers such as
//     "#data" and "#document".
//   - The restricted JSON dialect used by tokenizer and serializer .test
//     fixtures (DecodeValue). The dialect is standard JSON minus fractional
//     and exponent number literals: the corpus only ever uses integers, and
//     rejecting anything else surfaces fixture corruption instead of
//     silently truncating.
//
// The package also owns fixture discovery: recursive, extension-filtered
// directory walks that return deterministically sorted file lists.
package fixture
