package kyss

// Package kyss provides:
//
// - A reader for a small indentation-based configuration language (Parse/ParseString/ParseFile)
// - An ordered Value tree (Scalar/Sequence/Mapping) with line numbers for diagnostics
// - Schema matching on top of the tree via Match and the schema/ and typed/ packages
// - A stable error model: SyntaxError for malformed documents, Issues (JSON Pointer, code, message) for schema violations
//
// Design policy:
// - Keep only public APIs in the root package; put the line scanner under internal/.
// - Place schema combinators under schema/, reflection-driven descriptors under typed/, codecs under codec/, and the CLI under cmd/kyss.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	v, err := kyss.ParseString("host: example.com\nport: 8080\n")
//	cfg, err := kyss.Match(ctx, someSchema, v)
//
//	typed, err := typed.ParseString[Config](ctx, "host: example.com\nport: 8080\n")
