// Package skemagen generates Go types and JSON (de)serialization code from
// schema declarations.
//
// A run takes namespaces of models and unions, builds a resolved symbol
// table, and renders one Go file per namespace:
//
//   - models become structs with MarshalJSON/UnmarshalJSON methods
//   - unions of literals become named scalar types with one constant per variant
//   - unions of models become interfaces with a discriminator-based decoder
//
// Typical usage:
//
//	nss, err := schema.Load(ctx, "zoo.yaml")
//	files, err := skemagen.Generate(ctx, nss, skemagen.Options{ImportBase: "example.com/zoo/gen"})
//
// Each namespace fails or succeeds independently. Generate returns the files
// of the namespaces that succeeded together with an error aggregating the
// failures; use AsIssues to inspect them.
package skemagen
