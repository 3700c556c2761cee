// Package diagnostics keeps compiler and linter messages attached to
// document spans.
//
// A Store holds one snapshot per document revision. Checkers compute
// diagnostics off the edit path and publish them with Replace; a snapshot
// older than the one already held is rejected, so a slow checker cannot
// overwrite newer results. Lookups by position, range and line go through
// an interval tree keyed by buffer.Position.
//
// # Basic Usage
//
//	store := diagnostics.NewStore()
//	diags, err := diagnostics.Parse(r, "vet")
//	if err != nil {
//	    return err
//	}
//	if err := store.Publish(doc, diags); err != nil {
//	    return err
//	}
//	for _, d := range store.At(doc.PrimaryPosition()) {
//	    fmt.Println(d.Label())
//	}
//
// Labels use the document's position format:
//
//	(C:4, L:2)-(C:9, L:2) warning: unused variable
//
// # Thread Safety
//
// Store is safe for concurrent use.
package diagnostics
