// Package deps reconciles dependency specifiers across the projects of a
// workspace.
//
// Scan collects package → project → specifier from every pyproject.toml.
// From there the package can report mismatches, plan an alignment on the
// highest declared lower bound, compare lower bounds against the latest
// published releases and plan an upgrade. Plans are applied by a Rewriter,
// which edits manifest text in place so that formatting and comments
// survive.
package deps
