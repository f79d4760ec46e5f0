// Package config implements cascading configuration resolution for yapenv.
//
// Configuration is discovered per directory level from a configurable list
// of candidate filenames and glob patterns, merged across sibling files at
// each level, inherited up the directory tree until a level opts out, and
// optionally overlaid with a named environment profile before the levels
// are folded into a single document. Requirement declarations (inline
// package specifiers and imported requirement files) are flattened into a
// deduplicated list addressed from the resolved source directory.
//
// The resolution pipeline:
//
//	candidate discovery -> sibling merge (per level) -> inheritance walk
//	-> environment overlay -> cross-level fold -> path rebasing
//	-> import expansion -> deduplication
//
// Resolution is synchronous and single-threaded; a Load call owns all of
// its intermediate state, so concurrent Load calls are safe.
package config
