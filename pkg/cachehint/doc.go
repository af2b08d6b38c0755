// Package cachehint propagates cache invalidation hints from write paths to
// whatever read caches a deployment runs, scoped by organization and
// data-governance tags.
package cachehint
