// Package extension holds the descriptors of discovered extensions and the
// registry the host reads them from.
//
// A Registry starts empty, accepts registrations while populating and is
// frozen exactly once. After Freeze every read is served from an immutable
// view without locking, so the host may query it from any goroutine.
package extension
