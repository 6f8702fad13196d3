// Package cache implements the lazily populated filesystem cache engine.
//
// The engine owns three structures:
//   - the attribute registry, mapping names to plugins plus the reverse
//     dependency index used to drop stale dependents
//   - the file record store: per path, an optional existence flag and the
//     attribute values computed so far
//   - the directory record store: per listed directory, its child files and
//     dirs, and the memoized recursive descendant sets
//
// Every query fills only what is missing. Existence is answered from memory
// whenever possible: cached attributes imply existence, and a listed parent
// directory decides membership without a syscall.
//
// Change detection is explicit. Check reconciles held records with the live
// filesystem, the Notify methods patch records for mutations the caller
// performed, and Invalidate drops cached values on request.
package cache
