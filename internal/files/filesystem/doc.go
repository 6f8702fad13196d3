// Package filesystem provides the filesystem abstraction the cache performs all I/O through.
//
// Every method of FileSystemProvider is a single observable operation, so the
// cost of a cache query can be measured by counting calls.
//
// Implementations:
//   - OSFileSystem: Production implementation using the OS filesystem
//   - MemoryFileSystem: In-memory implementation for testing, with fault injection
//   - CountingFileSystem: Decorator recording every operation of another provider
package filesystem
