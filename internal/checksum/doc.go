// Package checksum provides block-wise content hashing for the checksum attribute.
//
// Content is split into fixed-size blocks (32 MiB by default). Each block is
// hashed independently and rendered as upper-case hex, and the concatenated
// block digests are hashed again to produce the final checksum. Two files
// share a checksum exactly when they have the same block digests in the same
// order.
//
// # Algorithms
//
//   - xxhash: Default. Fast non-cryptographic 64-bit hash
//   - sha256: Cryptographic, for content that must resist crafted collisions
//   - crc32:  IEEE CRC-32, compatible with caches written by older tooling
//
// # Example Usage
//
//	calculator, err := checksum.New(checksum.AlgorithmXXHash, checksum.DefaultBlockSize)
//	if err != nil {
//	    return err
//	}
//	sum, err := calculator.Sum(reader)
//
// # Thread Safety
//
// Blockwise holds no per-call state and is safe for concurrent use by multiple goroutines.
package checksum
