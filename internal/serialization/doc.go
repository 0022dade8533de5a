// Package serialization implements the .atmc container for atomica models.
//
//	Format structure:
//	  [64-byte fixed header]
//	    0x00  Magic "ATMC"
//	    0x04  Version (uint32 LE)
//	    0x08  Flags (uint32 LE)
//	    0x0C  Reserved
//	    0x10  Header size (uint64 LE)
//	    0x18  Data size (uint64 LE)
//	    0x20  SHA-256 checksum of the data section
//	  [JSON header: tensor metadata, string metadata, embedded model config,
//	   optional checkpoint block]
//	  [Tensor data: raw little-endian bytes, 64-byte aligned]
//
// Tensors are laid out in name order, so a given state dictionary always
// serializes to the same bytes (modulo the creation timestamp in the JSON
// header). The embedded model config makes files self-describing: a reader
// can rebuild the model architecture without out-of-band information.
//
// Three readers cover the access patterns:
//   - Reader: validated file access with parallel state-dict decode
//   - MmapReader: zero-copy access for inspection of large files
//   - ReadFrom: streaming decode from any io.Reader
package serialization
