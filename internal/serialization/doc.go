// Package serialization reads and writes einorm state dicts in SafeTensors format.
//
//	Format Structure:
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON, tensor name -> {dtype, shape, data_offsets}, plus "__metadata__"]
//	  [Tensor data: raw little-endian bytes, tensors in alphabetical order]
//
// Supported dtypes are F32, F64 and F16. Float16 is a storage format only: F16
// tensors are widened to float32 when read.
//
// The writer records a SHA-256 of the data section in the metadata under
// "sha256"; the reader verifies it when present.
//
// Example usage:
//
//	// Save
//	err := serialization.SaveFile("einorm.safetensors", stateDict, nil, serialization.StorageNative)
//
//	// Load
//	stateDict, metadata, err := serialization.LoadFile("einorm.safetensors", tensor.CPU)
package serialization
