package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/born-ml/einorm/internal/tensor"
)

const metadataKey = "__metadata__"

// Storage selects the on-disk element type.
type Storage int

const (
	// StorageNative writes each tensor in its own dtype (F32 or F64).
	StorageNative Storage = iota
	// StorageF16 writes every tensor as IEEE 754 half precision.
	StorageF16
)

// String returns the storage name.
func (s Storage) String() string {
	if s == StorageF16 {
		return "f16"
	}
	return "native"
}

// safeTensorEntry represents a tensor in the SafeTensors header.
type safeTensorEntry struct {
	DType       string   `json:"dtype"`
	Shape       []int    `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// Write writes tensors in SafeTensors format.
//
// Tensors are written in alphabetical order by name. The returned metadata of a
// later Read holds a copy of metadata plus the data checksum.
func Write(w io.Writer, tensors map[string]*tensor.RawTensor, metadata map[string]string, storage Storage) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]any, len(names)+1)
	var data bytes.Buffer
	for _, name := range names {
		raw := tensors[name]
		if raw == nil {
			return errors.Errorf("safetensors: tensor %q is nil", name)
		}
		start := int64(data.Len())
		dtype, err := encodeTensor(&data, raw, storage)
		if err != nil {
			return errors.WithMessagef(err, "safetensors: tensor %q", name)
		}
		header[name] = safeTensorEntry{
			DType:       dtype,
			Shape:       raw.Shape().Clone(),
			DataOffsets: [2]int64{start, int64(data.Len())},
		}
	}

	meta := make(map[string]string, len(metadata)+1)
	maps.Copy(meta, metadata)
	sum := ComputeChecksum(data.Bytes())
	meta[ChecksumKey] = hex.EncodeToString(sum[:])
	header[metadataKey] = meta

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "safetensors: failed to marshal header")
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return errors.Wrap(err, "safetensors: failed to write header size")
	}
	if _, err := w.Write(headerJSON); err != nil {
		return errors.Wrap(err, "safetensors: failed to write header")
	}
	if _, err := w.Write(data.Bytes()); err != nil {
		return errors.Wrap(err, "safetensors: failed to write tensor data")
	}
	return nil
}

// Read reads a SafeTensors stream written by Write (or any F32/F64/F16 SafeTensors file).
//
// F16 tensors are returned as Float32. The checksum is verified when the metadata
// carries one.
func Read(r io.Reader, device tensor.Device) (map[string]*tensor.RawTensor, map[string]string, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, nil, errors.Wrap(err, "safetensors: failed to read header size")
	}
	if headerSize > MaxHeaderSize {
		return nil, nil, &ValidationError{Err: ErrHeaderTooLarge, Details: fmt.Sprintf("%d bytes, max %d", headerSize, MaxHeaderSize)}
	}
	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, nil, errors.Wrap(err, "safetensors: failed to read header")
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &entries); err != nil {
		return nil, nil, errors.Wrap(err, "safetensors: failed to parse header")
	}
	metadata := map[string]string{}
	if m, ok := entries[metadataKey]; ok {
		if err := json.Unmarshal(m, &metadata); err != nil {
			return nil, nil, errors.Wrap(err, "safetensors: failed to parse metadata")
		}
		delete(entries, metadataKey)
	}

	metas := make([]TensorMeta, 0, len(entries))
	for name, msg := range entries {
		if err := ValidateTensorName(name); err != nil {
			return nil, nil, err
		}
		var e safeTensorEntry
		if err := json.Unmarshal(msg, &e); err != nil {
			return nil, nil, errors.Wrapf(err, "safetensors: failed to parse entry %q", name)
		}
		meta := TensorMeta{
			Name:   name,
			DType:  e.DType,
			Shape:  e.Shape,
			Offset: e.DataOffsets[0],
			Size:   e.DataOffsets[1] - e.DataOffsets[0],
		}
		if err := validateSize(meta); err != nil {
			return nil, nil, err
		}
		metas = append(metas, meta)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "safetensors: failed to read tensor data")
	}
	if err := ValidateTensorOffsets(metas, int64(len(data))); err != nil {
		return nil, nil, err
	}
	if stored, ok := metadata[ChecksumKey]; ok {
		if err := ValidateChecksum(data, stored); err != nil {
			return nil, nil, err
		}
	}

	tensors := make(map[string]*tensor.RawTensor, len(metas))
	for _, m := range metas {
		raw, err := decodeTensor(m, data[m.Offset:m.Offset+m.Size], device)
		if err != nil {
			return nil, nil, err
		}
		tensors[m.Name] = raw
	}
	return tensors, metadata, nil
}

// SaveFile writes tensors to a SafeTensors file at path.
func SaveFile(path string, tensors map[string]*tensor.RawTensor, metadata map[string]string, storage Storage) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close file")
		}
	}()
	return Write(file, tensors, metadata, storage)
}

// LoadFile reads a SafeTensors file.
func LoadFile(path string, device tensor.Device) (map[string]*tensor.RawTensor, map[string]string, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open file")
	}
	defer func() {
		_ = file.Close() // Best effort close
	}()
	tensors, metadata, err := Read(file, device)
	if err != nil {
		return nil, nil, errors.WithMessage(err, path)
	}
	return tensors, metadata, nil
}

// encodeTensor appends the bytes of raw to buf and returns the stored dtype.
func encodeTensor(buf *bytes.Buffer, raw *tensor.RawTensor, storage Storage) (string, error) {
	if storage != StorageF16 {
		dtype, err := dtypeToSafeTensors(raw.DType())
		if err != nil {
			return "", err
		}
		buf.Write(raw.Data())
		return dtype, nil
	}

	var values []float32
	switch raw.DType() {
	case tensor.Float32:
		values = raw.AsFloat32()
	case tensor.Float64:
		src := raw.AsFloat64()
		values = make([]float32, len(src))
		for i, v := range src {
			values[i] = float32(v)
		}
	default:
		return "", errors.WithStack(ErrUnsupportedDType)
	}
	var b [2]byte
	for _, v := range values {
		binary.LittleEndian.PutUint16(b[:], float16.Fromfloat32(v).Bits())
		buf.Write(b[:])
	}
	return "F16", nil
}

// decodeTensor builds a tensor from the bytes of one header entry.
func decodeTensor(m TensorMeta, data []byte, device tensor.Device) (*tensor.RawTensor, error) {
	dtype := tensor.Float32
	if m.DType == "F64" {
		dtype = tensor.Float64
	}
	raw, err := tensor.NewRaw(tensor.Shape(m.Shape), dtype, device)
	if err != nil {
		return nil, errors.WithMessagef(err, "safetensors: tensor %q", m.Name)
	}
	if m.DType != "F16" {
		copy(raw.Data(), data)
		return raw, nil
	}
	out := raw.AsFloat32()
	for i := range out {
		out[i] = float16.Frombits(binary.LittleEndian.Uint16(data[2*i:])).Float32()
	}
	return raw, nil
}

// dtypeToSafeTensors converts tensor.DataType to SafeTensors dtype string.
func dtypeToSafeTensors(dt tensor.DataType) (string, error) {
	switch dt {
	case tensor.Float32:
		return "F32", nil
	case tensor.Float64:
		return "F64", nil
	default:
		return "", errors.Wrapf(ErrUnsupportedDType, "%s", dt)
	}
}

func dtypeSize(dtype string) (int, error) {
	switch dtype {
	case "F16":
		return 2, nil
	case "F32":
		return 4, nil
	case "F64":
		return 8, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedDType, "%q", dtype)
	}
}
