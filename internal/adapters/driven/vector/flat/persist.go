package flat

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/logger"
)

// File format: magic, version, dimensionality, embedding model identifier,
// then the ordered (chunk_id, vector) records. Insertion order is part of
// the format so a reloaded index reproduces the exact same ranking,
// including tie-breaks.
const (
	fileMagic   = "VCIX"
	fileVersion = uint16(1)

	// maxFieldLen bounds the length prefix of chunk id and model
	// strings. Chunk ids are uuid:seq and model names are short, so a
	// larger prefix means the file is corrupt; rejecting it here keeps a
	// truncated or garbage file from forcing a huge allocation.
	maxFieldLen = 1 << 16
)

// Save persists the index to path. The write goes to a temporary file in
// the same directory and is renamed into place, so a crash never leaves a
// truncated index behind.
func (idx *Index) Save(path string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := idx.writeTo(w); err != nil {
		tmp.Close()
		return fmt.Errorf("writing index: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing index file: %w", err)
	}

	logger.Info("Vector index saved: %d entries, dim=%d, model=%s", len(idx.ids), idx.dim, idx.model)
	return nil
}

func (idx *Index) writeTo(w *bufio.Writer) error {
	if _, err := w.WriteString(fileMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, fileVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(idx.dim)); err != nil {
		return err
	}
	if err := writeString(w, idx.model); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(idx.ids))); err != nil {
		return err
	}

	for i, id := range idx.ids {
		if err := writeString(w, id); err != nil {
			return err
		}
		for _, x := range idx.vecs[i] {
			if err := binary.Write(w, binary.LittleEndian, math.Float32bits(x)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load reads a persisted index from path. When model is non-empty and the
// file was built with a different embedding model identifier, Load fails
// with domain.ErrModelMismatch instead of silently re-embedding.
func Load(path, model string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	magic := make([]byte, len(fileMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(magic) != fileMagic {
		return nil, fmt.Errorf("not a vector index file: bad magic %q", magic)
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	if version != fileVersion {
		return nil, fmt.Errorf("unsupported index file version %d", version)
	}

	var dim uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("reading dimension: %w", err)
	}

	fileModel, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("reading model identifier: %w", err)
	}
	if model != "" && fileModel != model {
		return nil, fmt.Errorf("%w: index built with %q, configured model is %q",
			domain.ErrModelMismatch, fileModel, model)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("reading entry count: %w", err)
	}

	idx := New(fileModel)
	idx.dim = int(dim)
	idx.ids = make([]string, 0, count)
	idx.vecs = make([][]float32, 0, count)

	for i := uint32(0); i < count; i++ {
		id, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("reading entry %d id: %w", i, err)
		}
		vec := make([]float32, dim)
		for j := range vec {
			var bits uint32
			if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
				return nil, fmt.Errorf("reading entry %d vector: %w", i, err)
			}
			vec[j] = math.Float32frombits(bits)
		}
		idx.pos[id] = len(idx.ids)
		idx.ids = append(idx.ids, id)
		idx.vecs = append(idx.vecs, vec)
	}

	logger.Info("Vector index loaded: %d entries, dim=%d, model=%s", len(idx.ids), idx.dim, idx.model)
	return idx, nil
}

func writeString(w *bufio.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func readString(r *bufio.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n > maxFieldLen {
		return "", fmt.Errorf("corrupt index file: field length %d exceeds %d", n, maxFieldLen)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
