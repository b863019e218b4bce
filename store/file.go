package store

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"faq/types"

	"github.com/google/uuid"
)

const (
	vectorFile = "index.vec"
	metaFile   = "index.json"

	vectorMagic   = "FAQV"
	vectorVersion = uint32(1)
)

// FileStore keeps the index as a vector file plus a metadata file in one
// directory. Both files carry the same build ID so a stray pair is detected
// on load.
type FileStore struct {
	dir string
}

type fileMeta struct {
	types.IndexInfo
	Documents []types.Document `json:"documents"`
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Dir() string {
	return s.dir
}

// Replace writes docs into a fresh directory next to the current one and
// swaps it in with renames. The previous index stays untouched if anything
// fails before the swap.
func (s *FileStore) Replace(ctx context.Context, docs []types.Document, embeddingModel string) (types.IndexInfo, error) {
	dim, err := dimensionOf(docs)
	if err != nil {
		return types.IndexInfo{}, err
	}
	info := types.IndexInfo{
		BuildID:        uuid.New(),
		EmbeddingModel: embeddingModel,
		Dimension:      dim,
		Count:          len(docs),
		BuiltAt:        time.Now().UTC(),
	}

	parent, base := filepath.Dir(s.dir), filepath.Base(s.dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return types.IndexInfo{}, err
	}
	tmp, err := os.MkdirTemp(parent, "."+base+"-build-")
	if err != nil {
		return types.IndexInfo{}, err
	}
	defer os.RemoveAll(tmp)

	if err := writeVectors(filepath.Join(tmp, vectorFile), info, docs); err != nil {
		return types.IndexInfo{}, fmt.Errorf("write vectors: %w", err)
	}
	if err := writeMeta(filepath.Join(tmp, metaFile), info, docs); err != nil {
		return types.IndexInfo{}, fmt.Errorf("write metadata: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return types.IndexInfo{}, err
	}

	old := filepath.Join(parent, "."+base+"-old-"+info.BuildID.String())
	hadOld := true
	if err := os.Rename(s.dir, old); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return types.IndexInfo{}, fmt.Errorf("move previous index aside: %w", err)
		}
		hadOld = false
	}
	if err := os.Rename(tmp, s.dir); err != nil {
		if hadOld {
			_ = os.Rename(old, s.dir)
		}
		return types.IndexInfo{}, fmt.Errorf("install index: %w", err)
	}
	if hadOld {
		if err := os.RemoveAll(old); err != nil {
			log.Printf("[INDEX] failed to remove previous index %s: %v", old, err)
		}
	}
	return info, nil
}

// Load reads the index pair into memory.
func (s *FileStore) Load(_ context.Context, embeddingModel string) (Index, error) {
	meta, err := readMeta(filepath.Join(s.dir, metaFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrIndexUnavailable, err)
	}
	if err := checkModel(meta.IndexInfo, embeddingModel); err != nil {
		return nil, err
	}
	if err := readVectors(filepath.Join(s.dir, vectorFile), meta); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrIndexUnavailable, err)
	}
	return NewMemoryIndex(meta.IndexInfo, meta.Documents), nil
}

type vectorHeader struct {
	Magic     [4]byte
	Version   uint32
	BuildID   [16]byte
	Dimension uint32
	Count     uint32
}

func writeVectors(path string, info types.IndexInfo, docs []types.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	hdr := vectorHeader{
		Version:   vectorVersion,
		BuildID:   info.BuildID,
		Dimension: uint32(info.Dimension),
		Count:     uint32(info.Count),
	}
	copy(hdr.Magic[:], vectorMagic)
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}
	for _, d := range docs {
		if err := binary.Write(w, binary.LittleEndian, d.Embedding); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

func readVectors(path string, meta *fileMeta) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var hdr vectorHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	switch {
	case string(hdr.Magic[:]) != vectorMagic || hdr.Version != vectorVersion:
		return errors.New("unrecognized vector file")
	case uuid.UUID(hdr.BuildID) != meta.BuildID:
		return fmt.Errorf("vector file build %s does not match metadata build %s",
			uuid.UUID(hdr.BuildID), meta.BuildID)
	case int(hdr.Count) != len(meta.Documents) || int(hdr.Dimension) != meta.Dimension:
		return fmt.Errorf("vector file holds %dx%d, metadata expects %dx%d",
			hdr.Count, hdr.Dimension, len(meta.Documents), meta.Dimension)
	}

	for i := range meta.Documents {
		vec := make([]float32, hdr.Dimension)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return fmt.Errorf("read vector %d: %w", i, err)
		}
		meta.Documents[i].Embedding = vec
	}
	if _, err := r.ReadByte(); err != io.EOF {
		return errors.New("trailing data in vector file")
	}
	return nil
}

func writeMeta(path string, info types.IndexInfo, docs []types.Document) error {
	if docs == nil {
		docs = []types.Document{}
	}
	data, err := json.MarshalIndent(fileMeta{IndexInfo: info, Documents: docs}, "", "  ")
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

func readMeta(path string) (*fileMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var meta fileMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if meta.Count != len(meta.Documents) {
		return nil, fmt.Errorf("metadata lists %d documents, header says %d", len(meta.Documents), meta.Count)
	}
	return &meta, nil
}
