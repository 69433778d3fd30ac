// Package vectorindex holds chunk texts and their embedding vectors
// for one document and answers exact k-nearest-neighbor queries by
// squared Euclidean distance. Document-scale chunk counts are small,
// so a flat linear scan beats any partitioning structure here.
package vectorindex

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/akolanti/PDFMentor/internal/domain/faults"
)

type SearchResult struct {
	Chunk    string
	Distance float32
}

// Index is the in-memory exact-search structure for one document.
// Lifetime is create-once, load-many: there is no incremental insert.
// Not safe for concurrent mutation - the Manager serializes save/load
// per document id.
type Index struct {
	documentId string
	dataDir    string
	dimension  int
	vectors    [][]float32
	chunks     []string
}

// indexArtifact is the on-disk form of the vector side. Row order is
// the join key with the chunks artifact and must never diverge.
type indexArtifact struct {
	Dimension int
	Vectors   [][]float32
}

func New(documentId string, dataDir string, dimension int) *Index {
	return &Index{
		documentId: documentId,
		dataDir:    dataDir,
		dimension:  dimension,
	}
}

// CreateIndex stores the chunk texts verbatim and indexes their
// embedding vectors. Both sequences must be non-empty, equal length,
// and every vector must match the configured dimension.
func (ix *Index) CreateIndex(chunks []string, embeddings [][]float32) error {
	if len(chunks) == 0 || len(embeddings) == 0 {
		return fmt.Errorf("%w: chunks and embeddings cannot be empty", faults.ErrInvalidInput)
	}
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: got %d chunks but %d embeddings", faults.ErrInvalidInput, len(chunks), len(embeddings))
	}
	for i, vec := range embeddings {
		if len(vec) != ix.dimension {
			return fmt.Errorf("%w: embedding %d has dimension %d, index expects %d", faults.ErrInvalidInput, i, len(vec), ix.dimension)
		}
	}

	ix.chunks = append([]string(nil), chunks...)
	ix.vectors = make([][]float32, len(embeddings))
	for i, vec := range embeddings {
		ix.vectors[i] = append([]float32(nil), vec...)
	}
	return nil
}

// Search scans every stored vector and returns the k closest chunks,
// ascending by squared L2 distance. Ties keep insertion order. Fewer
// than k stored vectors returns all of them.
func (ix *Index) Search(query []float32, k int) ([]SearchResult, error) {
	if ix.vectors == nil {
		return nil, faults.ErrNotInitialized
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query dimension %d, index expects %d", faults.ErrInvalidInput, len(query), ix.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	type hit struct {
		row  int
		dist float32
	}
	hits := make([]hit, len(ix.vectors))
	for i, vec := range ix.vectors {
		hits[i] = hit{row: i, dist: squaredL2(query, vec)}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].dist < hits[b].dist })

	if k > len(hits) {
		k = len(hits)
	}

	results := make([]SearchResult, 0, k)
	for _, h := range hits[:k] {
		// Row past the chunk sequence should be impossible while the
		// creation invariant holds; skip instead of faulting.
		if h.row >= len(ix.chunks) {
			continue
		}
		results = append(results, SearchResult{Chunk: ix.chunks[h.row], Distance: h.dist})
	}
	return results, nil
}

// Count reports how many vectors the index holds.
func (ix *Index) Count() int {
	return len(ix.vectors)
}

// Save writes the two sibling artifacts, each via a temp file renamed
// into place so a reader never sees a half-written file.
func (ix *Index) Save() error {
	if ix.vectors == nil {
		return faults.ErrNotInitialized
	}

	artifact := indexArtifact{Dimension: ix.dimension, Vectors: ix.vectors}
	if err := writeGob(IndexPath(ix.dataDir, ix.documentId), artifact); err != nil {
		return fmt.Errorf("saving index artifact: %w", err)
	}
	if err := writeGob(ChunksPath(ix.dataDir, ix.documentId), ix.chunks); err != nil {
		return fmt.Errorf("saving chunks artifact: %w", err)
	}
	return nil
}

// Load reads both artifacts back. Missing files surface as NotFound;
// a vector/chunk count mismatch is rejected outright rather than
// silently truncated.
func (ix *Index) Load() error {
	indexPath := IndexPath(ix.dataDir, ix.documentId)
	chunksPath := ChunksPath(ix.dataDir, ix.documentId)

	if !fileExists(indexPath) || !fileExists(chunksPath) {
		return fmt.Errorf("%w: vector store for document %s", faults.ErrNotFound, ix.documentId)
	}

	var artifact indexArtifact
	if err := readGob(indexPath, &artifact); err != nil {
		return fmt.Errorf("loading index artifact: %w", err)
	}
	var chunks []string
	if err := readGob(chunksPath, &chunks); err != nil {
		return fmt.Errorf("loading chunks artifact: %w", err)
	}

	if len(artifact.Vectors) != len(chunks) {
		return fmt.Errorf("%w: artifact mismatch for document %s: %d vectors vs %d chunks",
			faults.ErrInvalidInput, ix.documentId, len(artifact.Vectors), len(chunks))
	}

	ix.dimension = artifact.Dimension
	ix.vectors = artifact.Vectors
	ix.chunks = chunks
	return nil
}

// Exists checks the index artifact alone. The chunks artifact is not
// probed separately; Load still requires both, so a crash between the
// two writes shows up as NotFound there.
func Exists(dataDir string, documentId string) bool {
	return fileExists(IndexPath(dataDir, documentId))
}

func IndexPath(dataDir string, documentId string) string {
	return filepath.Join(dataDir, documentId+".index")
}

func ChunksPath(dataDir string, documentId string) string {
	return filepath.Join(dataDir, documentId+".chunks")
}

func squaredL2(a []float32, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeGob(path string, value any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func readGob(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(out)
}
