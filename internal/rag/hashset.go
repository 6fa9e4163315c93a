package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HashSet is the durable record of content hashes already ingested. It is
// stored as a JSON array of hex strings.
type HashSet struct {
	mu     sync.Mutex
	path   string
	hashes map[string]struct{}
}

// LoadHashSet reads path; a missing file is an empty set.
func LoadHashSet(path string) (*HashSet, error) {
	hs := &HashSet{path: path, hashes: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return hs, nil
		}
		return nil, fmt.Errorf("read hash set %s: %w", path, err)
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode hash set %s: %w", path, err)
	}
	for _, h := range list {
		hs.hashes[h] = struct{}{}
	}
	return hs, nil
}

func (h *HashSet) Has(hash string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.hashes[hash]
	return ok
}

func (h *HashSet) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.hashes)
}

// Add records hash and rewrites the file. The in-memory set only changes when
// the write succeeds.
func (h *HashSet) Add(hash string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.hashes[hash]; ok {
		return nil
	}

	list := make([]string, 0, len(h.hashes)+1)
	for k := range h.hashes {
		list = append(list, k)
	}
	list = append(list, hash)
	sort.Strings(list)

	if err := writeAtomic(h.path, list); err != nil {
		return err
	}
	h.hashes[hash] = struct{}{}
	return nil
}

func writeAtomic(path string, list []string) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
