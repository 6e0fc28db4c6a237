package driver

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"synapse/internal/bind"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest - sha256 содержимого манифеста
type Digest [32]byte

// DigestOf hashes manifest content.
func DigestOf(content []byte) Digest {
	return sha256.Sum256(content)
}

// DiskCache хранит зарегистрированные биндинги между компиляциями,
// по одному файлу на имя биндинга.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached binding. Data holds the binding in the
// binary format written by bind.Encode.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Name     string
	Manifest string // path of the *.bind.toml it was built from
	Source   Digest // hash of that manifest's content
	Data     []byte
}

// OpenDiskCache opens dir, or the standard per-user location when dir
// is empty.
func OpenDiskCache(dir, app string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir is the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(name string) string {
	key := sha256.Sum256([]byte(name))
	// Для удобства очистки используем подкаталог "bindings".
	return filepath.Join(c.dir, "bindings", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(payload.Name)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после успешного Rename файла уже нет
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	err = os.Rename(tmp, p)
	return err
}

// Get reads the payload cached under name. A payload written by another
// schema version counts as a miss.
func (c *DiskCache) Get(name string, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("cache entry for %q: %w", name, err)
	}
	if out.Schema != diskCacheSchemaVersion || out.Name != name {
		return false, nil
	}
	return true, nil
}

// Store encodes b and caches it.
func (c *DiskCache) Store(b *bind.Binding, manifest string, src Digest) error {
	if c == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := bind.Encode(&buf, b); err != nil {
		return fmt.Errorf("encode binding %q: %w", b.Name, err)
	}
	return c.Put(&DiskPayload{Name: b.Name, Manifest: manifest, Source: src, Data: buf.Bytes()})
}

// Binding decodes the binding cached under name. Decoding is strict, so
// a damaged entry is a *diag.Fault.
func (c *DiskCache) Binding(name string) (*bind.Binding, bool, error) {
	var p DiskPayload
	ok, err := c.Get(name, &p)
	if err != nil || !ok {
		return nil, false, err
	}
	b, err := bind.Decode(bytes.NewReader(p.Data), name)
	if err != nil {
		return nil, false, err
	}
	b.Register = true
	return b, true, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "bindings"))
}
