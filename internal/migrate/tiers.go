// Legacy tier implementations. Both tiers are plain files exported by
// earlier releases; both delete themselves once their last key has been
// migrated away.
package migrate

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// KVFileTier reads a legacy key/value settings file: a single JSON
// object mapping setting keys to string values (the intermediate tier).
type KVFileTier struct {
	Path string
}

// NewKVFileTier returns a tier over the given file. A missing file
// means every key is absent.
func NewKVFileTier(path string) *KVFileTier {
	return &KVFileTier{Path: path}
}

func (t *KVFileTier) Name() string { return "kv-file" }

// Read returns the legacy value stored under key.
func (t *KVFileTier) Read(key string) (string, bool, error) {
	m, err := t.load()
	if err != nil {
		return "", false, err
	}
	raw, ok := m[key]
	return raw, ok, nil
}

// Clear removes key from the file, deleting the file once it is empty.
func (t *KVFileTier) Clear(key string) error {
	m, err := t.load()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	if len(m) == 0 {
		if err := os.Remove(t.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing empty legacy kv file: %w", err)
		}
		return nil
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding legacy kv file: %w", err)
	}
	return atomicWrite(t.Path, append(data, '\n'))
}

func (t *KVFileTier) load() (map[string]string, error) {
	data, err := os.ReadFile(t.Path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading legacy kv file: %w", err)
	}

	m := make(map[string]string)
	if err := json.Unmarshal(data, &m); err != nil {
		// A wholly unreadable file yields no keys rather than wedging
		// every chain that consults this tier.
		return map[string]string{}, nil
	}
	return m, nil
}

// CookieFileTier reads the outermost legacy tier: a cookie export of
// name=value lines with URL-encoded values.
type CookieFileTier struct {
	Path string
}

// NewCookieFileTier returns a tier over the given file.
func NewCookieFileTier(path string) *CookieFileTier {
	return &CookieFileTier{Path: path}
}

func (t *CookieFileTier) Name() string { return "cookie-file" }

// Read returns the decoded cookie value stored under key.
func (t *CookieFileTier) Read(key string) (string, bool, error) {
	m, err := t.load()
	if err != nil {
		return "", false, err
	}
	raw, ok := m[key]
	return raw, ok, nil
}

// Clear removes key from the file, deleting the file once it is empty.
func (t *CookieFileTier) Clear(key string) error {
	m, err := t.load()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	if len(m) == 0 {
		if err := os.Remove(t.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing empty legacy cookie file: %w", err)
		}
		return nil
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(m[name]))
		b.WriteByte('\n')
	}
	return atomicWrite(t.Path, []byte(b.String()))
}

func (t *CookieFileTier) load() (map[string]string, error) {
	f, err := os.Open(t.Path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading legacy cookie file: %w", err)
	}
	defer f.Close()

	m := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			// Skip undecodable entries; the chain's parse guard covers
			// values that decode but do not parse.
			continue
		}
		m[name] = decoded
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning legacy cookie file: %w", err)
	}
	return m, nil
}

// atomicWrite replaces path using the temp-file, fsync, rename pattern.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".legacy-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
