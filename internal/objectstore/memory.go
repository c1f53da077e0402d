package objectstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Operation names used for failure injection and call counting.
const (
	OpList   = "list"
	OpGet    = "get"
	OpPut    = "put"
	OpCopy   = "copy"
	OpDelete = "delete"
)

type memItem struct {
	key      string
	data     []byte
	modified time.Time
}

// Memory is an in-process Store. It backs local development when no S3
// endpoint is configured and lets tests inject per-key failures.
type Memory struct {
	mu       sync.Mutex
	items    []memItem // sorted by key
	pageSize int
	now      func() time.Time
	failures map[string]map[string]error // op -> key ("" = any key) -> err

	CallCount struct {
		List   int
		Get    int
		Put    int
		Copy   int
		Delete int
	}
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		now:      time.Now,
		failures: make(map[string]map[string]error),
	}
}

// SetPageSize caps every listing page regardless of the caller's limit,
// mimicking a provider-side result limit.
func (m *Memory) SetPageSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageSize = n
}

// SetClock replaces the clock used for LastModified.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// FailOn makes op fail with err for key. An empty key fails every call of op.
// For list, key is matched against the prefix.
func (m *Memory) FailOn(op, key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures[op] == nil {
		m.failures[op] = make(map[string]error)
	}
	m.failures[op][key] = err
}

// ClearFailures removes every injected failure.
func (m *Memory) ClearFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = make(map[string]map[string]error)
}

// Keys returns every stored key in order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, len(m.items))
	for i, it := range m.items {
		keys[i] = it.key
	}
	return keys
}

// Has reports whether key exists.
func (m *Memory) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, found := m.indexOf(key)
	return found
}

// ListPage implements Store.
func (m *Memory) ListPage(ctx context.Context, prefix, token string, limit int) (Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount.List++

	if err := m.check(ctx, OpList, prefix); err != nil {
		return Page{}, err
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if m.pageSize > 0 && m.pageSize < limit {
		limit = m.pageSize
	}

	start := prefix
	if token > start {
		start = token
	}
	i, found := m.indexOf(start)
	if found && start == token {
		i++
	}

	var page Page
	for ; i < len(m.items); i++ {
		it := m.items[i]
		if !strings.HasPrefix(it.key, prefix) {
			break
		}
		if len(page.Objects) == limit {
			page.IsTruncated = true
			page.NextToken = page.Objects[len(page.Objects)-1].Key
			break
		}
		page.Objects = append(page.Objects, Object{
			Key:          it.key,
			Size:         int64(len(it.data)),
			LastModified: it.modified,
		})
	}
	return page, nil
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount.Get++

	if err := m.check(ctx, OpGet, key); err != nil {
		return nil, err
	}
	i, found := m.indexOf(key)
	if !found {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.items[i].data...), nil
}

// Put implements Store.
func (m *Memory) Put(ctx context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount.Put++

	if err := m.check(ctx, OpPut, key); err != nil {
		return err
	}
	m.put(key, append([]byte(nil), data...))
	return nil
}

// Copy implements Store.
func (m *Memory) Copy(ctx context.Context, srcKey, dstKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount.Copy++

	if err := m.check(ctx, OpCopy, srcKey); err != nil {
		return err
	}
	i, found := m.indexOf(srcKey)
	if !found {
		return ErrNotFound
	}
	m.put(dstKey, append([]byte(nil), m.items[i].data...))
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount.Delete++

	if err := m.check(ctx, OpDelete, key); err != nil {
		return err
	}
	m.remove(key)
	return nil
}

// DeleteMany implements Store. Keys without an injected failure are
// removed even when others fail.
func (m *Memory) DeleteMany(ctx context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount.Delete++

	if err := ctx.Err(); err != nil {
		return err
	}

	var failed []KeyError
	for _, k := range keys {
		if err := m.check(ctx, OpDelete, k); err != nil {
			failed = append(failed, KeyError{Key: k, Op: OpDelete, Err: err})
			continue
		}
		m.remove(k)
	}
	if len(failed) > 0 {
		return &BatchError{Op: OpDelete, Errors: failed}
	}
	return nil
}

func (m *Memory) check(ctx context.Context, op, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	byKey := m.failures[op]
	if err, ok := byKey[key]; ok {
		return err
	}
	if err, ok := byKey[""]; ok {
		return err
	}
	return nil
}

// indexOf finds the index of key or where it would be inserted.
func (m *Memory) indexOf(key string) (int, bool) {
	i := sort.Search(len(m.items), func(k int) bool {
		return m.items[k].key >= key
	})
	return i, i < len(m.items) && m.items[i].key == key
}

func (m *Memory) put(key string, data []byte) {
	i, found := m.indexOf(key)
	if found {
		m.items[i].data = data
		m.items[i].modified = m.now()
		return
	}
	m.items = append(m.items, memItem{})
	copy(m.items[i+1:], m.items[i:])
	m.items[i] = memItem{key: key, data: data, modified: m.now()}
}

func (m *Memory) remove(key string) {
	i, found := m.indexOf(key)
	if !found {
		return
	}
	copy(m.items[i:], m.items[i+1:])
	m.items = m.items[:len(m.items)-1]
}
