// Package objectstore abstracts the S3-compatible blob store holding
// album photos and the freshness marker record.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultPageSize matches the S3 per-request listing cap.
const DefaultPageSize = 1000

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("object not found")

// Object describes one stored object.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Page is one provider-limited slice of a listing.
// When IsTruncated is set, pass NextToken back to continue.
type Page struct {
	Objects     []Object
	IsTruncated bool
	NextToken   string
}

// Store is the subset of S3 operations the server relies on.
// Listings return keys in lexicographic order.
type Store interface {
	ListPage(ctx context.Context, prefix, token string, limit int) (Page, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Copy(ctx context.Context, srcKey, dstKey string) error
	// Delete succeeds when the key is already absent.
	Delete(ctx context.Context, key string) error
	// DeleteMany returns a *BatchError naming each key that failed.
	DeleteMany(ctx context.Context, keys []string) error
}

// KeyError is a failure of one operation on one key.
type KeyError struct {
	Key string
	Op  string
	Err error
}

func (e KeyError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e KeyError) Unwrap() error {
	return e.Err
}

// BatchError collects every per-key failure of a multi-key operation.
type BatchError struct {
	Op     string
	Errors []KeyError
}

func (e *BatchError) Error() string {
	keys := make([]string, len(e.Errors))
	for i, ke := range e.Errors {
		keys[i] = ke.Key
	}
	return fmt.Sprintf("%s failed for %d key(s): %s", e.Op, len(e.Errors), strings.Join(keys, ", "))
}

// Unwrap exposes every per-key failure to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ke := range e.Errors {
		errs[i] = ke
	}
	return errs
}

// Keys returns the failed keys.
func (e *BatchError) Keys() []string {
	keys := make([]string, len(e.Errors))
	for i, ke := range e.Errors {
		keys[i] = ke.Key
	}
	return keys
}
