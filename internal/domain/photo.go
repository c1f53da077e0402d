package domain

import (
	"strings"
	"time"
)

// Photo is an object stored under an album's prefix.
type Photo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// Filename returns the key with its album prefix removed.
func (p Photo) Filename() string {
	if i := strings.LastIndexByte(p.Key, '/'); i >= 0 {
		return p.Key[i+1:]
	}
	return p.Key
}
