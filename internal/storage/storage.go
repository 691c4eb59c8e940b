package storage

import (
	"context"
	"io"
)

// Archive keeps a server-side copy of documents fetched from the carrier, so
// an admin can still re-download a return label after the carrier URL expires.
type Archive interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}

type PutInput struct {
	Key         string // caller-chosen, e.g. "retourlabel-1a2b3c4d.pdf"
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}
