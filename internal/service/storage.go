package service

import (
	"context"
	"io"

	"github.com/adityaharshit/code-i-technology-sub001/pkg/cloudinary"
)

// ObjectStorage abstracts the external file store used for payment proofs
// and student photos. Implementations perform a single attempt; callers
// that want retries wrap invocations with pkg/retry.
type ObjectStorage interface {
	Store(ctx context.Context, name string, reader io.Reader) (cloudinary.StoredObject, error)
	Delete(ctx context.Context, id string) error
}
