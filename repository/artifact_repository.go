package repository

import "context"

// ArtifactRepository loads serialized model artifacts by name.
type ArtifactRepository interface {
	// Load returns the artifact bytes. ok is false when no artifact
	// with that name exists; err is reserved for store failures.
	Load(ctx context.Context, name string) (data []byte, ok bool, err error)
}
