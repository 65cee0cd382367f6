package repository

import "context"

// MemoryArtifactRepository is an in-memory implementation of ArtifactRepository.
type MemoryArtifactRepository struct {
	Data map[string][]byte
}

func NewMemoryArtifactRepository() *MemoryArtifactRepository {
	return &MemoryArtifactRepository{
		Data: make(map[string][]byte),
	}
}

func (m *MemoryArtifactRepository) Load(_ context.Context, name string) ([]byte, bool, error) {
	val, ok := m.Data[name]
	return val, ok, nil
}

func (m *MemoryArtifactRepository) Set(name string, data []byte) {
	m.Data[name] = data
}
