package assets

import (
	"context"
	"errors"
	"sync"

	"github.com/MrEthical07/learnhub"
	"github.com/google/uuid"
)

// Memory is an in-process asset host.
type Memory struct {
	mu      sync.Mutex
	baseURL string
	assets  map[string]string
}

var _ learnhub.AssetHost = (*Memory)(nil)

// NewMemory returns a host whose URLs start with baseURL.
func NewMemory(baseURL string) *Memory {
	if baseURL == "" {
		baseURL = "memory://assets"
	}
	return &Memory{baseURL: baseURL, assets: make(map[string]string)}
}

func (m *Memory) Upload(_ context.Context, payload, folder string) (learnhub.AssetRef, error) {
	if payload == "" {
		return learnhub.AssetRef{}, errors.New("empty payload")
	}
	id := uuid.NewString()
	if folder != "" {
		id = folder + "/" + id
	}

	m.mu.Lock()
	m.assets[id] = payload
	m.mu.Unlock()
	return learnhub.AssetRef{PublicID: id, URL: m.baseURL + "/" + id}, nil
}

func (m *Memory) Destroy(_ context.Context, publicID string) error {
	m.mu.Lock()
	delete(m.assets, publicID)
	m.mu.Unlock()
	return nil
}

// Len reports how many assets are stored.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.assets)
}
