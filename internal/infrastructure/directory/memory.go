package directory

import (
	"context"
	"sync"

	"github.com/karasi-sonica/PawzIO/internal/application"
)

// MemoryDirectory is an in-process provider roster for local runs and tests.
type MemoryDirectory struct {
	mu    sync.RWMutex
	roles map[string]application.ProviderRole
	loads map[string]int
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		roles: make(map[string]application.ProviderRole),
		loads: make(map[string]int),
	}
}

func (d *MemoryDirectory) SetRole(providerID string, role application.ProviderRole) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.roles[providerID] = role
}

func (d *MemoryDirectory) SetLoad(providerID string, load int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loads[providerID] = load
}

func (d *MemoryDirectory) RoleOf(ctx context.Context, providerID string) (application.ProviderRole, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	role, ok := d.roles[providerID]
	if !ok {
		return "", application.ErrProviderNotFound
	}
	return role, nil
}

func (d *MemoryDirectory) CurrentLoad(ctx context.Context, providerID string) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := d.roles[providerID]; !ok {
		return 0, application.ErrProviderNotFound
	}
	return d.loads[providerID], nil
}

func (d *MemoryDirectory) ProvidersWithRole(ctx context.Context, role application.ProviderRole) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var ids []string
	for id, r := range d.roles {
		if r == role {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (d *MemoryDirectory) IncrLoad(ctx context.Context, providerID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loads[providerID]++
	return nil
}

func (d *MemoryDirectory) DecrLoad(ctx context.Context, providerID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loads[providerID] > 0 {
		d.loads[providerID]--
	}
	return nil
}
