package calculators

import (
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/epeers/eclengine/internal/models"
)

// Constructor builds a fresh calculator instance for one combination.
type Constructor func() *Calculator

type registryKey struct {
	class  models.ExposureClass
	status models.CreditStatus
}

// Registry maps (exposure class, credit status) pairs to calculator
// constructors. It is passed explicitly to the orchestrator rather than held
// as a global, so tests and callers can customize it freely.
type Registry struct {
	mu      sync.RWMutex
	entries map[registryKey]Constructor
}

// NewRegistry returns a registry with the standard variants registered:
// the three implemented combinations plus the non-retail defaulted
// placeholder, which fails with ErrNotImplemented when invoked.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[registryKey]Constructor)}
	r.Register(models.ClassNonRetail, models.StatusPerforming, NewNonRetailPerforming)
	r.Register(models.ClassRetail, models.StatusPerforming, NewRetailPerforming)
	r.Register(models.ClassRetail, models.StatusDefaulted, NewRetailDefaulted)
	r.Register(models.ClassNonRetail, models.StatusDefaulted, func() *Calculator {
		return NewUnimplemented(models.ClassNonRetail, models.StatusDefaulted)
	})
	return r
}

// Register adds or replaces the constructor for a combination. Replacement
// fully supersedes the previous entry; behavior is never merged.
func (r *Registry) Register(class models.ExposureClass, status models.CreditStatus, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := registryKey{class: class, status: status}
	if _, exists := r.entries[key]; exists {
		log.Infof("replacing calculator registration for %s/%s", class, status)
	}
	r.entries[key] = ctor
}

// Create instantiates the calculator registered for a combination. An absent
// key fails with ErrUnregisteredVariant and leaves the registry unchanged.
func (r *Registry) Create(class models.ExposureClass, status models.CreditStatus) (*Calculator, error) {
	r.mu.RLock()
	ctor, ok := r.entries[registryKey{class: class, status: status}]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", class, status, ErrUnregisteredVariant)
	}
	return ctor(), nil
}

// AvailableCombinations enumerates the registered keys in stable order, for
// callers validating configuration before running a batch.
func (r *Registry) AvailableCombinations() []models.VariantInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.VariantInfo, 0, len(r.entries))
	for key, ctor := range r.entries {
		out = append(out, models.VariantInfo{
			ExposureClass: key.class,
			CreditStatus:  key.status,
			Implemented:   ctor().Implemented(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExposureClass != out[j].ExposureClass {
			return out[i].ExposureClass < out[j].ExposureClass
		}
		return out[i].CreditStatus < out[j].CreditStatus
	})
	return out
}
