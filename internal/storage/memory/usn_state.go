package memory

import (
	"context"

	"github.com/constellation/core/internal/domain"
)

func (r *usnStateRepository) Get(ctx context.Context, driveLetter string) (*domain.UsnState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.usnStates[driveLetter]
	if !ok {
		return nil, domain.New(domain.UsnJournalError, "no usn state for drive %q", driveLetter)
	}
	cp := *s
	return &cp, nil
}

func (r *usnStateRepository) Upsert(ctx context.Context, state *domain.UsnState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *state
	r.usnStates[state.DriveLetter] = &cp
	return nil
}
