package store

import (
	"context"
	"sync"

	"github.com/yurifrl/finsum/pkg/models"
)

// Memory keeps transactions in process. Load returns them in the order they
// were first saved.
type Memory struct {
	mu    sync.RWMutex
	users map[string]*ledger
}

type ledger struct {
	order []string
	byID  map[string]models.Transaction
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]*ledger)}
}

func (m *Memory) Save(ctx context.Context, userID string, txs []models.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	userID = userOrDefault(userID)
	l, ok := m.users[userID]
	if !ok {
		l = &ledger{byID: make(map[string]models.Transaction)}
		m.users[userID] = l
	}
	for _, t := range txs {
		if _, exists := l.byID[t.ID]; !exists {
			l.order = append(l.order, t.ID)
		}
		l.byID[t.ID] = t
	}
	return nil
}

func (m *Memory) Load(ctx context.Context, userID string) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.users[userOrDefault(userID)]
	if !ok {
		return []models.Transaction{}, nil
	}
	out := make([]models.Transaction, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.byID[id])
	}
	return out, nil
}
