package survey

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type RecordStatus string

const (
	StatusUploaded RecordStatus = "uploaded"
	StatusFailed   RecordStatus = "failed"
)

// Record is the outcome of one submission attempt. Answers are not kept.
type Record struct {
	Token        string       `json:"token" db:"token"`
	FileName     string       `json:"fileName" db:"file_name"`
	ObjectID     string       `json:"objectId,omitempty" db:"object_id"`
	ViewLink     string       `json:"viewLink,omitempty" db:"view_link"`
	Status       RecordStatus `json:"status" db:"status"`
	ErrorCode    string       `json:"errorCode,omitempty" db:"error_code"`
	ErrorMessage string       `json:"errorMessage,omitempty" db:"error_message"`
	CreatedAt    time.Time    `json:"createdAt" db:"-"`
}

type RecordStore interface {
	Save(ctx context.Context, rec Record) error
	// Get returns ok=false when no record has token.
	Get(ctx context.Context, token string) (Record, bool, error)
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

func generateToken() string {
	return uuid.NewString()
}

type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[string]Record)}
}

func (s *MemoryRecordStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	s.records[rec.Token] = rec
	s.mu.Unlock()
	return nil
}

func (s *MemoryRecordStore) Get(_ context.Context, token string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[token]
	return rec, ok, nil
}

func (s *MemoryRecordStore) Recent(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Token, b.Token)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryRecordStore) Close() error { return nil }
