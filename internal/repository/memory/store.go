package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"ai-voicebot-be/internal/repository/contract"
	"ai-voicebot-be/internal/repository/specification"
	"ai-voicebot-be/internal/repository/unitofwork"

	"github.com/patrickmn/go-cache"
)

const (
	userPrefix    = "user:"
	sessionPrefix = "session:"
	messagePrefix = "message:"
	notePrefix    = "note:"
	chunkPrefix   = "chunk:"
)

// Store is a process-local conversation store on top of go-cache. Records never
// expire. Transactions are serialized by a single writer lock and undone from
// a journal on rollback.
type Store struct {
	cache *cache.Cache
	txMu  sync.Mutex
	incMu sync.Mutex
	seq   atomic.Uint64
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		cache: cache.New(cache.NoExpiration, 0),
		now:   time.Now,
	}
}

// WithClock replaces the clock used for CreatedAt/UpdatedAt.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: s}
}

type stored[T any] struct {
	Seq       uint64
	CreatedAt time.Time
	Val       T
}

type undo struct {
	key   string
	prev  interface{}
	found bool
}

type unitOfWork struct {
	store   *Store
	inTx    bool
	journal []undo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	u.store.txMu.Lock()
	u.inTx = true
	u.journal = nil
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.inTx = false
	u.journal = nil
	u.store.txMu.Unlock()
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to rollback")
	}
	for i := len(u.journal) - 1; i >= 0; i-- {
		j := u.journal[i]
		if j.found {
			u.store.cache.Set(j.key, j.prev, cache.NoExpiration)
		} else {
			u.store.cache.Delete(j.key)
		}
	}
	u.inTx = false
	u.journal = nil
	u.store.txMu.Unlock()
	return nil
}

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return &userRepository{uow: u}
}

func (u *unitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return &chatSessionRepository{uow: u}
}

func (u *unitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return &chatMessageRepository{uow: u}
}

func (u *unitOfWork) NoteRepository() contract.NoteRepository {
	return &noteRepository{uow: u}
}

func (u *unitOfWork) NoteChunkRepository() contract.NoteChunkRepository {
	return &noteChunkRepository{uow: u}
}

func (u *unitOfWork) put(key string, v interface{}) {
	if u.inTx {
		prev, found := u.store.cache.Get(key)
		u.journal = append(u.journal, undo{key: key, prev: prev, found: found})
	}
	u.store.cache.Set(key, v, cache.NoExpiration)
}

func get[T any](u *unitOfWork, key string) (stored[T], bool) {
	x, found := u.store.cache.Get(key)
	if !found {
		return stored[T]{}, false
	}
	return x.(stored[T]), true
}

func scan[T any](u *unitOfWork, prefix string) []stored[T] {
	var rows []stored[T]
	for k, it := range u.store.cache.Items() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if row, ok := it.Object.(stored[T]); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// matcher reports (matched, handled) for one filtering specification.
type matcher[T any] func(v T, spec specification.Specification) (bool, bool)

func query[T any](rows []stored[T], specs []specification.Specification, match matcher[T]) ([]T, error) {
	var order *specification.OrderBy
	var page *specification.Pagination
	var filters []specification.Specification

	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.OrderBy:
			if v.Field != "created_at" {
				return nil, fmt.Errorf("memory store: cannot order by %q", v.Field)
			}
			o := v
			order = &o
		case specification.Pagination:
			p := v
			page = &p
		case specification.ForUpdate:
			// the writer lock already serializes transactions
		default:
			filters = append(filters, spec)
		}
	}

	var out []stored[T]
	for _, row := range rows {
		ok := true
		for _, f := range filters {
			matched, handled := match(row.Val, f)
			if !handled {
				return nil, fmt.Errorf("memory store: unsupported specification %T", f)
			}
			if !matched {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, row)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if order == nil {
			return out[i].Seq < out[j].Seq
		}
		a, b := out[i], out[j]
		if order.Desc {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Seq < b.Seq
	})

	if page != nil {
		if page.Offset >= len(out) {
			out = nil
		} else {
			out = out[page.Offset:]
		}
		if page.Limit > 0 && len(out) > page.Limit {
			out = out[:page.Limit]
		}
	}

	vals := make([]T, len(out))
	for i, row := range out {
		vals[i] = row.Val
	}
	return vals, nil
}
