package memory

import (
	"context"
	"fmt"

	"ai-voicebot-be/internal/entity"
	"ai-voicebot-be/internal/repository/contract"
	"ai-voicebot-be/internal/repository/specification"

	"github.com/google/uuid"
)

// Users

type userRepository struct {
	uow *unitOfWork
}

func matchUser(u entity.User, spec specification.Specification) (bool, bool) {
	switch s := spec.(type) {
	case specification.ByID:
		return u.Id == s.ID, true
	case specification.ByTelegramID:
		return u.TelegramId == s.TelegramID, true
	}
	return false, false
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	existing, err := r.FindOne(ctx, specification.ByTelegramID{TelegramID: user.TelegramId})
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("user %s: %w", user.TelegramId, contract.ErrActiveConflict)
	}
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	now := r.uow.store.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = &now
	r.uow.put(userPrefix+user.Id.String(), stored[entity.User]{Seq: r.uow.store.seq.Add(1), CreatedAt: user.CreatedAt, Val: *user})
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	row, ok := get[entity.User](r.uow, userPrefix+user.Id.String())
	if !ok {
		return fmt.Errorf("user %s not found", user.Id)
	}
	now := r.uow.store.now()
	user.UpdatedAt = &now
	row.Val = *user
	r.uow.put(userPrefix+user.Id.String(), row)
	return nil
}

func (r *userRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	r.uow.store.incMu.Lock()
	defer r.uow.store.incMu.Unlock()
	row, ok := get[entity.User](r.uow, userPrefix+id.String())
	if !ok {
		return fmt.Errorf("user %s not found", id)
	}
	row.Val.UsageCount++
	r.uow.put(userPrefix+id.String(), row)
	return nil
}

func (r *userRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	users, err := query(scan[entity.User](r.uow, userPrefix), specs, matchUser)
	if err != nil || len(users) == 0 {
		return nil, err
	}
	u := users[0]
	return &u, nil
}

func (r *userRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	users, err := query(scan[entity.User](r.uow, userPrefix), specs, matchUser)
	return int64(len(users)), err
}

// Chat sessions

type chatSessionRepository struct {
	uow *unitOfWork
}

func matchSession(s entity.ChatSession, spec specification.Specification) (bool, bool) {
	switch sp := spec.(type) {
	case specification.ByID:
		return s.Id == sp.ID, true
	case specification.UserOwnedBy:
		return s.UserId == sp.UserID, true
	case specification.ActiveOnly:
		return s.IsActive, true
	}
	return false, false
}

func (r *chatSessionRepository) Create(ctx context.Context, session *entity.ChatSession) error {
	if session.IsActive {
		n, err := r.Count(ctx, specification.UserOwnedBy{UserID: session.UserId}, specification.ActiveOnly{})
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("session for user %s: %w", session.UserId, contract.ErrActiveConflict)
		}
	}
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = r.uow.store.now()
	}
	r.uow.put(sessionPrefix+session.Id.String(), stored[entity.ChatSession]{Seq: r.uow.store.seq.Add(1), CreatedAt: session.CreatedAt, Val: *session})
	return nil
}

func (r *chatSessionRepository) Update(ctx context.Context, session *entity.ChatSession) error {
	row, ok := get[entity.ChatSession](r.uow, sessionPrefix+session.Id.String())
	if !ok {
		return fmt.Errorf("session %s not found", session.Id)
	}
	now := r.uow.store.now()
	session.UpdatedAt = &now
	row.Val = *session
	r.uow.put(sessionPrefix+session.Id.String(), row)
	return nil
}

func (r *chatSessionRepository) DeactivateAllByUserId(ctx context.Context, userId uuid.UUID) (int64, error) {
	var n int64
	for _, row := range scan[entity.ChatSession](r.uow, sessionPrefix) {
		if row.Val.UserId != userId || !row.Val.IsActive {
			continue
		}
		now := r.uow.store.now()
		row.Val.IsActive = false
		row.Val.UpdatedAt = &now
		r.uow.put(sessionPrefix+row.Val.Id.String(), row)
		n++
	}
	return n, nil
}

func (r *chatSessionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	sessions, err := r.FindAll(ctx, specs...)
	if err != nil || len(sessions) == 0 {
		return nil, err
	}
	return sessions[0], nil
}

func (r *chatSessionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	sessions, err := query(scan[entity.ChatSession](r.uow, sessionPrefix), specs, matchSession)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.ChatSession, len(sessions))
	for i := range sessions {
		out[i] = &sessions[i]
	}
	return out, nil
}

func (r *chatSessionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	sessions, err := query(scan[entity.ChatSession](r.uow, sessionPrefix), specs, matchSession)
	return int64(len(sessions)), err
}

// Chat messages

type chatMessageRepository struct {
	uow *unitOfWork
}

func matchMessage(m entity.ChatMessage, spec specification.Specification) (bool, bool) {
	switch s := spec.(type) {
	case specification.ByID:
		return m.Id == s.ID, true
	case specification.ByChatSessionID:
		return m.ChatSessionId == s.ChatSessionID, true
	case specification.UserOwnedBy:
		return m.UserId == s.UserID, true
	case specification.ByRole:
		for _, role := range s.Roles {
			if m.Role == role {
				return true, true
			}
		}
		return false, true
	}
	return false, false
}

func (r *chatMessageRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = r.uow.store.now()
	}
	r.uow.put(messagePrefix+message.Id.String(), stored[entity.ChatMessage]{Seq: r.uow.store.seq.Add(1), CreatedAt: message.CreatedAt, Val: *message})
	return nil
}

func (r *chatMessageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	msgs, err := query(scan[entity.ChatMessage](r.uow, messagePrefix), specs, matchMessage)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.ChatMessage, len(msgs))
	for i := range msgs {
		out[i] = &msgs[i]
	}
	return out, nil
}

func (r *chatMessageRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	msgs, err := query(scan[entity.ChatMessage](r.uow, messagePrefix), specs, matchMessage)
	return int64(len(msgs)), err
}

// Notes

type noteRepository struct {
	uow *unitOfWork
}

func matchNote(n entity.Note, spec specification.Specification) (bool, bool) {
	switch s := spec.(type) {
	case specification.ByID:
		return n.Id == s.ID, true
	case specification.UserOwnedBy:
		return n.UserId == s.UserID, true
	case specification.ActiveOnly:
		return n.IsActive, true
	}
	return false, false
}

func (r *noteRepository) Create(ctx context.Context, note *entity.Note) error {
	if note.IsActive {
		n, err := r.Count(ctx, specification.UserOwnedBy{UserID: note.UserId}, specification.ActiveOnly{})
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("note for user %s: %w", note.UserId, contract.ErrActiveConflict)
		}
	}
	if note.Id == uuid.Nil {
		note.Id = uuid.New()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = r.uow.store.now()
	}
	r.uow.put(notePrefix+note.Id.String(), stored[entity.Note]{Seq: r.uow.store.seq.Add(1), CreatedAt: note.CreatedAt, Val: *note})
	return nil
}

func (r *noteRepository) DeactivateAllByUserId(ctx context.Context, userId uuid.UUID) (int64, error) {
	var n int64
	for _, row := range scan[entity.Note](r.uow, notePrefix) {
		if row.Val.UserId != userId || !row.Val.IsActive {
			continue
		}
		now := r.uow.store.now()
		row.Val.IsActive = false
		row.Val.UpdatedAt = &now
		r.uow.put(notePrefix+row.Val.Id.String(), row)
		n++
	}
	return n, nil
}

func (r *noteRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	notes, err := query(scan[entity.Note](r.uow, notePrefix), specs, matchNote)
	if err != nil || len(notes) == 0 {
		return nil, err
	}
	n := notes[0]
	return &n, nil
}

func (r *noteRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	notes, err := query(scan[entity.Note](r.uow, notePrefix), specs, matchNote)
	return int64(len(notes)), err
}

// Note chunks

type noteChunkRepository struct {
	uow *unitOfWork
}

func matchChunk(c entity.NoteChunk, spec specification.Specification) (bool, bool) {
	if s, ok := spec.(specification.ByNoteID); ok {
		return c.NoteId == s.NoteID, true
	}
	return false, false
}

func (r *noteChunkRepository) Create(ctx context.Context, chunk *entity.NoteChunk) error {
	if chunk.Id == uuid.Nil {
		chunk.Id = uuid.New()
	}
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = r.uow.store.now()
	}
	r.uow.put(chunkPrefix+chunk.Id.String(), stored[entity.NoteChunk]{Seq: r.uow.store.seq.Add(1), CreatedAt: chunk.CreatedAt, Val: *chunk})
	return nil
}

func (r *noteChunkRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteChunk, error) {
	chunks, err := query(scan[entity.NoteChunk](r.uow, chunkPrefix), specs, matchChunk)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.NoteChunk, len(chunks))
	for i := range chunks {
		out[i] = &chunks[i]
	}
	return out, nil
}
