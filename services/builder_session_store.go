package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"helpdesk.link/configs"
	"helpdesk.link/configs/configslog"
	"helpdesk.link/configs/configsredis"
	"helpdesk.link/models"
	"helpdesk.link/pkg/builder"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type BuilderSessionError string

func (e BuilderSessionError) Error() string       { return string(e) }
func (e BuilderSessionError) UserMessage() string { return string(e) }

const ErrBuilderSessionNotFound BuilderSessionError = "Sessão de edição não encontrada ou expirada"

// saveLockTTL kaydetme kilidinin en uzun süresi; süreç çökerse kilit kendiliğinden düşer.
const saveLockTTL = 30 * time.Second

type sessionKind string

const (
	sessionKindForm sessionKind = "form"
	sessionKindPage sessionKind = "page"
)

// sessionEnvelope oturumun sahibini ve türünü anlık görüntüyle birlikte saklar.
type sessionEnvelope struct {
	Owner    uint            `json:"owner"`
	Kind     sessionKind     `json:"kind"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// IBuilderSessionStore builder oturumlarını istekler arasında taşır.
type IBuilderSessionStore interface {
	SaveForm(ctx context.Context, s *builder.FormSession) error
	LoadForm(ctx context.Context, id string) (*builder.FormSession, error)
	SavePage(ctx context.Context, s *builder.PageSession) error
	LoadPage(ctx context.Context, id string) (*builder.PageSession, error)
	Delete(ctx context.Context, id string) error
	// AcquireSaveLock aynı oturum için eşzamanlı ikinci kaydı engeller.
	AcquireSaveLock(ctx context.Context, id string) (release func(), err error)
}

// sessionBackend anahtar/değer deposu: Redis veya bellek.
type sessionBackend interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
	set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	del(ctx context.Context, key string) error
	setNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type BuilderSessionStore struct {
	backend sessionBackend
	ttl     time.Duration
}

// NewBuilderSessionStore Redis varsa onu, yoksa bellek deposunu kullanır.
func NewBuilderSessionStore() IBuilderSessionStore {
	ttl := configs.Get().BuilderSessionTTL
	if client := configsredis.GetRedis(); client != nil {
		return &BuilderSessionStore{backend: &redisBackend{client: client}, ttl: ttl}
	}
	return NewMemoryBuilderSessionStore(ttl)
}

func NewMemoryBuilderSessionStore(ttl time.Duration) *BuilderSessionStore {
	return &BuilderSessionStore{backend: newMemoryBackend(), ttl: ttl}
}

func sessionKey(id string) string  { return fmt.Sprintf("builder_session:%s", id) }
func saveLockKey(id string) string { return fmt.Sprintf("builder_session_lock:%s", id) }

func (s *BuilderSessionStore) put(ctx context.Context, id string, kind sessionKind, snap any) error {
	owner, ok := models.UserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	env, err := json.Marshal(sessionEnvelope{Owner: owner, Kind: kind, Snapshot: raw})
	if err != nil {
		return err
	}
	return s.backend.set(ctx, sessionKey(id), env, s.ttl)
}

// fetch oturumu yükler; başka kullanıcının veya başka türün oturumu bulunamadı sayılır.
func (s *BuilderSessionStore) fetch(ctx context.Context, id string, kind sessionKind, into any) error {
	owner, ok := models.UserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	raw, found, err := s.backend.get(ctx, sessionKey(id))
	if err != nil {
		configslog.Log.Error("Builder oturumu okunamadı", zap.String("session_id", id), zap.Error(err))
		return err
	}
	if !found {
		return ErrBuilderSessionNotFound
	}
	var env sessionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		configslog.Log.Warn("Builder oturum kaydı bozuk", zap.String("session_id", id), zap.Error(err))
		return ErrBuilderSessionNotFound
	}
	if env.Owner != owner || env.Kind != kind {
		return ErrBuilderSessionNotFound
	}
	if err := json.Unmarshal(env.Snapshot, into); err != nil {
		return ErrBuilderSessionNotFound
	}
	return nil
}

func (s *BuilderSessionStore) SaveForm(ctx context.Context, fs *builder.FormSession) error {
	return s.put(ctx, fs.ID(), sessionKindForm, fs.Snapshot())
}

func (s *BuilderSessionStore) LoadForm(ctx context.Context, id string) (*builder.FormSession, error) {
	var snap builder.FormSnapshot
	if err := s.fetch(ctx, id, sessionKindForm, &snap); err != nil {
		return nil, err
	}
	return builder.RestoreFormSession(snap), nil
}

func (s *BuilderSessionStore) SavePage(ctx context.Context, ps *builder.PageSession) error {
	return s.put(ctx, ps.ID(), sessionKindPage, ps.Snapshot())
}

func (s *BuilderSessionStore) LoadPage(ctx context.Context, id string) (*builder.PageSession, error) {
	var snap builder.PageSnapshot
	if err := s.fetch(ctx, id, sessionKindPage, &snap); err != nil {
		return nil, err
	}
	return builder.RestorePageSession(snap), nil
}

func (s *BuilderSessionStore) Delete(ctx context.Context, id string) error {
	return s.backend.del(ctx, sessionKey(id))
}

func (s *BuilderSessionStore) AcquireSaveLock(ctx context.Context, id string) (func(), error) {
	ok, err := s.backend.setNX(ctx, saveLockKey(id), saveLockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, builder.ErrSaveInFlight
	}
	return func() {
		if err := s.backend.del(context.Background(), saveLockKey(id)); err != nil {
			configslog.Log.Warn("Kaydetme kilidi bırakılamadı", zap.String("session_id", id), zap.Error(err))
		}
	}, nil
}

var _ IBuilderSessionStore = (*BuilderSessionStore)(nil)

type redisBackend struct {
	client *redis.Client
}

func (b *redisBackend) get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (b *redisBackend) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

func (b *redisBackend) del(ctx context.Context, key string) error {
	return b.client.Del(ctx, key).Err()
}

func (b *redisBackend) setNX(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return b.client.SetNX(ctx, key, "1", ttl).Result()
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// memoryBackend tek süreçli geliştirme ortamı için.
type memoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{entries: map[string]memoryEntry{}, now: time.Now}
}

// live süresi dolmuş kaydı siler. mu tutulurken çağrılmalı.
func (b *memoryBackend) live(key string) (memoryEntry, bool) {
	e, ok := b.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expires.IsZero() && !b.now().Before(e.expires) {
		delete(b.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

// sweep süresi dolmuş tüm kayıtları siler; okunmayan oturumlar birikmez.
// mu tutulurken çağrılmalı.
func (b *memoryBackend) sweep() {
	now := b.now()
	for key, e := range b.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(b.entries, key)
		}
	}
}

func (b *memoryBackend) get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.live(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (b *memoryBackend) set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sweep()
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = b.now().Add(ttl)
	}
	b.entries[key] = e
	return nil
}

func (b *memoryBackend) del(_ context.Context, key string) error {
	b.mu.Lock()
	delete(b.entries, key)
	b.mu.Unlock()
	return nil
}

func (b *memoryBackend) setNX(_ context.Context, key string, ttl time.Duration) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sweep()
	if _, ok := b.entries[key]; ok {
		return false, nil
	}
	e := memoryEntry{value: []byte("1")}
	if ttl > 0 {
		e.expires = b.now().Add(ttl)
	}
	b.entries[key] = e
	return true, nil
}
