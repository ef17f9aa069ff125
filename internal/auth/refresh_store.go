package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRefreshRecordNotFound is returned when no record exists for a token.
var ErrRefreshRecordNotFound = errors.New("refresh record not found")

// RefreshRecord is the audit entry kept for an issued refresh token.
type RefreshRecord struct {
	SubjectID int64
	IP        string
	UserAgent string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Revoked   bool
}

// RefreshStore tracks issued refresh tokens for audit and early revocation.
// It is not authoritative for validity.
type RefreshStore interface {
	Save(ctx context.Context, token string, record RefreshRecord) error
	Lookup(ctx context.Context, token string) (*RefreshRecord, error)
	Revoke(ctx context.Context, token string) error
}

// MemoryRefreshStore keeps records in process memory. Entries are never
// evicted and are lost on restart.
type MemoryRefreshStore struct {
	mu      sync.RWMutex
	records map[string]RefreshRecord
}

// NewMemoryRefreshStore creates an empty in-memory store.
func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{records: make(map[string]RefreshRecord)}
}

func (s *MemoryRefreshStore) Save(_ context.Context, token string, record RefreshRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[token] = record
	return nil
}

func (s *MemoryRefreshStore) Lookup(_ context.Context, token string) (*RefreshRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[token]
	if !ok {
		return nil, ErrRefreshRecordNotFound
	}
	return &record, nil
}

func (s *MemoryRefreshStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[token]
	if !ok {
		return ErrRefreshRecordNotFound
	}
	record.Revoked = true
	s.records[token] = record
	return nil
}

// Len returns the number of tracked tokens.
func (s *MemoryRefreshStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

const (
	fieldSubjectID = "subject_id"
	fieldIP        = "ip"
	fieldUserAgent = "user_agent"
	fieldIssuedAt  = "issued_at"
	fieldExpiresAt = "expires_at"
	fieldRevoked   = "revoked"
)

// RedisRefreshStore keeps one hash per refresh token, expiring together with
// the token. Keys use a SHA-256 digest so raw tokens are never stored.
type RedisRefreshStore struct {
	client *redis.Client
	prefix string
}

// NewRedisRefreshStore builds a store on top of an existing client.
func NewRedisRefreshStore(client *redis.Client, prefix string) *RedisRefreshStore {
	return &RedisRefreshStore{client: client, prefix: prefix}
}

func (s *RedisRefreshStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.prefix + hex.EncodeToString(sum[:])
}

func (s *RedisRefreshStore) Save(ctx context.Context, token string, record RefreshRecord) error {
	key := s.key(token)
	revoked := "0"
	if record.Revoked {
		revoked = "1"
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldSubjectID, strconv.FormatInt(record.SubjectID, 10),
			fieldIP, record.IP,
			fieldUserAgent, record.UserAgent,
			fieldIssuedAt, strconv.FormatInt(record.IssuedAt.Unix(), 10),
			fieldExpiresAt, strconv.FormatInt(record.ExpiresAt.Unix(), 10),
			fieldRevoked, revoked,
		)
		if !record.ExpiresAt.IsZero() {
			pipe.ExpireAt(ctx, key, record.ExpiresAt)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save refresh record: %w", err)
	}
	return nil
}

func (s *RedisRefreshStore) Lookup(ctx context.Context, token string) (*RefreshRecord, error) {
	values, err := s.client.HGetAll(ctx, s.key(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("lookup refresh record: %w", err)
	}
	if len(values) == 0 {
		return nil, ErrRefreshRecordNotFound
	}
	return decodeRefreshRecord(values)
}

// revokeScript flags an existing record only, so a key that expired in the
// meantime is not recreated without a TTL.
var revokeScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], "1")
return 1
`)

func (s *RedisRefreshStore) Revoke(ctx context.Context, token string) error {
	updated, err := revokeScript.Run(ctx, s.client, []string{s.key(token)}, fieldRevoked).Int()
	if err != nil {
		return fmt.Errorf("revoke refresh record: %w", err)
	}
	if updated == 0 {
		return ErrRefreshRecordNotFound
	}
	return nil
}

func decodeRefreshRecord(values map[string]string) (*RefreshRecord, error) {
	subjectID, err := strconv.ParseInt(values[fieldSubjectID], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode refresh record subject: %w", err)
	}
	issuedAt, err := strconv.ParseInt(values[fieldIssuedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode refresh record issued_at: %w", err)
	}
	expiresAt, err := strconv.ParseInt(values[fieldExpiresAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode refresh record expires_at: %w", err)
	}
	return &RefreshRecord{
		SubjectID: subjectID,
		IP:        values[fieldIP],
		UserAgent: values[fieldUserAgent],
		IssuedAt:  time.Unix(issuedAt, 0),
		ExpiresAt: time.Unix(expiresAt, 0),
		Revoked:   values[fieldRevoked] == "1",
	}, nil
}
