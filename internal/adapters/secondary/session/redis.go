package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/athebyme/pidash/internal/core/domain"
	"github.com/athebyme/pidash/internal/core/ports"
	"github.com/go-redis/redis/v8"
)

const (
	DefaultKeyPrefix = "pidash:session:"
	DefaultTTL       = 30 * time.Minute

	noAuthValue = "noauth"
	sidPrefix   = "sid:"
)

// RedisOptions - параметры подключения общего хранилища сессий
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// RedisStore позволяет нескольким репликам дашборда делить сессии бэкендов
// TTL ключа ограничивает жизнь сессии: после истечения будет новая аутентификация
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger ports.Logger
}

var _ ports.SessionStore = (*RedisStore)(nil)

func NewRedisStore(opts RedisOptions, logger ports.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("не удалось пингануть redis %s: %w", opts.Addr, err)
	}

	return NewRedisStoreFromClient(rdb, opts.KeyPrefix, opts.TTL, logger), nil
}

func NewRedisStoreFromClient(client *redis.Client, prefix string, ttl time.Duration, logger ports.Logger) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With("adapter", "RedisSessionStore"),
	}
}

func (s *RedisStore) Get(ctx context.Context, name string) (domain.Session, error) {
	val, err := s.client.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis get session %q: %w", name, err)
	}

	session, ok := decodeSession(val)
	if !ok {
		// мусор в ключе трактуем как отсутствие сессии, следующий логин его перезапишет
		s.logger.Warn("Ignoring malformed session value", "backend", name)
	}
	return session, nil
}

func (s *RedisStore) Set(ctx context.Context, name string, session domain.Session) error {
	if session.IsAbsent() {
		if err := s.client.Del(ctx, s.key(name)).Err(); err != nil {
			return fmt.Errorf("redis del session %q: %w", name, err)
		}
		return nil
	}
	if err := s.client.Set(ctx, s.key(name), encodeSession(session), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %q: %w", name, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(name string) string {
	return s.prefix + name
}

func encodeSession(session domain.Session) string {
	if session.Kind == domain.SessionNoAuth {
		return noAuthValue
	}
	return sidPrefix + session.SID
}

func decodeSession(val string) (domain.Session, bool) {
	switch {
	case val == noAuthValue:
		return domain.NoAuthSession(), true
	case strings.HasPrefix(val, sidPrefix) && len(val) > len(sidPrefix):
		return domain.TokenSession(strings.TrimPrefix(val, sidPrefix)), true
	default:
		return domain.Session{}, false
	}
}
