package infra_session_cache

import (
	"fmt"
	"time"

	"github.com/go-redis/redis"
)

// Driver keeps presenter sessions in Redis under "<prefix>:<session id>".
// A missing session reads as an empty value.
type Driver struct {
	client *redis.Client
	prefix string
}

func New(
	client *redis.Client,
	prefix string,
) *Driver {
	return &Driver{
		client: client,
		prefix: prefix,
	}
}

func (d *Driver) Set(session string, owner string, ttl time.Duration) error {
	if err := d.client.Set(d.key(session), owner, ttl).Err(); err != nil {
		return fmt.Errorf("store session %s: %w", session, err)
	}
	return nil
}

func (d *Driver) Get(session string) (string, error) {
	owner, err := d.client.Get(d.key(session)).Result()
	switch {
	case err == redis.Nil:
		return "", nil
	case err != nil:
		return "", fmt.Errorf("read session %s: %w", session, err)
	}
	return owner, nil
}

// Del is a no-op for unknown sessions.
func (d *Driver) Del(session string) error {
	if err := d.client.Del(d.key(session)).Err(); err != nil {
		return fmt.Errorf("drop session %s: %w", session, err)
	}
	return nil
}

func (d *Driver) key(session string) string {
	if d.prefix == "" {
		return session
	}
	return d.prefix + ":" + session
}
