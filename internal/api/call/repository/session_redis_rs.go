package callRepository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CallAgent/internal/api/call"
	"CallAgent/internal/entity"
	"CallAgent/pkg/log"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	sessionKeyPrefix = "call_session:"
	maxTxRetries     = 5
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// NewRedisSessionStore shares sessions between gateway replicas. Every write
// refreshes the key's ttl.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration, logger *logrus.Logger) SessionStore {
	return &redisSessionStore{
		client: client,
		ttl:    ttl,
		log:    logger,
	}
}

func sessionKey(callID string) string {
	return sessionKeyPrefix + callID
}

func (r *redisSessionStore) Put(ctx context.Context, session entity.CallSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(session.CallID), data, r.ttl).Err(); err != nil {
		r.log.WithFields(log.Fields{
			"call_id": session.CallID,
			"error":   err.Error(),
		}).Error("[redisSessionStore.Put] failed to store session")
		return err
	}
	return nil
}

func (r *redisSessionStore) Get(ctx context.Context, callID string) (entity.CallSession, error) {
	data, err := r.client.Get(ctx, sessionKey(callID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.CallSession{}, call.ErrSessionNotFound
	}
	if err != nil {
		return entity.CallSession{}, err
	}

	var session entity.CallSession
	if err := json.Unmarshal(data, &session); err != nil {
		return entity.CallSession{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

func (r *redisSessionStore) AppendTurns(ctx context.Context, callID, sessionID string, turns ...entity.Turn) error {
	key := sessionKey(callID)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return call.ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		var session entity.CallSession
		if err := json.Unmarshal(data, &session); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		if session.SessionID != sessionID {
			return call.ErrSessionNotFound
		}

		session.Turns = append(session.Turns, turns...)
		session.UpdatedAt = time.Now()

		updated, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, r.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	r.log.WithFields(log.Fields{
		"call_id": callID,
	}).Warn("[redisSessionStore.AppendTurns] gave up after concurrent updates")
	return redis.TxFailedErr
}

func (r *redisSessionStore) Remove(ctx context.Context, callID, sessionID string) (bool, error) {
	key := sessionKey(callID)
	removed := false

	txf := func(tx *redis.Tx) error {
		removed = false

		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		var session entity.CallSession
		if err := json.Unmarshal(data, &session); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		if session.SessionID != sessionID {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		if err == nil {
			removed = true
		}
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return removed, err
	}

	r.log.WithFields(log.Fields{
		"call_id": callID,
	}).Warn("[redisSessionStore.Remove] gave up after concurrent updates")
	return false, redis.TxFailedErr
}
