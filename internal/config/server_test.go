package config

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
)

func TestNewServerRequiresEnv(t *testing.T) {
	_, err := NewServer(WithFiber(NewFiber(logrus.New())), WithLogger(logrus.New()))
	if err == nil {
		t.Fatal("expected an error without an environment")
	}
}

func TestNewServerValidator(t *testing.T) {
	s, err := NewServer(WithFiber(NewFiber(logrus.New())), WithLogger(logrus.New()), WithEnv(&GatewayEnv{}))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if s.validator == nil {
		t.Fatal("expected a default validator")
	}

	v := NewValidator()
	s, err = NewServer(WithFiber(NewFiber(logrus.New())), WithLogger(logrus.New()), WithEnv(&GatewayEnv{}), WithValidator(v))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if s.validator != v {
		t.Fatal("WithValidator was not applied")
	}
}

func TestWithMiddlewareNeedsEnv(t *testing.T) {
	_, err := NewServer(WithLogger(logrus.New()), WithMiddleware())
	if err == nil {
		t.Fatal("expected middleware option to fail before env is set")
	}
}

func TestWithSessionStoreBackends(t *testing.T) {
	mr := miniredis.RunT(t)

	cases := []struct {
		name    string
		env     GatewayEnv
		wantErr bool
		redis   bool
	}{
		{name: "memory", env: GatewayEnv{SessionBackend: "memory", SessionTTL: time.Hour}},
		{name: "redis", env: GatewayEnv{SessionBackend: "redis", SessionTTL: time.Hour, RedisAddress: mr.Addr()}, redis: true},
		{name: "redis unreachable", env: GatewayEnv{SessionBackend: "redis", SessionTTL: time.Hour, RedisAddress: "127.0.0.1:1"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := tc.env
			s, err := NewServer(
				WithFiber(NewFiber(logrus.New())),
				WithLogger(logrus.New()),
				WithEnv(&env),
				WithSessionStore(context.Background()),
			)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("new server: %v", err)
			}
			if s.sessionStore == nil {
				t.Fatal("session store not set")
			}
			if (s.redisClient != nil) != tc.redis {
				t.Fatalf("redis client set = %v, want %v", s.redisClient != nil, tc.redis)
			}
			if s.redisClient != nil {
				_ = s.redisClient.Close()
			}
		})
	}
}
