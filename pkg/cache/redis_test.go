package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jidetireni/adyc-membership/pkg/logger"
	rds "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func unreachable() *Redis {
	return NewWithClient(rds.NewClient(&rds.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}), logger.Nop())
}

func TestSetRejectsUnencodableValues(t *testing.T) {
	r := unreachable()
	defer r.Close()

	err := r.Set(context.Background(), "k", make(chan int), time.Minute)
	assert.Error(t, err)
}

func TestGetDistinguishesOutageFromMiss(t *testing.T) {
	r := unreachable()
	defer r.Close()

	var dest map[string]any
	err := r.Get(context.Background(), "k", &dest)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrCacheMiss))
}
