package ratelimit

import (
	"testing"
	"time"

	"github.com/orgball2608/community-feed-bot/pkg/config"
)

func TestBurstThenDeny(t *testing.T) {
	cfg := &config.Config{}
	cfg.RateLimit.Requests = 1
	cfg.RateLimit.Per = time.Hour
	cfg.RateLimit.Burst = 3

	l := New(cfg)
	for i := 0; i < 3; i++ {
		if !l.Allow(1) {
			t.Fatalf("request %d denied inside burst", i)
		}
	}
	if l.Allow(1) {
		t.Fatal("request past burst allowed")
	}
	if !l.Allow(2) {
		t.Fatal("buckets must be per user")
	}
}

func TestZeroRequestsDisablesLimit(t *testing.T) {
	l := New(&config.Config{})
	for i := 0; i < 100; i++ {
		if !l.Allow(1) {
			t.Fatalf("request %d denied with limiting disabled", i)
		}
	}
}
