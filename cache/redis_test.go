package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type entry struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func TestRedisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	var got entry
	ok, err := c.Get(ctx, "rates:USD", &got)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := entry{Base: "USD", Rates: map[string]float64{"KES": 129.5}}
	if err := c.Set(ctx, "rates:USD", in, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ok, err = c.Get(ctx, "rates:USD", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Base != "USD" || got.Rates["KES"] != 129.5 {
		t.Fatalf("unexpected value %+v", got)
	}

	mr.FastForward(2 * time.Minute)
	if ok, _ := c.Get(ctx, "rates:USD", &got); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestRedisDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", 1, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if mr.Exists("k") {
		t.Fatal("key still present")
	}
}

func TestNop(t *testing.T) {
	var n Nop
	_ = n.Set(context.Background(), "k", 1, time.Minute)
	var v int
	if ok, err := n.Get(context.Background(), "k", &v); ok || err != nil {
		t.Fatalf("Nop.Get = %v, %v", ok, err)
	}
}
