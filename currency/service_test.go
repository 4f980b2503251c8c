package currency

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"zawamu/cache"
)

type stubFetcher struct {
	calls int
	table Table
	err   error
}

func (s *stubFetcher) Fetch(context.Context) (Table, error) {
	s.calls++
	return s.table, s.err
}

func TestRatesCachesUpstream(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := cache.NewRedis(mr.Addr(), "", 0)
	defer rc.Close()

	f := &stubFetcher{table: Table{Base: "USD", Rates: map[string]float64{"USD": 1, "KES": 130}}}
	s := NewService(f, rc, time.Hour)

	for i := 0; i < 3; i++ {
		got := s.Rates(context.Background())
		if got.Rates["KES"] != 130 || got.Fallback {
			t.Fatalf("unexpected table %+v", got)
		}
	}
	if f.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", f.calls)
	}

	mr.FastForward(2 * time.Hour)
	s.Rates(context.Background())
	if f.calls != 2 {
		t.Fatalf("expected refresh after ttl, got %d calls", f.calls)
	}
}

func TestRatesFallbackNotCached(t *testing.T) {
	f := &stubFetcher{err: errors.New("offline")}
	s := NewService(f, cache.Nop{}, time.Hour)

	got := s.Rates(context.Background())
	if !got.Fallback || got.Rates["KES"] != 150 || got.Rates["USD"] != 1 {
		t.Fatalf("unexpected fallback %+v", got)
	}
	s.Rates(context.Background())
	if f.calls != 2 {
		t.Fatalf("fallback should not be cached, got %d calls", f.calls)
	}
}

func TestConvert(t *testing.T) {
	tbl := Table{Base: "USD", Rates: map[string]float64{"USD": 1, "KES": 150, "EUR": 0.9}}

	cases := []struct {
		amount   float64
		from, to string
		want     float64
	}{
		{100, "USD", "KES", 15000},
		{15000, "kes", "usd", 100},
		{300, "KES", "EUR", 1.8},
		{42, "EUR", "EUR", 42},
	}
	for _, c := range cases {
		got, err := Convert(tbl, c.amount, c.from, c.to)
		if err != nil {
			t.Fatalf("Convert(%v %s->%s): %v", c.amount, c.from, c.to, err)
		}
		if math.Abs(got.Result-c.want) > 1e-9 {
			t.Errorf("Convert(%v %s->%s) = %v, want %v", c.amount, c.from, c.to, got.Result, c.want)
		}
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	tbl := Fallback()
	if _, err := Convert(tbl, 1, "USD", "XYZ"); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
	if _, err := Convert(tbl, 1, "", "KES"); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency for empty code, got %v", err)
	}
}

func TestConvertFlagsFallback(t *testing.T) {
	s := NewService(&stubFetcher{err: errors.New("offline")}, cache.Nop{}, time.Hour)
	got, err := s.Convert(context.Background(), 150, "KES", "USD")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !got.Fallback || got.Result != 1 {
		t.Fatalf("unexpected conversion %+v", got)
	}
}
