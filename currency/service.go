package currency

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const cacheKey = "currency:rates"

var ErrUnknownCurrency = errors.New("unknown currency")

type Fetcher interface {
	Fetch(ctx context.Context) (Table, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Fallback is served when the rate provider cannot be reached.
func Fallback() Table {
	return Table{
		Base:     "USD",
		Rates:    map[string]float64{"USD": 1, "KES": 150},
		Fallback: true,
	}
}

type Service struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
	now     func() time.Time
}

func NewService(f Fetcher, c Cache, ttl time.Duration) *Service {
	return &Service{fetcher: f, cache: c, ttl: ttl, now: time.Now}
}

// Rates returns the cached table, refreshing it from the provider when the
// cache is empty. Provider failures fall back to the fixed table, which is
// never cached.
func (s *Service) Rates(ctx context.Context) Table {
	var t Table
	if ok, err := s.cache.Get(ctx, cacheKey, &t); err != nil {
		log.Warn().Err(err).Msg("rates cache read failed")
	} else if ok && len(t.Rates) > 0 {
		return t
	}

	t, err := s.fetcher.Fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("exchange rate fetch failed, using fallback rates")
		fb := Fallback()
		fb.FetchedAt = s.now().UTC()
		return fb
	}
	if err := s.cache.Set(ctx, cacheKey, t, s.ttl); err != nil {
		log.Warn().Err(err).Msg("rates cache write failed")
	}
	return t
}

type Conversion struct {
	Amount   float64 `json:"amount"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Rate     float64 `json:"rate"`
	Result   float64 `json:"result"`
	Fallback bool    `json:"fallback"`
}

// Convert goes through the table base: amount / rates[from] * rates[to].
func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (*Conversion, error) {
	return Convert(s.Rates(ctx), amount, from, to)
}

func Convert(t Table, amount float64, from, to string) (*Conversion, error) {
	from, to = strings.ToUpper(strings.TrimSpace(from)), strings.ToUpper(strings.TrimSpace(to))
	rf, ok := lookup(t, from)
	if !ok {
		return nil, ErrUnknownCurrency
	}
	rt, ok := lookup(t, to)
	if !ok {
		return nil, ErrUnknownCurrency
	}

	r := rt / rf
	return &Conversion{
		Amount:   amount,
		From:     from,
		To:       to,
		Rate:     r,
		Result:   amount / rf * rt,
		Fallback: t.Fallback,
	}, nil
}

func lookup(t Table, code string) (float64, bool) {
	if code == t.Base {
		if r, ok := t.Rates[code]; ok && r > 0 {
			return r, true
		}
		return 1, true
	}
	r, ok := t.Rates[code]
	if !ok || r <= 0 || math.IsInf(r, 0) || math.IsNaN(r) {
		return 0, false
	}
	return r, true
}
