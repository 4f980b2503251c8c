// Package analytics computes the admin dashboard numbers: collection totals
// with month-over-month change, and the merged recent-activity feed.
package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"zawamu/models"
)

const (
	period     = 30 * 24 * time.Hour
	perSource  = 10
	feedLength = 15
)

type PropertySource interface {
	Count(ctx context.Context, featuredOnly bool, w models.Window) (int64, error)
	Latest(ctx context.Context, limit int64) ([]models.Property, error)
	LatestUpdated(ctx context.Context, limit int64) ([]models.Property, error)
}

type BlogSource interface {
	Count(ctx context.Context, w models.Window) (int64, error)
	Latest(ctx context.Context, limit int64) ([]models.Blog, error)
}

type ContactSource interface {
	Count(ctx context.Context, w models.Window) (int64, error)
	Latest(ctx context.Context, limit int64) ([]models.Contact, error)
}

type Service struct {
	properties PropertySource
	blogs      BlogSource
	contacts   ContactSource
}

func NewService(p PropertySource, b BlogSource, c ContactSource) *Service {
	return &Service{properties: p, blogs: b, contacts: c}
}

type Metrics struct {
	Properties     int64 `json:"properties"`
	ActiveListings int64 `json:"activeListings"`
	BlogPosts      int64 `json:"blogPosts"`
	Inquiries      int64 `json:"inquiries"`
}

type Stats struct {
	Totals         Metrics `json:"totals"`
	MonthOverMonth Metrics `json:"monthOverMonth"`
}

// PercentChange is the rounded relative change from previous to current.
// With no previous data it reports 100 when anything appeared and 0 otherwise.
func PercentChange(current, previous int64) int64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return roundHalfUp(float64(current-previous) / float64(previous) * 100)
}

// roundHalfUp rounds halves towards +Inf: 2.5 is 3 and -2.5 is -2.
func roundHalfUp(f float64) int64 {
	return int64(math.Floor(f + 0.5))
}

// Stats runs the twelve count queries concurrently. The first failing query
// cancels the rest and is returned.
func (s *Service) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	last := models.Window{Since: now.Add(-period)}
	prev := models.Window{Since: now.Add(-2 * period), Until: now.Add(-period)}
	all := models.Window{}

	var totals, current, previous Metrics

	g, ctx := errgroup.WithContext(ctx)
	count := func(dst *int64, fn func() (int64, error)) {
		g.Go(func() error {
			n, err := fn()
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	for _, q := range []struct {
		dst *Metrics
		w   models.Window
	}{{&totals, all}, {&current, last}, {&previous, prev}} {
		q := q
		count(&q.dst.Properties, func() (int64, error) { return s.properties.Count(ctx, false, q.w) })
		count(&q.dst.ActiveListings, func() (int64, error) { return s.properties.Count(ctx, true, q.w) })
		count(&q.dst.BlogPosts, func() (int64, error) { return s.blogs.Count(ctx, q.w) })
		count(&q.dst.Inquiries, func() (int64, error) { return s.contacts.Count(ctx, q.w) })
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Stats{
		Totals: totals,
		MonthOverMonth: Metrics{
			Properties:     PercentChange(current.Properties, previous.Properties),
			ActiveListings: PercentChange(current.ActiveListings, previous.ActiveListings),
			BlogPosts:      PercentChange(current.BlogPosts, previous.BlogPosts),
			Inquiries:      PercentChange(current.Inquiries, previous.Inquiries),
		},
	}, nil
}

// RecentActivity fetches the four event sources concurrently and merges them
// into one feed, newest first.
func (s *Service) RecentActivity(ctx context.Context) ([]models.Activity, error) {
	var created, updated []models.Property
	var blogs []models.Blog
	var contacts []models.Contact

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		created, err = s.properties.Latest(ctx, perSource)
		return err
	})
	g.Go(func() (err error) {
		updated, err = s.properties.LatestUpdated(ctx, perSource)
		return err
	})
	g.Go(func() (err error) {
		blogs, err = s.blogs.Latest(ctx, perSource)
		return err
	})
	g.Go(func() (err error) {
		contacts, err = s.contacts.Latest(ctx, perSource)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	events := make([]models.Activity, 0, len(created)+len(updated)+len(blogs)+len(contacts))
	for _, p := range capped(created) {
		events = append(events, models.Activity{Action: models.ActionPropertyListed, Subject: p.Title, Timestamp: p.CreatedAt})
	}
	for _, p := range capped(updated) {
		events = append(events, models.Activity{Action: models.ActionPropertyUpdated, Subject: p.Title, Timestamp: p.UpdatedAt})
	}
	for _, b := range capped(blogs) {
		events = append(events, models.Activity{Action: models.ActionBlogPublished, Subject: b.Title, Timestamp: b.CreatedAt})
	}
	for _, c := range capped(contacts) {
		events = append(events, models.Activity{Action: models.ActionInquiryReceived, Subject: c.Name, Timestamp: c.CreatedAt})
	}
	return Merge(events), nil
}

// Merge sorts events newest first and keeps the first fifteen.
// Ties keep their source order.
func Merge(events []models.Activity) []models.Activity {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	if len(events) > feedLength {
		events = events[:feedLength]
	}
	return events
}

func capped[T any](s []T) []T {
	if len(s) > perSource {
		return s[:perSource]
	}
	return s
}
