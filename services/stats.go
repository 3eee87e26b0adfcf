package services

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"growup-backend/database"
	"growup-backend/models"
	"growup-backend/monitoring"
)

type StatsService struct {
	store  *database.Store
	logger *zap.Logger
}

func NewStatsService(store *database.Store, logger *zap.Logger) *StatsService {
	return &StatsService{store: store, logger: logger.With(zap.String("service", "stats"))}
}

func count[T any](coll database.Collection[T], filter database.Filter) func(context.Context) (float64, error) {
	if filter == nil {
		filter = database.All()
	}
	return func(ctx context.Context) (float64, error) {
		n, err := coll.Count(ctx, filter)
		return float64(n), err
	}
}

type subcount struct {
	name string
	run  func(context.Context) (float64, error)
	set  func(*models.AdminStats, float64)
}

// AdminStats runs every sub-count concurrently. A sub-count that fails is
// reported as zero, logged and listed in FailedCounts; it never fails the
// snapshot.
func (s *StatsService) AdminStats(ctx context.Context) *models.AdminStats {
	st := s.store
	tasks := []subcount{
		{"leads", count(st.Leads, nil), func(a *models.AdminStats, v float64) { a.Leads = int64(v) }},
		{"clients", count(st.Clients, nil), func(a *models.AdminStats, v float64) { a.Clients = int64(v) }},
		{"users", count(st.Users, nil), func(a *models.AdminStats, v float64) { a.Users = int64(v) }},
		{"linkClicks", count(st.LinkClicks, nil), func(a *models.AdminStats, v float64) { a.LinkClicks = int64(v) }},
		{"appLinks", count(st.AppLinks, nil), func(a *models.AdminStats, v float64) { a.AppLinks = int64(v) }},
		{"contacts", count(st.Contacts, nil), func(a *models.AdminStats, v float64) { a.Contacts = int64(v) }},
		{"joinLinks", count(st.JoinLinks, nil), func(a *models.AdminStats, v float64) { a.JoinLinks = int64(v) }},
		{"restartDates", count(st.RestartDates, nil), func(a *models.AdminStats, v float64) { a.RestartDates = int64(v) }},
		{"registrations", count(st.Registrations, nil), func(a *models.AdminStats, v float64) { a.Registrations = int64(v) }},
		{"transactions", count(st.Transactions, nil), func(a *models.AdminStats, v float64) { a.Transactions = int64(v) }},
		{"totalAmount", func(ctx context.Context) (float64, error) {
			return st.Transactions.Sum(ctx, "amount", database.All())
		}, func(a *models.AdminStats, v float64) { a.TotalAmount = v }},

		{"userStats.admin", count(st.Users, database.Eq("role", models.RoleAdmin)),
			func(a *models.AdminStats, v float64) { a.UserStats.Admin = int64(v) }},
		{"userStats.regularUsers", count(st.Users, database.Ne("role", models.RoleAdmin)),
			func(a *models.AdminStats, v float64) { a.UserStats.RegularUsers = int64(v) }},

		{"leadStats.new", count(st.Leads, database.Eq("status", models.LeadStatusNew)),
			func(a *models.AdminStats, v float64) { a.LeadStats.New = int64(v) }},
		{"leadStats.registered", count(st.Leads, database.Eq("status", models.LeadStatusRegistered)),
			func(a *models.AdminStats, v float64) { a.LeadStats.Registered = int64(v) }},
		{"leadStats.notInterested", count(st.Leads, database.Eq("status", models.LeadStatusNotInterested)),
			func(a *models.AdminStats, v float64) { a.LeadStats.NotInterested = int64(v) }},

		{"clientStats.approved", count(st.Clients, database.Eq("isApproved", true)),
			func(a *models.AdminStats, v float64) { a.ClientStats.Approved = int64(v) }},
		{"clientStats.pending", count(st.Clients, database.Ne("isApproved", true)),
			func(a *models.AdminStats, v float64) { a.ClientStats.Pending = int64(v) }},
	}

	stats := &models.AdminStats{FailedCounts: []string{}}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, t := range tasks {
		wg.Add(1)
		go func(t subcount) {
			defer wg.Done()
			v, err := t.run(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("admin stats sub-count failed, reporting zero",
					zap.String("count", t.name), zap.Error(err))
				monitoring.StatsSubcountFailures.WithLabelValues(t.name).Inc()
				stats.FailedCounts = append(stats.FailedCounts, t.name)
				return
			}
			t.set(stats, v)
		}(t)
	}
	wg.Wait()

	sort.Strings(stats.FailedCounts)
	stats.Partial = len(stats.FailedCounts) > 0
	return stats
}
