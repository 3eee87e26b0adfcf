package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"growup-backend/database"
	"growup-backend/models"
	"growup-backend/monitoring"
)

// CommissionService credits a client's owners with their share of a
// commission, at most once per client.
type CommissionService struct {
	clients database.Collection[models.Client]
	users   database.Collection[models.User]
	cut     float64
	dedupe  bool
	logger  *zap.Logger
	now     func() time.Time
}

func NewCommissionService(clients database.Collection[models.Client], users database.Collection[models.User], cut float64, dedupe bool, logger *zap.Logger) *CommissionService {
	return &CommissionService{
		clients: clients,
		users:   users,
		cut:     cut,
		dedupe:  dedupe,
		logger:  logger.With(zap.String("service", "commission")),
		now:     time.Now,
	}
}

// ValidCommission reports whether amount can be distributed.
func ValidCommission(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

// Distribute pays total, less the platform cut, to the owners of the client
// in equal shares. The client is claimed by flipping isApproved from false to
// true before any income moves; a second call finds nothing to claim and
// fails with Conflict. If crediting fails before any owner is paid the claim
// is released; after a partial credit it is kept.
func (s *CommissionService) Distribute(ctx context.Context, clientID string, total float64) (*models.CommissionSummary, error) {
	if !ValidCommission(total) {
		return nil, s.reject("invalid", models.NewValidationError("commission",
			"A valid, positive commission amount is required in the request body."))
	}

	oid, ok := parseID(clientID)
	if !ok {
		return nil, s.reject("not_found", models.NewNotFoundError("Client not found."))
	}
	client, err := s.clients.FindByID(ctx, oid)
	if errors.Is(err, database.ErrNotFound) {
		return nil, s.reject("not_found", models.NewNotFoundError("Client not found."))
	}
	if err != nil {
		s.logger.Error("failed to fetch client", zap.String("clientId", clientID), zap.Error(err))
		return nil, s.reject("error", models.NewInternalError("An unexpected error occurred.", err))
	}

	owners := client.OwnerNumber
	if s.dedupe {
		owners = unique(owners)
	}
	if len(owners) == 0 {
		return nil, s.reject("no_owners", models.NewUnprocessableError("This client has no owners to distribute commission to."))
	}

	claim, err := s.clients.UpdateOne(ctx,
		database.And(database.Eq("_id", oid), database.Ne("isApproved", true)),
		database.Update{Set: bson.M{"isApproved": true, "updatedOn": s.now()}})
	if err != nil {
		s.logger.Error("failed to claim client for commission", zap.String("clientId", clientID), zap.Error(err))
		return nil, s.reject("error", models.NewInternalError("An unexpected error occurred.", err))
	}
	if claim.Matched == 0 {
		return nil, s.reject("conflict", models.NewConflictError("isApproved", "Commission has already been distributed for this client."))
	}

	net := total * (1 - s.cut)
	share := net / float64(len(owners))

	var modified int64
	var credited []string
	for _, g := range groupByMultiplicity(owners) {
		res, err := s.users.UpdateMany(ctx,
			database.In("phoneNumber", g.phones),
			database.Update{Inc: bson.M{"income": share * float64(g.times)}})
		if err != nil {
			if len(credited) == 0 {
				s.release(oid)
				s.logger.Error("failed to credit owners, claim released",
					zap.String("clientId", clientID), zap.Strings("owners", g.phones), zap.Error(err))
			} else {
				// Some owners already hold their share; the claim stays so a
				// retry cannot pay them again.
				s.logger.Error("commission partially credited, manual reconciliation required",
					zap.String("clientId", clientID),
					zap.Float64("share", share),
					zap.Strings("credited", credited),
					zap.Strings("failed", g.phones),
					zap.Error(err))
			}
			return nil, s.reject("error", models.NewInternalError("An unexpected error occurred.", err))
		}
		modified += res.Modified
		credited = append(credited, g.phones...)
	}

	monitoring.CommissionDistributions.WithLabelValues("success").Inc()
	monitoring.CommissionPaidAmount.Add(net)
	s.logger.Info("commission distributed",
		zap.String("clientId", clientID),
		zap.Float64("total", total),
		zap.Float64("share", share),
		zap.Int("owners", len(owners)),
		zap.Int64("credited", modified))

	return &models.CommissionSummary{
		Message:           fmt.Sprintf("Commission of %.2f distributed among %d owners.", net, len(owners)),
		PaidPerOwner:      fmt.Sprintf("%.2f", share),
		OwnersPaidCount:   modified,
		TotalOwnersInList: len(owners),
	}, nil
}

// release hands the claim back so the distribution can be retried. It runs
// detached from the request context, which may already be done.
func (s *CommissionService) release(id interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.clients.UpdateOne(ctx, database.Eq("_id", id),
		database.Update{Set: bson.M{"isApproved": false, "updatedOn": s.now()}})
	if err != nil {
		s.logger.Error("failed to release commission claim", zap.Any("clientId", id), zap.Error(err))
	}
}

func (s *CommissionService) reject(result string, err *models.AppError) error {
	monitoring.CommissionDistributions.WithLabelValues(result).Inc()
	if err.Kind != models.KindInternal {
		s.logger.Warn("commission distribution rejected", zap.String("result", result), zap.String("reason", err.Message))
	}
	return err
}

type ownerGroup struct {
	times  int
	phones []string
}

// groupByMultiplicity buckets phone numbers by how often they occur, so each
// bucket is credited with one bulk increment of share times its multiplicity.
func groupByMultiplicity(phones []string) []ownerGroup {
	counts := map[string]int{}
	order := []string{}
	for _, p := range phones {
		if counts[p] == 0 {
			order = append(order, p)
		}
		counts[p]++
	}
	byTimes := map[int][]string{}
	for _, p := range order {
		byTimes[counts[p]] = append(byTimes[counts[p]], p)
	}
	groups := make([]ownerGroup, 0, len(byTimes))
	for times, ps := range byTimes {
		groups = append(groups, ownerGroup{times: times, phones: ps})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].times < groups[j].times })
	return groups
}

func unique(values []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
