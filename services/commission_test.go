package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"growup-backend/database"
	"growup-backend/models"
)

func nearly(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

type commissionFixture struct {
	store  *database.Store
	svc    *CommissionService
	client *models.Client
}

func newCommissionFixture(t *testing.T, owners []string, incomes map[string]float64) commissionFixture {
	t.Helper()
	ctx := context.Background()
	store := database.NewMemoryStore()

	for phone, income := range incomes {
		u := &models.User{Name: "owner " + phone, PhoneNumber: phone, Income: income, Role: models.RoleUser}
		u.Stamp(fixedNow())
		if err := store.Users.InsertOne(ctx, u); err != nil {
			t.Fatalf("insert user: %v", err)
		}
	}
	c := &models.Client{Name: "client", OwnerNumber: owners}
	c.Stamp(fixedNow())
	if err := store.Clients.InsertOne(ctx, c); err != nil {
		t.Fatalf("insert client: %v", err)
	}
	return commissionFixture{
		store:  store,
		svc:    NewCommissionService(store.Clients, store.Users, 0.12, false, zap.NewNop()),
		client: c,
	}
}

func (f commissionFixture) income(t *testing.T, phone string) float64 {
	t.Helper()
	u, err := f.store.Users.FindOne(context.Background(), database.Eq("phoneNumber", phone))
	if err != nil {
		t.Fatalf("find user %s: %v", phone, err)
	}
	return u.Income
}

func (f commissionFixture) approved(t *testing.T) bool {
	t.Helper()
	c, err := f.store.Clients.FindByID(context.Background(), f.client.ID)
	if err != nil {
		t.Fatalf("find client: %v", err)
	}
	return c.IsApproved
}

func TestDistributeExample(t *testing.T) {
	f := newCommissionFixture(t, []string{"111", "222"}, map[string]float64{"111": 0, "222": 50, "333": 7})

	summary, err := f.svc.Distribute(context.Background(), f.client.ID.Hex(), 100)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if summary.PaidPerOwner != "44.00" || summary.OwnersPaidCount != 2 || summary.TotalOwnersInList != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if got := f.income(t, "111"); !nearly(got, 44) {
		t.Errorf("111 income = %v, want 44", got)
	}
	if got := f.income(t, "222"); !nearly(got, 94) {
		t.Errorf("222 income = %v, want 94", got)
	}
	if got := f.income(t, "333"); got != 7 {
		t.Errorf("unreferenced user changed to %v", got)
	}
	if !f.approved(t) {
		t.Error("client not approved")
	}
}

func TestDistributeSplitsNetEvenly(t *testing.T) {
	owners := []string{"1", "2", "3", "4", "5", "6", "7"}
	incomes := map[string]float64{}
	for _, p := range owners {
		incomes[p] = 10
	}
	f := newCommissionFixture(t, owners, incomes)

	total := 1234.56
	if _, err := f.svc.Distribute(context.Background(), f.client.ID.Hex(), total); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	var credited float64
	for _, p := range owners {
		got := f.income(t, p) - 10
		if !nearly(got, total*0.88/7) {
			t.Errorf("owner %s got %v, want %v", p, got, total*0.88/7)
		}
		credited += got
	}
	if math.Abs(credited-total*0.88) > 1e-6 {
		t.Errorf("credited %v in total, want %v", credited, total*0.88)
	}
}

func TestDistributeNoOwners(t *testing.T) {
	f := newCommissionFixture(t, []string{}, map[string]float64{"111": 5})

	_, err := f.svc.Distribute(context.Background(), f.client.ID.Hex(), 100)
	if models.KindOf(err) != models.KindUnprocessable {
		t.Fatalf("expected unprocessable, got %v", err)
	}
	if f.approved(t) {
		t.Error("client approved without owners")
	}
	if got := f.income(t, "111"); got != 5 {
		t.Errorf("income changed to %v", got)
	}
}

func TestDistributeRejectsInvalidInput(t *testing.T) {
	f := newCommissionFixture(t, []string{"111"}, map[string]float64{"111": 0})
	ctx := context.Background()

	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err := f.svc.Distribute(ctx, f.client.ID.Hex(), amount)
		if models.KindOf(err) != models.KindValidation {
			t.Errorf("amount %v: expected validation error, got %v", amount, err)
		}
	}
	for _, id := range []string{"nope", "65f0a1b2c3d4e5f601234567"} {
		_, err := f.svc.Distribute(ctx, id, 100)
		if models.KindOf(err) != models.KindNotFound {
			t.Errorf("id %q: expected not found, got %v", id, err)
		}
	}
	if f.approved(t) || f.income(t, "111") != 0 {
		t.Error("rejected calls mutated state")
	}
}

func TestDistributeOnlyOnce(t *testing.T) {
	f := newCommissionFixture(t, []string{"111"}, map[string]float64{"111": 0})
	ctx := context.Background()

	if _, err := f.svc.Distribute(ctx, f.client.ID.Hex(), 100); err != nil {
		t.Fatalf("first distribute: %v", err)
	}
	_, err := f.svc.Distribute(ctx, f.client.ID.Hex(), 100)
	if models.KindOf(err) != models.KindConflict {
		t.Fatalf("expected conflict on second payout, got %v", err)
	}
	if got := f.income(t, "111"); !nearly(got, 88) {
		t.Errorf("income = %v, want a single payout of 88", got)
	}
}

func TestDistributeDuplicateOwners(t *testing.T) {
	owners := []string{"111", "111", "222"}

	f := newCommissionFixture(t, owners, map[string]float64{"111": 0, "222": 0})
	summary, err := f.svc.Distribute(context.Background(), f.client.ID.Hex(), 300)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if summary.TotalOwnersInList != 3 || summary.PaidPerOwner != "88.00" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if got := f.income(t, "111"); !nearly(got, 176) {
		t.Errorf("duplicated owner got %v, want two shares", got)
	}
	if got := f.income(t, "222"); !nearly(got, 88) {
		t.Errorf("222 got %v, want 88", got)
	}

	deduped := newCommissionFixture(t, owners, map[string]float64{"111": 0, "222": 0})
	deduped.svc.dedupe = true
	summary, err = deduped.svc.Distribute(context.Background(), deduped.client.ID.Hex(), 300)
	if err != nil {
		t.Fatalf("distribute deduped: %v", err)
	}
	if summary.TotalOwnersInList != 2 || summary.PaidPerOwner != "132.00" {
		t.Fatalf("unexpected deduped summary %+v", summary)
	}
	if got := deduped.income(t, "111"); !nearly(got, 132) {
		t.Errorf("deduped owner got %v, want 132", got)
	}
}

func TestDistributeCountsOnlyMatchedUsers(t *testing.T) {
	f := newCommissionFixture(t, []string{"111", "999"}, map[string]float64{"111": 0})

	summary, err := f.svc.Distribute(context.Background(), f.client.ID.Hex(), 100)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if summary.OwnersPaidCount != 1 || summary.TotalOwnersInList != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

type failingUpdates struct {
	database.Collection[models.User]
}

func (failingUpdates) UpdateMany(context.Context, database.Filter, database.Update) (database.UpdateResult, error) {
	return database.UpdateResult{}, errors.New("connection reset")
}

func TestDistributeReleasesClaimOnFailure(t *testing.T) {
	f := newCommissionFixture(t, []string{"111"}, map[string]float64{"111": 0})
	svc := NewCommissionService(f.store.Clients, failingUpdates{f.store.Users}, 0.12, false, zap.NewNop())

	_, err := svc.Distribute(context.Background(), f.client.ID.Hex(), 100)
	if models.KindOf(err) != models.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if f.approved(t) {
		t.Fatal("claim was not released")
	}

	if _, err := f.svc.Distribute(context.Background(), f.client.ID.Hex(), 100); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

type failNthUpdate struct {
	database.Collection[models.User]
	calls  *int
	failOn int
}

func (f failNthUpdate) UpdateMany(ctx context.Context, filter database.Filter, update database.Update) (database.UpdateResult, error) {
	*f.calls++
	if *f.calls == f.failOn {
		return database.UpdateResult{}, errors.New("connection reset")
	}
	return f.Collection.UpdateMany(ctx, filter, update)
}

func TestDistributeKeepsClaimAfterPartialCredit(t *testing.T) {
	f := newCommissionFixture(t, []string{"111", "222", "222"}, map[string]float64{"111": 0, "222": 0})
	calls := 0
	svc := NewCommissionService(f.store.Clients, failNthUpdate{f.store.Users, &calls, 2}, 0.12, false, zap.NewNop())

	_, err := svc.Distribute(context.Background(), f.client.ID.Hex(), 300)
	if models.KindOf(err) != models.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if !f.approved(t) {
		t.Fatal("claim released after owners were credited")
	}
	if got := f.income(t, "111"); !nearly(got, 88) {
		t.Fatalf("111 income = %v, want 88", got)
	}

	_, err = f.svc.Distribute(context.Background(), f.client.ID.Hex(), 300)
	if models.KindOf(err) != models.KindConflict {
		t.Fatalf("expected conflict on retry, got %v", err)
	}
	if got := f.income(t, "111"); !nearly(got, 88) {
		t.Errorf("111 paid twice: income = %v", got)
	}
	if got := f.income(t, "222"); got != 0 {
		t.Errorf("222 income = %v, want 0", got)
	}
}

func TestGroupByMultiplicity(t *testing.T) {
	groups := groupByMultiplicity([]string{"a", "b", "a", "c", "a", "b"})
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	want := []struct {
		times int
		phone string
	}{{1, "c"}, {2, "b"}, {3, "a"}}
	for i, w := range want {
		g := groups[i]
		if g.times != w.times || len(g.phones) != 1 || g.phones[0] != w.phone {
			t.Errorf("group %d = %+v, want %d x %s", i, g, w.times, w.phone)
		}
	}
}
