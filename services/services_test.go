package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"growup-backend/config"
	"growup-backend/database"
	"growup-backend/models"
	"growup-backend/pagination"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiresIn:  time.Hour,
		CommissionCut: 0.12,
		SiteAppName:   "site",
	}
}

func newTestServices(t *testing.T) (*Services, *database.Store) {
	t.Helper()
	store := database.NewMemoryStore()
	return New(store, testConfig(), zap.NewNop()), store
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	created, err := svc.Clients.Create(ctx, &models.Client{
		Name:        "Asha",
		Email:       "asha@example.com",
		PhoneNumber: "9000000001",
		PortalName:  "alpha",
		OwnerNumber: []string{"111"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := svc.Clients.Get(ctx, created.ID.Hex())
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if got.Name != "Asha" || got.Email != "asha@example.com" || got.PortalName != "alpha" {
		t.Errorf("fields not preserved: %+v", got)
	}
	if got.Status != models.ClientStatusNew || got.IsApproved {
		t.Errorf("defaults not applied: status=%q approved=%v", got.Status, got.IsApproved)
	}
	if got.CreatedOn.IsZero() || got.UpdatedOn.IsZero() || len(got.OwnerName) != 0 {
		t.Errorf("server fields not assigned: %+v", got)
	}
}

func TestMissingRecordsAreNotErrors(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	for _, id := range []string{"65f0a1b2c3d4e5f601234567", "garbage"} {
		if got, err := svc.Leads.Get(ctx, id); got != nil || err != nil {
			t.Errorf("get %q = %v, %v", id, got, err)
		}
		if got, err := svc.Leads.Update(ctx, id, nil); got != nil || err != nil {
			t.Errorf("update %q = %v, %v", id, got, err)
		}
		if got, err := svc.Leads.Delete(ctx, id); got != nil || err != nil {
			t.Errorf("delete %q = %v, %v", id, got, err)
		}
	}
}

func TestUniqueKeysConflict(t *testing.T) {
	svc, store := newTestServices(t)
	ctx := context.Background()

	user := func() *models.User {
		return &models.User{Name: "A", Email: "a@example.com", Password: "pw", PhoneNumber: "1", Role: models.RoleUser}
	}
	if _, err := svc.Users.Create(ctx, user()); err != nil {
		t.Fatalf("first user: %v", err)
	}
	_, err := svc.Users.Create(ctx, user())
	if models.KindOf(err) != models.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if n, _ := store.Users.Count(ctx, database.Eq("email", "a@example.com")); n != 1 {
		t.Errorf("found %d users with the email, want 1", n)
	}

	if _, err := svc.Links.Create(ctx, &models.Link{PortalName: "alpha", Link: "https://a"}); err != nil {
		t.Fatalf("first link: %v", err)
	}
	_, err = svc.Links.Create(ctx, &models.Link{PortalName: "alpha", Link: "https://b"})
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Kind != models.KindConflict || appErr.Message != "The portal name 'alpha' is already in use." {
		t.Fatalf("unexpected link conflict %v", err)
	}

	if _, err := svc.AppLinks.Create(ctx, AppLinkInput{AppName: "x", Password: "p", Link: "https://x"}); err != nil {
		t.Fatalf("first app link: %v", err)
	}
	_, err = svc.AppLinks.Create(ctx, AppLinkInput{AppName: "x", Password: "q", Link: "https://y"})
	if models.KindOf(err) != models.KindConflict {
		t.Fatalf("expected app link conflict, got %v", err)
	}
}

func TestCreateManyAndDeleteMany(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	res, err := svc.Clients.CreateMany(ctx, []models.Client{
		{Name: "a", Email: "a@x.io"},
		{Name: "b", Email: "b@x.io"},
		{Name: "dup", Email: "a@x.io"},
	})
	if err != nil {
		t.Fatalf("create many: %v", err)
	}
	if res.Inserted != 2 || res.Duplicates != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := svc.Clients.CreateMany(ctx, nil); models.KindOf(err) != models.KindValidation {
		t.Fatalf("empty bulk insert: %v", err)
	}

	page, err := svc.Clients.List(ctx, ClientQuery{}, pagination.Request{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := []string{}
	for _, c := range page.Records {
		ids = append(ids, c.ID.Hex())
	}
	if _, err := svc.Clients.DeleteMany(ctx, append([]string{"bad"}, ids...)); models.KindOf(err) != models.KindValidation {
		t.Fatalf("invalid id accepted: %v", err)
	}
	n, err := svc.Clients.DeleteMany(ctx, ids)
	if err != nil || n != 2 {
		t.Fatalf("delete many = %d, %v", n, err)
	}
}

func TestClientsByOwnerAndPortals(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	for _, c := range []models.Client{
		{Name: "a", PortalName: "alpha", OwnerNumber: []string{"111", "222"}},
		{Name: "b", PortalName: "beta", OwnerNumber: []string{"111"}},
		{Name: "c", PortalName: "alpha", OwnerNumber: []string{"111"}},
		{Name: "d", PortalName: "", OwnerNumber: []string{"333"}},
	} {
		c := c
		if _, err := svc.Clients.Create(ctx, &c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	groups, err := svc.Clients.ByOwner(ctx, "111")
	if err != nil {
		t.Fatalf("by owner: %v", err)
	}
	counts := map[string]int{}
	for _, g := range groups {
		counts[g.PortalName] = g.Count
		if g.Count != len(g.Clients) {
			t.Errorf("group %s count %d but %d clients", g.PortalName, g.Count, len(g.Clients))
		}
	}
	if len(groups) != 2 || counts["alpha"] != 2 || counts["beta"] != 1 {
		t.Errorf("unexpected groups %v", counts)
	}

	names, err := svc.Clients.PortalNames(ctx)
	if err != nil {
		t.Fatalf("portal names: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("portal names = %v", names)
	}
}

func TestCountByDate(t *testing.T) {
	svc, store := newTestServices(t)
	ctx := context.Background()

	for _, created := range []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	} {
		c := &models.Client{Name: "c"}
		c.Stamp(created)
		if err := store.Clients.InsertOne(ctx, c); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	n, err := svc.Clients.CountByDate(ctx, time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	if err != nil || n != 2 {
		t.Fatalf("count by date = %d, %v; want 2", n, err)
	}
	if _, err := svc.Clients.CountByDate(ctx, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)); models.KindOf(err) != models.KindValidation {
		t.Fatalf("reversed range accepted: %v", err)
	}
}

func TestDeleteAllData(t *testing.T) {
	svc, store := newTestServices(t)
	ctx := context.Background()

	for i, phone := range []string{"1", "2", "3"} {
		u := &models.User{Name: phone, PhoneNumber: phone, Income: float64(i * 10)}
		u.Stamp(fixedNow())
		if err := store.Users.InsertOne(ctx, u); err != nil {
			t.Fatalf("insert user: %v", err)
		}
	}
	if _, err := svc.Clients.Create(ctx, &models.Client{Name: "c"}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.Leads.Create(ctx, &models.Lead{Name: "l"}); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := svc.Admin.DeleteAllData(ctx)
	if err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if summary.UsersIncomeCleared != 3 || summary.ClientsDeleted != 1 || summary.LeadsDeleted != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	total, _ := svc.Users.TotalIncome(ctx)
	if total != 0 {
		t.Errorf("income left after clear: %v", total)
	}
	if n, _ := store.Users.Count(ctx, database.All()); n != 3 {
		t.Errorf("users deleted: %d left", n)
	}
}
