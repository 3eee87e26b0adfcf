package services

import (
	"context"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"growup-backend/auth"
	"growup-backend/database"
	"growup-backend/models"
	"growup-backend/pagination"
)

func seedUsers(t *testing.T, svc *Services, store *database.Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := svc.Users.Create(ctx, &models.User{
		Name: "Root", Email: "root@example.com", Password: "admin-pw", PhoneNumber: "0", Role: models.RoleAdmin, LeaderCode: "ADM",
	}); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	for i := 1; i <= 5; i++ {
		if _, err := svc.Users.Create(ctx, &models.User{
			Name:        fmt.Sprintf("User %d", i),
			Email:       fmt.Sprintf("user%d@example.com", i),
			Password:    "pw",
			PhoneNumber: fmt.Sprint(i),
			Role:        models.RoleUser,
			LeaderCode:  fmt.Sprintf("L%d", i),
		}); err != nil {
			t.Fatalf("create user %d: %v", i, err)
		}
	}
	// L1 has three registrations, L2 one, ADM two.
	for _, code := range []string{"L1", "L1", "L1", "L2", "ADM", "ADM", "ZZZ"} {
		if _, err := svc.Registrations.Create(ctx, &models.Registration{Name: "r", LeaderCode: code}); err != nil {
			t.Fatalf("create registration: %v", err)
		}
	}
}

func TestUserListExcludesAdminsAndCountsRegistrations(t *testing.T) {
	svc, store := newTestServices(t)
	seedUsers(t, svc, store)
	ctx := context.Background()

	page, err := svc.Users.List(ctx, UserQuery{}, pagination.Request{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalRecords != 5 || len(page.Records) != 5 {
		t.Fatalf("got %d of %d records, want 5 non-admin users", len(page.Records), page.TotalRecords)
	}
	want := map[string]int64{"L1": 3, "L2": 1, "L3": 0, "L4": 0, "L5": 0}
	for _, u := range page.Records {
		if u.Role == models.RoleAdmin {
			t.Errorf("admin %s listed", u.Email)
		}
		if u.Password != "" {
			t.Errorf("password of %s leaked", u.Email)
		}
		if u.RegisteredClientCount != want[u.LeaderCode] {
			t.Errorf("%s: registeredClientCount = %d, want %d", u.LeaderCode, u.RegisteredClientCount, want[u.LeaderCode])
		}
	}

	second, err := svc.Users.List(ctx, UserQuery{}, pagination.Request{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if second.TotalPages != 3 || len(second.Records) != 2 || second.CurrentPage != 2 {
		t.Fatalf("unexpected page %+v", second)
	}

	filtered, err := svc.Users.List(ctx, UserQuery{SearchQuery: "USER 3"}, pagination.Request{Page: 1, Limit: 8})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if filtered.TotalRecords != 1 || filtered.Records[0].LeaderCode != "L3" {
		t.Fatalf("unexpected search result %+v", filtered.Records)
	}

	n, err := svc.Users.CountNonAdmin(ctx)
	if err != nil || n != 5 {
		t.Fatalf("count non-admin = %d, %v", n, err)
	}
}

func TestUserPasswordsAreHashed(t *testing.T) {
	svc, store := newTestServices(t)
	ctx := context.Background()

	created, err := svc.Users.Create(ctx, &models.User{Name: "A", Email: "A@Example.com", Password: "s3cret", PhoneNumber: "1", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Password != "" || created.Email != "a@example.com" {
		t.Fatalf("unexpected created user %+v", created)
	}
	stored, err := store.Users.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !auth.CheckPasswordHash("s3cret", stored.Password) {
		t.Fatal("stored password does not verify")
	}

	if _, err := svc.Users.Update(ctx, created.ID.Hex(), bson.M{"password": "n3w"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	stored, _ = store.Users.FindByID(ctx, created.ID)
	if !auth.CheckPasswordHash("n3w", stored.Password) {
		t.Fatal("updated password does not verify")
	}
}

func TestUserCreateValidation(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	cases := []models.User{
		{Email: "a@x.io", Password: "p", PhoneNumber: "1", Role: models.RoleUser},
		{Name: "a", Password: "p", PhoneNumber: "1", Role: models.RoleUser},
		{Name: "a", Email: "a@x.io", PhoneNumber: "1", Role: models.RoleUser},
		{Name: "a", Email: "a@x.io", Password: "p", Role: models.RoleUser},
		{Name: "a", Email: "a@x.io", Password: "p", PhoneNumber: "1"},
		{Name: "a", Email: "a@x.io", Password: "p", PhoneNumber: "1", Role: "owner"},
	}
	for i, u := range cases {
		u := u
		if _, err := svc.Users.Create(ctx, &u); models.KindOf(err) != models.KindValidation {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestUserSelfServiceAndIncome(t *testing.T) {
	svc, store := newTestServices(t)
	seedUsers(t, svc, store)
	ctx := context.Background()

	u, err := svc.Users.ByLeaderCode(ctx, "L2")
	if err != nil || u == nil {
		t.Fatalf("by leader code: %v %v", u, err)
	}
	if missing, err := svc.Users.ByLeaderCode(ctx, "NOPE"); missing != nil || err != nil {
		t.Fatalf("missing leader code = %v, %v", missing, err)
	}

	toggled, err := svc.Users.ToggleStatus(ctx, u.ID.Hex())
	if err != nil || toggled.Status != models.UserStatusInactive {
		t.Fatalf("toggle: %+v %v", toggled, err)
	}
	toggled, _ = svc.Users.ToggleStatus(ctx, u.ID.Hex())
	if toggled.Status != models.UserStatusActive {
		t.Fatalf("second toggle left %s", toggled.Status)
	}

	name := "Renamed"
	updated, err := svc.Users.UpdateProfile(ctx, u.ID.Hex(), models.UserProfileUpdate{Name: &name})
	if err != nil || updated.Name != "Renamed" || updated.Email != "user2@example.com" {
		t.Fatalf("update profile: %+v %v", updated, err)
	}
	ifsc := "sbin0001"
	updated, err = svc.Users.UpdateBank(ctx, u.ID.Hex(), models.BankDetailsUpdate{IfscCode: &ifsc})
	if err != nil || updated.IfscCode != "SBIN0001" {
		t.Fatalf("update bank: %+v %v", updated, err)
	}
	if _, err := svc.Users.UpdateBank(ctx, u.ID.Hex(), models.BankDetailsUpdate{}); models.KindOf(err) != models.KindValidation {
		t.Fatalf("empty bank update accepted: %v", err)
	}
	if _, err := svc.Users.Me(ctx, "65f0a1b2c3d4e5f601234567"); models.KindOf(err) != models.KindNotFound {
		t.Fatalf("me for a missing user: %v", err)
	}

	if _, err := store.Users.UpdateMany(ctx, database.In("leaderCode", []string{"L1", "L2"}), database.Update{Inc: bson.M{"income": 25.5}}); err != nil {
		t.Fatal(err)
	}
	total, err := svc.Users.TotalIncome(ctx)
	if err != nil || total != 51 {
		t.Fatalf("total income = %v, %v", total, err)
	}
}
