package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"growup-backend/models"
)

func newUser(name, email, phone string, income float64) models.User {
	u := models.User{Name: name, Email: email, PhoneNumber: phone, Income: income, Role: models.RoleUser}
	u.Stamp(time.Now())
	return u
}

func TestMemoryInsertFindRoundTrip(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryCollection[models.User](UsersCollection, "email")

	u := newUser("Ravi", "ravi@example.com", "111", 12.5)
	if err := users.InsertOne(ctx, &u); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := users.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Name != "Ravi" || got.Email != "ravi@example.com" || got.Income != 12.5 {
		t.Fatalf("unexpected user %+v", got)
	}
	if !got.CreatedOn.Equal(u.CreatedOn.Truncate(time.Millisecond)) {
		t.Fatalf("createdOn not preserved: %v vs %v", got.CreatedOn, u.CreatedOn)
	}

	if _, err := users.FindByID(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryUniqueFields(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryCollection[models.User](UsersCollection, "email")

	first := newUser("A", "same@example.com", "1", 0)
	second := newUser("B", "same@example.com", "2", 0)
	noEmail := newUser("C", "", "3", 0)
	alsoNoEmail := newUser("D", "", "4", 0)

	if err := users.InsertOne(ctx, &first); err != nil {
		t.Fatalf("insert first: %v", err)
	}
	err := users.InsertOne(ctx, &second)
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) || dup.Field != "email" || !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate on email, got %v", err)
	}
	if err := users.InsertOne(ctx, &noEmail); err != nil {
		t.Fatalf("insert without email: %v", err)
	}
	if err := users.InsertOne(ctx, &alsoNoEmail); err != nil {
		t.Fatalf("second insert without email must not collide: %v", err)
	}

	if _, err := users.UpdateByID(ctx, noEmail.ID, bson.M{"email": "same@example.com"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate on update, got %v", err)
	}
	n, _ := users.Count(ctx, Eq("email", "same@example.com"))
	if n != 1 {
		t.Fatalf("expected exactly one record with the email, got %d", n)
	}
}

func TestMemoryInsertManySkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryCollection[models.User](UsersCollection, "email")

	batch := []models.User{
		newUser("A", "a@example.com", "1", 0),
		newUser("B", "a@example.com", "2", 0),
		newUser("C", "c@example.com", "3", 0),
	}
	res, err := users.InsertMany(ctx, batch)
	if err != nil {
		t.Fatalf("insert many: %v", err)
	}
	if res.Inserted != 2 || res.Duplicates != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestMemoryFindSortSkipLimit(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryCollection[models.User](UsersCollection)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		u := newUser(string(rune('a'+i)), "", "", float64(i))
		u.CreatedOn = base.Add(time.Duration(i) * time.Hour)
		if err := users.InsertOne(ctx, &u); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := users.Find(ctx, All(), FindOptions{
		Skip:  1,
		Limit: 2,
		Sort:  []SortField{{Field: "createdOn", Desc: true}},
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 2 || got[0].Name != "d" || got[1].Name != "c" {
		t.Fatalf("unexpected window %+v", got)
	}

	past, err := users.Find(ctx, All(), FindOptions{Skip: 10, Limit: 2})
	if err != nil || len(past) != 0 {
		t.Fatalf("expected empty window past the end, got %d records, err %v", len(past), err)
	}
}

func TestMemoryUpdateManyIncrement(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryCollection[models.User](UsersCollection)
	a := newUser("A", "", "111", 0)
	b := newUser("B", "", "222", 50)
	c := newUser("C", "", "333", 7)
	for _, u := range []*models.User{&a, &b, &c} {
		if err := users.InsertOne(ctx, u); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	res, err := users.UpdateMany(ctx, In("phoneNumber", []string{"111", "222", "999"}), Update{Inc: bson.M{"income": 44.0}})
	if err != nil {
		t.Fatalf("update many: %v", err)
	}
	if res.Matched != 2 || res.Modified != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	for phone, want := range map[string]float64{"111": 44, "222": 94, "333": 7} {
		u, err := users.FindOne(ctx, Eq("phoneNumber", phone))
		if err != nil {
			t.Fatalf("find %s: %v", phone, err)
		}
		if u.Income != want {
			t.Fatalf("income of %s = %v, want %v", phone, u.Income, want)
		}
	}

	res, err = users.UpdateMany(ctx, All(), Update{Set: bson.M{"income": 7.0}})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if res.Matched != 3 || res.Modified != 2 {
		t.Fatalf("unchanged documents must not count as modified: %+v", res)
	}
}

func TestMemoryUpsert(t *testing.T) {
	ctx := context.Background()
	dates := NewMemoryCollection[models.RestartDate](RestartDatesCollection, "identifier")
	day := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	first, err := dates.Upsert(ctx, "identifier", models.RestartDateIdentifier,
		bson.M{"restartDate": day, "updatedOn": day},
		bson.M{"_id": primitive.NewObjectID(), "createdOn": day})
	if err != nil {
		t.Fatalf("upsert insert: %v", err)
	}
	second, err := dates.Upsert(ctx, "identifier", models.RestartDateIdentifier,
		bson.M{"restartDate": day.AddDate(0, 1, 0)},
		bson.M{"_id": primitive.NewObjectID(), "createdOn": day})
	if err != nil {
		t.Fatalf("upsert update: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("upsert must reuse the existing document")
	}
	if !second.RestartDate.Equal(day.AddDate(0, 1, 0)) || second.Identifier != models.RestartDateIdentifier {
		t.Fatalf("unexpected document %+v", second)
	}
	if n, _ := dates.Count(ctx, All()); n != 1 {
		t.Fatalf("expected one document, got %d", n)
	}
}

func TestMemoryAggregates(t *testing.T) {
	ctx := context.Background()
	regs := NewMemoryCollection[models.Registration](RegistrationsCollection)
	for _, code := range []string{"L1", "L1", "L2", "L3", "L1"} {
		r := models.Registration{LeaderCode: code, PortalName: "portal-" + code}
		r.Stamp(time.Now())
		if err := regs.InsertOne(ctx, &r); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	counts, err := regs.CountBy(ctx, "leaderCode", In("leaderCode", []string{"L1", "L2"}))
	if err != nil {
		t.Fatalf("count by: %v", err)
	}
	if counts["L1"] != 3 || counts["L2"] != 1 || counts["L3"] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}

	portals, err := regs.Distinct(ctx, "portalName", All())
	if err != nil || len(portals) != 3 {
		t.Fatalf("expected 3 distinct portals, got %v (%v)", portals, err)
	}

	txs := NewMemoryCollection[models.Transaction](TransactionsCollection)
	for _, amount := range []float64{10, 20.5} {
		tx := models.Transaction{Amount: amount}
		tx.Stamp(time.Now())
		_ = txs.InsertOne(ctx, &tx)
	}
	total, err := txs.Sum(ctx, "amount", All())
	if err != nil || total != 30.5 {
		t.Fatalf("expected sum 30.5, got %v (%v)", total, err)
	}
}

func TestPartialSet(t *testing.T) {
	set, err := PartialSet[models.Client]([]byte(`{"_id":"65f0a1b2c3d4e5f601234567","status":"CallCut","ownerNumber":["1","2"],"isApproved":false}`))
	if err != nil {
		t.Fatalf("partial set: %v", err)
	}
	if _, ok := set["_id"]; ok {
		t.Fatal("identity key must never be set")
	}
	if _, ok := set["name"]; ok {
		t.Fatal("fields absent from the body must not be set")
	}
	if set["status"] != "CallCut" || set["isApproved"] != false {
		t.Fatalf("unexpected set %v", set)
	}
	if owners, ok := set["ownerNumber"].(primitive.A); !ok || len(owners) != 2 {
		t.Fatalf("expected owner array, got %#v", set["ownerNumber"])
	}
}
