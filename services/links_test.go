package services

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"growup-backend/models"
)

func TestLinks(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	alpha, err := svc.Links.Create(ctx, &models.Link{PortalName: "alpha", Link: "https://a"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Links.Create(ctx, &models.Link{PortalName: "beta", Link: "https://b"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Links.ByPortal(ctx, "alpha")
	if err != nil || got.Link != "https://a" {
		t.Fatalf("by portal: %+v %v", got, err)
	}
	if _, err := svc.Links.ByPortal(ctx, "gamma"); models.KindOf(err) != models.KindNotFound {
		t.Fatalf("missing portal: %v", err)
	}

	if _, err := svc.Links.Update(ctx, alpha.ID.Hex(), bson.M{}); models.KindOf(err) != models.KindValidation {
		t.Fatalf("empty update accepted: %v", err)
	}
	if _, err := svc.Links.Update(ctx, alpha.ID.Hex(), bson.M{"portalName": "beta"}); models.KindOf(err) != models.KindConflict {
		t.Fatalf("rename onto an existing portal: %v", err)
	}
	if _, err := svc.Links.Update(ctx, "65f0a1b2c3d4e5f601234567", bson.M{"link": "x"}); models.KindOf(err) != models.KindNotFound {
		t.Fatalf("update of a missing link: %v", err)
	}
	updated, err := svc.Links.Update(ctx, alpha.ID.Hex(), bson.M{"link": "https://a2"})
	if err != nil || updated.Link != "https://a2" || updated.PortalName != "alpha" {
		t.Fatalf("update: %+v %v", updated, err)
	}

	all, err := svc.Links.All(ctx)
	if err != nil || len(all) != 2 || all[0].PortalName != "alpha" {
		t.Fatalf("all: %+v %v", all, err)
	}
}

func TestAppLinks(t *testing.T) {
	svc, store := newTestServices(t)
	ctx := context.Background()

	created, err := svc.AppLinks.Create(ctx, AppLinkInput{AppName: "alpha", Password: "pw", Link: "https://a"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stored, _ := store.AppLinks.FindByID(ctx, created.ID)
	if stored.Password == "pw" || stored.Password == "" {
		t.Fatalf("password stored as %q", stored.Password)
	}

	access, err := svc.AppLinks.GetLink(ctx, "alpha", "pw")
	if err != nil || access.Link != "https://a" {
		t.Fatalf("get link: %+v %v", access, err)
	}
	if _, err := svc.AppLinks.GetLink(ctx, "alpha", "nope"); models.KindOf(err) != models.KindAuthentication {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := svc.AppLinks.GetLink(ctx, "", ""); models.KindOf(err) != models.KindValidation {
		t.Fatalf("missing credentials: %v", err)
	}

	if _, err := svc.AppLinks.Update(ctx, created.ID.Hex(), AppLinkInput{Link: "https://a2"}); err != nil {
		t.Fatalf("update link only: %v", err)
	}
	if _, err := svc.AppLinks.GetLink(ctx, "alpha", "pw"); err != nil {
		t.Fatalf("password lost on link update: %v", err)
	}
	if _, err := svc.AppLinks.Update(ctx, created.ID.Hex(), AppLinkInput{Password: "new"}); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if _, err := svc.AppLinks.GetLink(ctx, "alpha", "new"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}

	if _, err := svc.AppLinks.Create(ctx, AppLinkInput{AppName: "beta", Password: "pw", Link: "https://b"}); err != nil {
		t.Fatal(err)
	}
	_, err = svc.AppLinks.Update(ctx, created.ID.Hex(), AppLinkInput{AppName: "beta"})
	if appErr, ok := err.(*models.AppError); !ok || appErr.Message != "The app name 'beta' is already in use." {
		t.Fatalf("rename conflict: %v", err)
	}
}

func TestJoinLinks(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	jl, err := svc.JoinLinks.Create(ctx, &models.JoinLink{AppName: "whatsapp", Link: "https://chat"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.JoinLinks.UpdateLink(ctx, jl.ID.Hex(), ""); models.KindOf(err) != models.KindValidation {
		t.Fatalf("empty link accepted: %v", err)
	}
	if _, err := svc.JoinLinks.UpdateLink(ctx, jl.ID.Hex(), "https://chat2"); err != nil {
		t.Fatalf("update: %v", err)
	}
	access, err := svc.JoinLinks.GetLink(ctx, "whatsapp")
	if err != nil || access.Link != "https://chat2" {
		t.Fatalf("get link: %+v %v", access, err)
	}
	if _, err := svc.JoinLinks.GetLink(ctx, "telegram"); models.KindOf(err) != models.KindAuthentication {
		t.Fatalf("unknown app: %v", err)
	}
}
