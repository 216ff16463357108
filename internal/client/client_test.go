package client

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"cargotrack/internal/api"
	"cargotrack/internal/db"
	"cargotrack/internal/identity"
	"cargotrack/internal/model"
	"cargotrack/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	database := db.NewTestDB(t)
	secret, err := store.GetSigningSecret(context.Background(), database)
	if err != nil {
		t.Fatalf("getting signing secret: %v", err)
	}

	svc := &identity.Local{
		DB:      database,
		Secret:  secret,
		BaseURL: "http://app.test",
		User:    model.User{ID: "user-1", Email: "u1@example.com"},
	}
	server := httptest.NewServer(api.NewRouter(database, svc, zap.NewNop()))
	t.Cleanup(server.Close)

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	if err := client.LoginDev(context.Background()); err != nil {
		t.Fatalf("logging in: %v", err)
	}
	return client
}

func TestLoginAndMe(t *testing.T) {
	client := newTestClient(t)

	user, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("fetching user: %v", err)
	}
	if user.ID != "user-1" || user.Email != "u1@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestMutationsRefreshList(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.Refresh(ctx); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}
	if len(client.Containers()) != 0 {
		t.Fatalf("expected empty cache, got %d", len(client.Containers()))
	}

	err := client.Create(ctx, model.CreateContainer{
		ContainerNumber: "MSKU1234567",
		DeparturePort:   "Santos",
		ArrivalPort:     "Rotterdam",
		Status:          model.StatusInTransit,
	})
	if err != nil {
		t.Fatalf("creating container: %v", err)
	}

	containers := client.Containers()
	if len(containers) != 1 {
		t.Fatalf("expected cache to hold 1 container after create, got %d", len(containers))
	}
	if containers[0].ContainerNumber != "MSKU1234567" {
		t.Errorf("unexpected container: %+v", containers[0])
	}

	status := model.StatusArrived
	if err := client.Update(ctx, containers[0].ID, model.UpdateContainer{Status: &status}); err != nil {
		t.Fatalf("updating container: %v", err)
	}
	if got := client.Containers()[0].Status; got != model.StatusArrived {
		t.Errorf("cache not refreshed after update: %q", got)
	}

	if err := client.Delete(ctx, containers[0].ID); err != nil {
		t.Fatalf("deleting container: %v", err)
	}
	if len(client.Containers()) != 0 {
		t.Error("cache not refreshed after delete")
	}
	if client.Err() != "" {
		t.Errorf("unexpected error state: %q", client.Err())
	}
}

func TestFailedMutationSetsErr(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	// Missing required fields.
	err := client.Create(ctx, model.CreateContainer{ContainerNumber: "MSKU1234567"})
	if err == nil {
		t.Fatal("expected create to fail")
	}
	if client.Err() == "" {
		t.Error("expected error state to be set")
	}
	if !strings.Contains(client.Err(), "validation failed") {
		t.Errorf("unexpected error message: %q", client.Err())
	}

	// A successful refresh clears it.
	if err := client.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if client.Err() != "" {
		t.Errorf("error state not cleared: %q", client.Err())
	}
}

func TestReport(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	date := "2027-01-15"
	if err := client.Create(ctx, model.CreateContainer{
		ContainerNumber:     "MSKU1234567",
		DeparturePort:       "Santos",
		ArrivalPort:         "Rotterdam",
		ExpectedArrivalDate: &date,
		Status:              model.StatusDeparted,
	}); err != nil {
		t.Fatalf("creating container: %v", err)
	}

	rep, err := client.Report(ctx)
	if err != nil {
		t.Fatalf("fetching report: %v", err)
	}
	if rep.Stats.Shipped != 1 || rep.Stats.Total != 1 {
		t.Errorf("unexpected stats: %+v", rep.Stats)
	}
	if len(rep.Shipped) != 1 {
		t.Fatalf("expected 1 shipped entry, got %d", len(rep.Shipped))
	}
}
