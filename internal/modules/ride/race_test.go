// README: Concurrency tests for the accept race (run with -race).
package ride

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ummana/internal/types"
)

func TestConcurrentAcceptSameRide(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	rideID := seedPendingRide(t, store, []CandidateDriver{
		{ID: "d0"}, {ID: "d1"}, {ID: "d2"}, {ID: "d3"}, {ID: "d4"},
	})

	const attempts = 5
	var wg sync.WaitGroup
	type result struct {
		driver types.ID
		won    bool
		err    error
	}
	results := make(chan result, attempts)

	for i := 0; i < attempts; i++ {
		driverID := types.ID(fmt.Sprintf("d%d", i))
		wg.Add(1)
		go func(did types.ID) {
			defer wg.Done()
			won, err := store.AcceptCAS(ctx, rideID, did, time.Now(), nil)
			results <- result{driver: did, won: won, err: err}
		}(driverID)
	}

	wg.Wait()
	close(results)

	winners := 0
	var winner types.ID
	for res := range results {
		if res.err != nil {
			t.Fatalf("accept %s: %v", res.driver, res.err)
		}
		if res.won {
			winners++
			winner = res.driver
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly 1 winning accept, got %d", winners)
	}

	r, err := store.Get(ctx, rideID)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	if r.Status != StatusAccepted {
		t.Fatalf("status = %s, want accepted", r.Status)
	}
	if r.AcceptedBy == nil || *r.AcceptedBy != winner {
		t.Fatalf("acceptedBy = %v, want %s", r.AcceptedBy, winner)
	}
}

func TestDeclineThenAccept(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	rideID := seedPendingRide(t, store, []CandidateDriver{{ID: "dA"}, {ID: "dB"}})

	if err := store.AppendDecline(ctx, rideID, "dA", time.Now()); err != nil {
		t.Fatalf("decline: %v", err)
	}
	r, err := store.Get(ctx, rideID)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	if r.Status != StatusPending {
		t.Fatalf("decline changed status to %s", r.Status)
	}
	if len(r.DeclinedDrivers) != 1 || r.DeclinedDrivers[0].DriverID != "dA" {
		t.Fatalf("declines = %+v, want dA", r.DeclinedDrivers)
	}

	won, err := store.AcceptCAS(ctx, rideID, "dB", time.Now(), nil)
	if err != nil || !won {
		t.Fatalf("accept after decline: won=%v err=%v", won, err)
	}
	r, err = store.Get(ctx, rideID)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	if r.Status != StatusAccepted || r.AcceptedBy == nil || *r.AcceptedBy != "dB" {
		t.Fatalf("final ride = status %s acceptedBy %v, want accepted by dB", r.Status, r.AcceptedBy)
	}
}

func TestUpdateStatusCASDetectsConcurrentChange(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	rideID := seedPendingRide(t, store, []CandidateDriver{{ID: "d1"}})

	won, err := store.AcceptCAS(ctx, rideID, "d1", time.Now(), nil)
	if err != nil || !won {
		t.Fatalf("accept: won=%v err=%v", won, err)
	}

	// Stale version must not apply.
	ok, err := store.UpdateStatusCAS(ctx, rideID, StatusAccepted, StatusEnRouteToPickup, 0)
	if err != nil {
		t.Fatalf("cas: %v", err)
	}
	if ok {
		t.Fatal("stale status_version should not win the CAS")
	}

	r, err := store.Get(ctx, rideID)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	ok, err = store.UpdateStatusCAS(ctx, rideID, r.Status, StatusEnRouteToPickup, r.StatusVersion)
	if err != nil || !ok {
		t.Fatalf("current-version cas: ok=%v err=%v", ok, err)
	}
}

func seedPendingRide(t *testing.T, store *Store, candidates []CandidateDriver) types.ID {
	t.Helper()
	ctx := context.Background()

	agentID := types.ID("agent-" + t.Name())
	_, err := store.db.Exec(ctx, `
		INSERT INTO chips_agents (id, first_name, last_name, phone_number, username)
		VALUES ($1, 'Amina', 'Bello', $2, 'amina_bello')
		ON CONFLICT (id) DO NOTHING`,
		string(agentID), "0801"+fmt.Sprintf("%07d", len(t.Name())),
	)
	if err != nil {
		t.Fatalf("seed agent: %v", err)
	}

	r := &RideRequest{
		ID:            types.ID("ride-" + t.Name()),
		ChipsAgentID:  agentID,
		Symptoms:      []string{"excessive_bleeding"},
		Condition:     "postpartum_hemorrhage",
		ConditionName: "Postpartum Hemorrhage",
		Confidence:    0.9,
		Pickup:        types.Point{Lat: 9.0765, Lng: 7.3986},
		Driver: DriverAssignment{
			ID: candidates[0].ID, Name: "Driver", VehicleType: types.VehicleCar,
		},
		Hospital: HospitalAssignment{
			ID: "h1", Name: "General Hospital",
			Location: types.Point{Lat: 9.05, Lng: 7.45}, Score: 100,
		},
		Status:           StatusPending,
		EmergencyLevel:   EmergencyHigh,
		CandidateDrivers: candidates,
		CreatedAt:        time.Now(),
	}
	if err := store.Create(ctx, r); err != nil {
		t.Fatalf("seed ride: %v", err)
	}
	return r.ID
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("UMMANA_TEST_DSN")
	if dsn == "" {
		t.Skip("UMMANA_TEST_DSN not set; skipping DB-backed race tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigration(ctx, db); err != nil {
		t.Fatalf("apply migration: %v", err)
	}

	if _, err := db.Exec(ctx, "TRUNCATE TABLE ride_declines, ride_requests, chips_agents CASCADE"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	return NewStore(db)
}

func applyMigration(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	path := filepath.Join(root, "migrations", "0001_init.sql")
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cleaned := stripSQLComments(string(content))
	for _, stmt := range splitSQL(cleaned) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
