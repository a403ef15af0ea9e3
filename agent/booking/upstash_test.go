package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeRedisREST implements the subset of the Upstash REST protocol the
// repository uses: single-command POST with SET/GET/SADD/SMEMBERS/DEL.
type fakeRedisREST struct {
	mu      sync.Mutex
	strings map[string]string
	sets    map[string]map[string]struct{}
}

func newFakeRedisREST() *fakeRedisREST {
	return &fakeRedisREST{
		strings: make(map[string]string),
		sets:    make(map[string]map[string]struct{}),
	}
}

func (f *fakeRedisREST) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization = %q", got)
		}

		var command []any
		if err := json.NewDecoder(r.Body).Decode(&command); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		respond := func(result any) {
			_ = json.NewEncoder(w).Encode(map[string]any{"result": result})
		}

		op, _ := command[0].(string)
		switch op {
		case "SET":
			f.strings[command[1].(string)] = command[2].(string)
			respond("OK")
		case "GET":
			value, ok := f.strings[command[1].(string)]
			if !ok {
				respond(nil)
				return
			}
			respond(value)
		case "SADD":
			key := command[1].(string)
			if _, ok := f.sets[key]; !ok {
				f.sets[key] = make(map[string]struct{})
			}
			f.sets[key][command[2].(string)] = struct{}{}
			respond(1)
		case "SMEMBERS":
			members := make([]string, 0)
			for member := range f.sets[command[1].(string)] {
				members = append(members, member)
			}
			respond(members)
		case "DEL":
			key := command[1].(string)
			delete(f.strings, key)
			delete(f.sets, key)
			respond(1)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "unknown command " + op})
		}
	}
}

func newTestUpstashRepository(t *testing.T) *UpstashRepository {
	t.Helper()

	server := httptest.NewServer(newFakeRedisREST().handler(t))
	t.Cleanup(server.Close)

	repo, err := NewUpstashRepository(UpstashConfig{
		URL:     server.URL,
		Token:   "test-token",
		Timeout: 5 * time.Second,
	}, WithKeyPrefix("test:appointment:"))
	if err != nil {
		t.Fatalf("NewUpstashRepository: %v", err)
	}
	return repo
}

func TestUpstashRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestUpstashRepository(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	saved := storedAppointment("ORT-1-aaaaaaaaa", "Ana@Example.com", now.Add(48*time.Hour), StatusConfirmed)
	if err := repo.Save(ctx, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	found, ok, err := repo.FindByID(ctx, "ORT-1-aaaaaaaaa")
	if err != nil || !ok {
		t.Fatalf("FindByID = (%v, %v)", ok, err)
	}
	if found.PatientName != saved.PatientName || !found.DateTime.Equal(saved.DateTime) {
		t.Fatalf("found = %+v", found)
	}

	byContact, err := repo.FindByContact(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("FindByContact: %v", err)
	}
	if len(byContact) != 1 {
		t.Fatalf("len(byContact) = %d, want 1", len(byContact))
	}

	active, err := repo.FutureActive(ctx, "ana@example.com", now)
	if err != nil {
		t.Fatalf("FutureActive: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("len(active) = %d, want 1", len(active))
	}
}

func TestUpstashRepositoryFindByIDMissing(t *testing.T) {
	t.Parallel()

	repo := newTestUpstashRepository(t)
	_, ok, err := repo.FindByID(context.Background(), "ORT-9-missing")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if ok {
		t.Fatal("FindByID reported a missing appointment as found")
	}
}

func TestUpstashRepositoryCancel(t *testing.T) {
	t.Parallel()

	repo := newTestUpstashRepository(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	if err := repo.Save(ctx, storedAppointment("ORT-1-aaaaaaaaa", "ana@example.com", now.Add(24*time.Hour), StatusConfirmed)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cancelled, err := repo.Cancel(ctx, "ORT-1-aaaaaaaaa")
	if err != nil || !cancelled {
		t.Fatalf("Cancel = (%v, %v), want (true, nil)", cancelled, err)
	}

	found, _, err := repo.FindByID(ctx, "ORT-1-aaaaaaaaa")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found.Status != StatusCancelled {
		t.Fatalf("status = %q, want cancelled", found.Status)
	}

	if cancelled, _ := repo.Cancel(ctx, "ORT-9-missing"); cancelled {
		t.Fatal("Cancel reported success for unknown id")
	}
}

func TestUpstashRepositoryClear(t *testing.T) {
	t.Parallel()

	repo := newTestUpstashRepository(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	for _, id := range []string{"ORT-1-aaaaaaaaa", "ORT-2-bbbbbbbbb"} {
		if err := repo.Save(ctx, storedAppointment(id, "ana@example.com", now.Add(24*time.Hour), StatusConfirmed)); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("len(all) = %d after Clear", len(all))
	}
}

func TestUpstashRepositoryConfigValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewUpstashRepository(UpstashConfig{Token: "x"}); err == nil {
		t.Fatal("accepted empty url")
	}
	if _, err := NewUpstashRepository(UpstashConfig{URL: "https://example.upstash.io"}); err == nil {
		t.Fatal("accepted empty token")
	}
}
