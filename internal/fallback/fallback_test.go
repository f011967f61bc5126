package fallback

import (
	"context"
	"errors"
	"testing"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

var errDown = errors.New("record store unreachable")

type brokenStore struct{}

func (brokenStore) Put(context.Context, string, any) error        { return errors.New("put failed") }
func (brokenStore) Get(context.Context, string, any) (bool, error) { return false, errors.New("get failed") }

func TestList_Precedence(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	ok := func(context.Context) ([]item, error) { return []item{{1, "truck"}, {2, "van"}}, nil }
	fail := func(context.Context) ([]item, error) { return nil, errDown }

	tests := []struct {
		name      string
		primary   func(context.Context) ([]item, error)
		wantLen   int
		wantStale bool
	}{
		{"primary success", ok, 2, false},
		{"primary failure serves copy", fail, 2, true},
		{"primary recovers", func(context.Context) ([]item, error) { return []item{{3, "bike"}}, nil }, 1, false},
		{"copy follows latest success", fail, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stale := List(ctx, store, KeyVehicles, tt.primary)
			if len(got) != tt.wantLen || stale != tt.wantStale {
				t.Errorf("got %d items stale=%v, want %d stale=%v", len(got), stale, tt.wantLen, tt.wantStale)
			}
		})
	}
}

func TestList_BothFailReturnsEmpty(t *testing.T) {
	fail := func(context.Context) ([]item, error) { return nil, errDown }

	for name, s := range map[string]Store{"no copy": NewMemory(), "broken store": brokenStore{}, "nil store": nil} {
		t.Run(name, func(t *testing.T) {
			got, stale := List(context.Background(), s, KeyEmployees, fail)
			if got == nil || len(got) != 0 || !stale {
				t.Errorf("got %v stale=%v, want empty non-nil stale list", got, stale)
			}
		})
	}
}

func TestList_PutFailureStillServesPrimary(t *testing.T) {
	got, stale := List(context.Background(), brokenStore{}, KeyInvoices, func(context.Context) ([]item, error) {
		return []item{{1, "a"}}, nil
	})
	if len(got) != 1 || stale {
		t.Errorf("got %v stale=%v", got, stale)
	}
}

func TestMemory_IsolatedCopies(t *testing.T) {
	m := NewMemory()
	src := []item{{1, "a"}}
	if err := m.Put(context.Background(), "k", src); err != nil {
		t.Fatal(err)
	}
	src[0].Name = "changed"
	var out []item
	found, err := m.Get(context.Background(), "k", &out)
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if out[0].Name != "a" {
		t.Errorf("copy shares memory with caller: %q", out[0].Name)
	}
	if found, _ := m.Get(context.Background(), "missing", &out); found {
		t.Error("missing key reported found")
	}
}
