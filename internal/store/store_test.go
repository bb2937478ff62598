package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"zenith-pos/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (w *widget) RecordID() string      { return w.ID }
func (w *widget) SetRecordID(id string) { w.ID = id }

var widgetSeed = []widget{
	{ID: "w1", Name: "alpha"},
	{ID: "w2", Name: "beta"},
	{ID: "w3", Name: "gamma"},
}

type backendFactory func(t *testing.T) Backend

func memoryFactory(t *testing.T) Backend {
	return NewMemory()
}

func boltFactory(t *testing.T) Backend {
	b, err := OpenBolt(filepath.Join(t.TempDir(), "pos.db"))
	if err != nil {
		t.Fatalf("OpenBolt() failed: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestMemoryBackend(t *testing.T) {
	runBackendSuite(t, memoryFactory)
}

func TestBoltBackend(t *testing.T) {
	runBackendSuite(t, boltFactory)
}

func runBackendSuite(t *testing.T, factory backendFactory) {
	t.Run("CreateAssignsIDAndGetReturnsRecord", func(t *testing.T) { testCreateAndGet(t, factory(t)) })
	t.Run("CreateRejectsDuplicateID", func(t *testing.T) { testDuplicateID(t, factory(t)) })
	t.Run("SaveReplacesAndKeepsPosition", func(t *testing.T) { testSave(t, factory(t)) })
	t.Run("SaveUnknownIDIsNotFound", func(t *testing.T) { testSaveUnknown(t, factory(t)) })
	t.Run("DeleteAndDeleteMany", func(t *testing.T) { testDelete(t, factory(t)) })
	t.Run("SmallCollectionHasNoNextCursor", func(t *testing.T) { testSmallList(t, factory(t)) })
	t.Run("CursorWalkSurvivesDeletes", func(t *testing.T) { testCursorWalkWithDeletes(t, factory(t)) })
	t.Run("EnsureSeedSequential", func(t *testing.T) { testEnsureSeedSequential(t, factory(t)) })
	t.Run("EnsureSeedConcurrent", func(t *testing.T) { testEnsureSeedConcurrent(t, factory(t)) })
	t.Run("MutateIsAtomic", func(t *testing.T) { testMutateAtomic(t, factory(t)) })
	t.Run("CollectionsAreIsolated", func(t *testing.T) { testIsolation(t, factory(t)) })
}

func testCreateAndGet(t *testing.T, b Backend) {
	ctx := context.Background()
	c := NewCollection[widget](b, "widgets", nil)

	created, err := c.Create(ctx, widget{Name: "sprocket"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create() did not assign an id")
	}

	got, err := c.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != created {
		t.Errorf("Get() = %+v, want %+v", got, created)
	}

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func testDuplicateID(t *testing.T, b Backend) {
	ctx := context.Background()
	c := NewCollection[widget](b, "widgets", nil)

	if _, err := c.Create(ctx, widget{ID: "fixed", Name: "one"}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	_, err := c.Create(ctx, widget{ID: "fixed", Name: "two"})
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("second Create() error = %v, want ErrDuplicateID", err)
	}

	got, _ := c.Get(ctx, "fixed")
	if got.Name != "one" {
		t.Errorf("duplicate create overwrote record: %+v", got)
	}
}

func testSave(t *testing.T, b Backend) {
	ctx := context.Background()
	c := NewCollection[widget](b, "widgets", nil)

	first, _ := c.Create(ctx, widget{Name: "first"})
	_, _ = c.Create(ctx, widget{Name: "second"})

	if _, err := c.Save(ctx, first.ID, widget{Name: "renamed"}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	page, err := c.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].ID != first.ID || page.Items[0].Name != "renamed" {
		t.Errorf("List() after Save = %+v, want renamed record first", page.Items)
	}
}

func testSaveUnknown(t *testing.T, b Backend) {
	c := NewCollection[widget](b, "widgets", nil)
	_, err := c.Save(context.Background(), "ghost", widget{Name: "x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Save(ghost) error = %v, want ErrNotFound", err)
	}
}

func testDelete(t *testing.T, b Backend) {
	ctx := context.Background()
	c := NewCollection[widget](b, "widgets", nil)

	var ids []string
	for i := 0; i < 4; i++ {
		w, _ := c.Create(ctx, widget{Name: fmt.Sprintf("w%d", i)})
		ids = append(ids, w.ID)
	}

	deleted, err := c.Delete(ctx, ids[0])
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v; want true, nil", deleted, err)
	}
	deleted, err = c.Delete(ctx, ids[0])
	if err != nil || deleted {
		t.Errorf("second Delete() = %v, %v; want false, nil", deleted, err)
	}

	n, err := c.DeleteMany(ctx, []string{ids[1], ids[2], "missing"})
	if err != nil || n != 2 {
		t.Errorf("DeleteMany() = %d, %v; want 2, nil", n, err)
	}

	all, _ := c.All(ctx)
	if len(all) != 1 || all[0].ID != ids[3] {
		t.Errorf("All() after deletes = %+v", all)
	}
}

func testSmallList(t *testing.T, b Backend) {
	ctx := context.Background()
	c := NewCollection[widget](b, "widgets", nil)
	for i := 0; i < 5; i++ {
		_, _ = c.Create(ctx, widget{Name: fmt.Sprintf("w%d", i)})
	}

	page, err := c.List(ctx, "", 10)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(page.Items) != 5 || page.Next != nil {
		t.Errorf("List() = %d items, next=%v; want 5, nil", len(page.Items), page.Next)
	}

	page, _ = c.List(ctx, "", 5)
	if page.Next != nil {
		t.Errorf("exact-size page returned a next cursor")
	}
}

func testCursorWalkWithDeletes(t *testing.T, b Backend) {
	ctx := context.Background()
	c := NewCollection[widget](b, "widgets", nil)

	var ids []string
	for i := 0; i < 9; i++ {
		w, _ := c.Create(ctx, widget{Name: fmt.Sprintf("w%d", i)})
		ids = append(ids, w.ID)
	}

	page, _ := c.List(ctx, "", 3)
	if page.Next == nil {
		t.Fatal("expected a next cursor")
	}

	// Removing records already seen must not shift the rest of the walk.
	_, _ = c.DeleteMany(ctx, []string{ids[0], ids[1]})

	var seen []string
	for _, w := range page.Items {
		seen = append(seen, w.ID)
	}
	cursor := *page.Next
	for {
		page, err := c.List(ctx, cursor, 3)
		if err != nil {
			t.Fatalf("List() failed: %v", err)
		}
		for _, w := range page.Items {
			seen = append(seen, w.ID)
		}
		if page.Next == nil {
			break
		}
		cursor = *page.Next
	}

	if len(seen) != len(ids) {
		t.Fatalf("walk saw %d records, want %d", len(seen), len(ids))
	}
	for i := range ids {
		if seen[i] != ids[i] {
			t.Errorf("walk[%d] = %s, want %s", i, seen[i], ids[i])
		}
	}
}

func testEnsureSeedSequential(t *testing.T, b Backend) {
	ctx := context.Background()
	c := NewCollection[widget](b, "widgets", widgetSeed)

	inserted, err := c.EnsureSeed(ctx)
	if err != nil || !inserted {
		t.Fatalf("first EnsureSeed() = %v, %v; want true, nil", inserted, err)
	}
	inserted, err = c.EnsureSeed(ctx)
	if err != nil || inserted {
		t.Fatalf("second EnsureSeed() = %v, %v; want false, nil", inserted, err)
	}

	all, _ := c.All(ctx)
	if len(all) != len(widgetSeed) {
		t.Errorf("collection has %d records, want %d", len(all), len(widgetSeed))
	}
}

func testEnsureSeedConcurrent(t *testing.T, b Backend) {
	ctx := context.Background()
	c := NewCollection[widget](b, "widgets", widgetSeed)

	const callers = 32
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := c.EnsureSeed(ctx)
			if err != nil {
				t.Errorf("EnsureSeed() failed: %v", err)
				return
			}
			if ok {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	if inserted != 1 {
		t.Errorf("%d callers inserted seed data, want exactly 1", inserted)
	}
	all, _ := c.All(ctx)
	if len(all) != len(widgetSeed) {
		t.Errorf("collection has %d records, want %d", len(all), len(widgetSeed))
	}
}

func testMutateAtomic(t *testing.T, b Backend) {
	ctx := context.Background()
	c := NewCollection[widget](b, "widgets", nil)
	w, _ := c.Create(ctx, widget{Name: ""})

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Mutate(ctx, w.ID, func(rec *widget) error {
				rec.Name += "x"
				return nil
			})
			if err != nil {
				t.Errorf("Mutate() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := c.Get(ctx, w.ID)
	if len(got.Name) != writers {
		t.Errorf("lost updates: name length %d, want %d", len(got.Name), writers)
	}

	_, err := c.Mutate(ctx, "ghost", func(*widget) error { return nil })
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Mutate(ghost) error = %v, want ErrNotFound", err)
	}
}

func testIsolation(t *testing.T, b Backend) {
	ctx := context.Background()
	a := NewCollection[widget](b, "a", nil)
	z := NewCollection[widget](b, "z", widgetSeed)

	_, _ = a.Create(ctx, widget{Name: "only-in-a"})
	inserted, err := z.EnsureSeed(ctx)
	if err != nil || !inserted {
		t.Errorf("seeding z must ignore records in a: inserted=%v err=%v", inserted, err)
	}
}

func TestDecodeCursor_RejectsGarbage(t *testing.T) {
	cases := []string{
		"!!!",
		base64.RawURLEncoding.EncodeToString([]byte("not-a-cursor")),
		base64.RawURLEncoding.EncodeToString([]byte("seq:abc")),
		base64.RawURLEncoding.EncodeToString([]byte("seq:-1")),
	}
	for _, cursor := range cases {
		if _, err := DecodeCursor(cursor); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("DecodeCursor(%q) error = %v, want ErrValidation", cursor, err)
		}
	}
	if seq, err := DecodeCursor(""); err != nil || seq != 0 {
		t.Errorf("DecodeCursor(\"\") = %d, %v; want 0, nil", seq, err)
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct{ limit, pageSize, want int }{
		{0, 0, DefaultPageSize},
		{-3, 20, 20},
		{7, 20, 7},
		{MaxPageSize + 1, 20, MaxPageSize},
	}
	for _, tc := range cases {
		if got := ClampLimit(tc.limit, tc.pageSize); got != tc.want {
			t.Errorf("ClampLimit(%d, %d) = %d, want %d", tc.limit, tc.pageSize, got, tc.want)
		}
	}
}

// Feature: zenith-pos, Property: cursor pagination returns every record exactly once
func TestProperty_PaginationVisitsEveryRecordOnce(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("walking all pages yields insertion order without gaps or repeats", prop.ForAll(
		func(total int, limit int) bool {
			ctx := context.Background()
			c := NewCollection[widget](NewMemory(), "widgets", nil)

			var ids []string
			for i := 0; i < total; i++ {
				w, err := c.Create(ctx, widget{Name: fmt.Sprintf("w%d", i)})
				if err != nil {
					return false
				}
				ids = append(ids, w.ID)
			}

			var seen []string
			cursor := ""
			for pages := 0; pages <= total+1; pages++ {
				page, err := c.List(ctx, cursor, limit)
				if err != nil {
					return false
				}
				if len(page.Items) > limit {
					return false
				}
				for _, w := range page.Items {
					seen = append(seen, w.ID)
				}
				if page.Next == nil {
					break
				}
				cursor = *page.Next
			}

			if len(seen) != len(ids) {
				return false
			}
			for i := range ids {
				if seen[i] != ids[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 60),
		gen.IntRange(1, 15),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: zenith-pos, Property: concurrent creates never share an id
func TestConcurrentCreatesAssignDistinctIDs(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[widget](NewMemory(), "widgets", nil)

	const n = 10000
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, err := c.Create(ctx, widget{Name: "w"})
			if err != nil {
				t.Errorf("Create() failed: %v", err)
				return
			}
			ids[i] = w.ID
		}(i)
	}
	wg.Wait()

	unique := make(map[string]struct{}, n)
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(unique) != n {
		t.Errorf("got %d distinct ids from %d creates", len(unique), n)
	}
}
