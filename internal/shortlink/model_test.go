package shortlink

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeClock steps forward on every read so consecutive mutations always
// see strictly increasing timestamps.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func withFakeClock(t *testing.T) *fakeClock {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	orig := timeNow
	timeNow = clock.Now
	t.Cleanup(func() { timeNow = orig })
	return clock
}

func TestNew(t *testing.T) {
	withFakeClock(t)

	id := uuid.New()
	link := New(id, "https://example.com", "abc123", OwnedBy("u1"))

	if link.ID() != id {
		t.Errorf("ID() = %s, want %s", link.ID(), id)
	}
	if link.OriginalURL() != "https://example.com" {
		t.Errorf("OriginalURL() = %q", link.OriginalURL())
	}
	if link.Slug() != "abc123" {
		t.Errorf("Slug() = %q", link.Slug())
	}
	if !link.Owner().Is("u1") {
		t.Error("Owner().Is(u1) = false, want true")
	}
	if link.VisitCount() != 0 {
		t.Errorf("VisitCount() = %d, want 0", link.VisitCount())
	}
	if !link.UpdatedAt().Equal(link.CreatedAt()) {
		t.Error("fresh link should have updatedAt == createdAt")
	}
}

func TestMutatorsStampUpdatedAt(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ShortLink)
	}{
		{"SetOriginalURL", func(l *ShortLink) { l.SetOriginalURL("https://other.example") }},
		{"SetSlug", func(l *ShortLink) { l.SetSlug("newslug") }},
		{"IncrementVisitCount", func(l *ShortLink) { l.IncrementVisitCount() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withFakeClock(t)
			link := New(uuid.New(), "https://example.com", "abc123", Unowned())

			before := link.UpdatedAt()
			tt.mutate(link)

			if !link.UpdatedAt().After(before) {
				t.Errorf("updatedAt not advanced: before=%v after=%v", before, link.UpdatedAt())
			}
			if !link.CreatedAt().Before(link.UpdatedAt()) {
				t.Error("createdAt should stay behind updatedAt")
			}
		})
	}
}

func TestIncrementVisitCount(t *testing.T) {
	withFakeClock(t)
	link := New(uuid.New(), "https://example.com", "abc123", Unowned())

	const n = 25
	prev := link.UpdatedAt()
	for i := range n {
		link.IncrementVisitCount()
		if link.VisitCount() != int64(i+1) {
			t.Fatalf("VisitCount() = %d after %d increments", link.VisitCount(), i+1)
		}
		if !link.UpdatedAt().After(prev) {
			t.Fatalf("updatedAt did not strictly increase on increment %d", i+1)
		}
		prev = link.UpdatedAt()
	}
}

func TestSetters(t *testing.T) {
	withFakeClock(t)
	link := New(uuid.New(), "https://example.com", "abc123", Unowned())
	created := link.CreatedAt()
	id := link.ID()

	link.SetOriginalURL("https://changed.example")
	link.SetSlug("changed")

	if link.OriginalURL() != "https://changed.example" {
		t.Errorf("OriginalURL() = %q", link.OriginalURL())
	}
	if link.Slug() != "changed" {
		t.Errorf("Slug() = %q", link.Slug())
	}
	// id and createdAt are immutable regardless of mutation.
	if link.ID() != id {
		t.Error("ID changed after mutation")
	}
	if !link.CreatedAt().Equal(created) {
		t.Error("CreatedAt changed after mutation")
	}
}

func TestRehydrate(t *testing.T) {
	id := uuid.New()
	createdAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	updatedAt := createdAt.Add(time.Hour)

	link := Rehydrate(id, "https://example.com", "abc123", OwnedBy("u1"), createdAt, updatedAt, 42)

	if link.ID() != id {
		t.Errorf("ID() = %s", link.ID())
	}
	if link.VisitCount() != 42 {
		t.Errorf("VisitCount() = %d, want 42", link.VisitCount())
	}
	if !link.CreatedAt().Equal(createdAt) || !link.UpdatedAt().Equal(updatedAt) {
		t.Error("timestamps not restored verbatim")
	}
}

func TestOwner(t *testing.T) {
	t.Run("owned matches only its identity", func(t *testing.T) {
		o := OwnedBy("u1")
		if !o.Present() {
			t.Error("Present() = false, want true")
		}
		if !o.Is("u1") {
			t.Error("Is(u1) = false, want true")
		}
		if o.Is("u2") || o.Is("") {
			t.Error("owner matched a foreign or empty identity")
		}
	})

	t.Run("unowned matches nobody", func(t *testing.T) {
		o := Unowned()
		if o.Present() {
			t.Error("Present() = true, want false")
		}
		if o.Is("u1") || o.Is("") {
			t.Error("unowned link matched an identity")
		}
		if o.ID() != "" {
			t.Errorf("ID() = %q, want empty", o.ID())
		}
	})

	t.Run("empty identity collapses to unowned", func(t *testing.T) {
		if OwnedBy("").Present() {
			t.Error("OwnedBy(\"\") should be unowned")
		}
	})

	t.Run("zero value is unowned", func(t *testing.T) {
		var o Owner
		if o.Present() {
			t.Error("zero Owner should be unowned")
		}
	})
}
