package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(id string, createdAt time.Time) *Store {
	return &Store{
		ID:        id,
		Name:      "Acme " + id,
		Engine:    EngineWooCommerce,
		Status:    StatusPending,
		Namespace: "store-" + id,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMemoryRepository_ListNewestFirst(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()

	base := time.Now()
	repo.Insert(testStore("old", base.Add(-2*time.Hour)))
	repo.Insert(testStore("new", base))
	repo.Insert(testStore("mid", base.Add(-time.Hour)))

	list := repo.List()
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
	assert.Equal(t, "old", list[2].ID)
}

func TestMemoryRepository_GetReturnsCopy(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	repo.Insert(testStore("abc", time.Now()))

	got, ok := repo.Get("abc")
	require.True(t, ok)

	// Mutating the returned value must not leak into the registry.
	got.Status = StatusReady
	again, ok := repo.Get("abc")
	require.True(t, ok)
	assert.Equal(t, StatusPending, again.Status)
}

func TestMemoryRepository_UpdateAbsentIsNoop(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()

	called := false
	ok := repo.Update("ghost", func(*Store) { called = true })
	assert.False(t, ok)
	assert.False(t, called)
}

func TestMemoryRepository_EventsAppendOrder(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()

	for i := range 5 {
		repo.AppendEvent(&Event{
			ID:        fmt.Sprintf("e%d", i),
			StoreID:   "abc",
			Type:      EventInfo,
			Message:   fmt.Sprintf("step %d", i),
			Timestamp: time.Now(),
		})
	}

	events := repo.Events("abc")
	require.Len(t, events, 5)
	for i, e := range events {
		assert.Equal(t, fmt.Sprintf("e%d", i), e.ID)
	}

	// Later reads never reorder.
	again := repo.Events("abc")
	for i := range events {
		assert.Equal(t, events[i].ID, again[i].ID)
	}
}

func TestMemoryRepository_EventsUnknownStore(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	assert.Empty(t, repo.Events("ghost"))
}

func TestMemoryRepository_Delete(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepository()
	repo.Insert(testStore("abc", time.Now()))
	repo.AppendEvent(&Event{ID: "e1", StoreID: "abc", Type: EventInfo, Message: "created"})

	repo.Delete("abc")
	repo.DeleteEvents("abc")

	_, ok := repo.Get("abc")
	assert.False(t, ok)
	assert.Empty(t, repo.Events("abc"))
}
