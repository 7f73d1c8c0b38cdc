package bot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetPut(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get(1)
	require.False(t, ok)

	store.Put(1, Session{Token: "tok", Flow: FlowCreatingNote, Step: StepAwaitingTitle})

	session, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "tok", session.Token)
	assert.Equal(t, FlowCreatingNote, session.Flow)

	// Chats are independent.
	_, ok = store.Get(2)
	assert.False(t, ok)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			store.Put(chatID, Session{Token: "tok"})
			store.Get(chatID)
		}(int64(i))
	}
	wg.Wait()

	session, ok := store.Get(7)
	require.True(t, ok)
	assert.Equal(t, "tok", session.Token)
}
