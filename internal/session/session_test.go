package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = Settings{Model: "gpt-4", Temperature: 0.3, ShowModel: true}

func TestAppendKeepsSequencesAligned(t *testing.T) {
	s := NewStore(time.Minute, defaults).Create()
	s.Append(Turn{UserInput: "Hello", ModelOutput: "Hi", ModelID: "gpt-4"})
	s.Append(Turn{UserInput: "Again", ModelOutput: "Sure", ModelID: "gpt-3.5-turbo"})

	assert.Equal(t, 2, s.Len())
	assert.Len(t, s.past, 2)
	assert.Len(t, s.generated, 2)
	assert.Len(t, s.engines, 2)
	assert.Equal(t, []Turn{
		{UserInput: "Hello", ModelOutput: "Hi", ModelID: "gpt-4"},
		{UserInput: "Again", ModelOutput: "Sure", ModelID: "gpt-3.5-turbo"},
	}, s.Turns())
}

func TestTurnsReturnsCopy(t *testing.T) {
	s := NewStore(time.Minute, defaults).Create()
	s.Append(Turn{UserInput: "a", ModelOutput: "b", ModelID: "gpt-4"})
	turns := s.Turns()
	turns[0].ModelID = "changed"
	assert.Equal(t, "gpt-4", s.Turns()[0].ModelID)
}

func TestConcurrentAppend(t *testing.T) {
	s := NewStore(time.Minute, defaults).Create()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Append(Turn{UserInput: "u", ModelOutput: "o", ModelID: "m"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
	assert.Len(t, s.engines, 50)
	assert.Len(t, s.past, 50)
}

func TestSettingsValidate(t *testing.T) {
	known := func(m string) bool { return m == "gpt-4" }

	require.NoError(t, defaults.Validate(known))
	require.NoError(t, Settings{Model: "gpt-4", Temperature: 2}.Validate(known))

	err := Settings{Model: "gpt-4", Temperature: 2.5}.Validate(known)
	assert.True(t, errors.Is(err, ErrInvalidSettings))
	err = Settings{Model: "gpt-4", Temperature: -0.1}.Validate(known)
	assert.ErrorIs(t, err, ErrInvalidSettings)
	err = Settings{Model: "davinci", Temperature: 1}.Validate(known)
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestTryBegin(t *testing.T) {
	s := NewStore(time.Minute, defaults).Create()
	end, ok := s.TryBegin()
	require.True(t, ok)

	_, ok = s.TryBegin()
	assert.False(t, ok)

	end()
	end2, ok := s.TryBegin()
	require.True(t, ok)
	end2()
}

func TestStoreCreateGetDelete(t *testing.T) {
	st := NewStore(time.Minute, defaults)
	s := st.Create()
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, defaults, s.Settings())

	got, err := st.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	other := st.Create()
	assert.NotEqual(t, s.ID(), other.ID())
	assert.Equal(t, 0, other.Len())

	st.Delete(s.ID())
	_, err = st.Get(s.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreSweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewStore(30*time.Minute, defaults)
	st.now = func() time.Time { return now }

	stale := st.Create()
	fresh := st.Create()

	now = now.Add(20 * time.Minute)
	_, err := st.Get(fresh.ID())
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, st.Sweep())

	_, err = st.Get(stale.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(fresh.ID())
	assert.NoError(t, err)
}

func TestStoreRunStopsWithContext(t *testing.T) {
	st := NewStore(time.Nanosecond, defaults)
	st.Create()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.Run(ctx, time.Millisecond)
		close(done)
	}()
	require.Eventually(t, func() bool { return st.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
