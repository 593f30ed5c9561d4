package bus

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neviraller/internal/action"
)

func TestSendDrainOrder(t *testing.T) {
	b := New()
	require.NoError(t, b.Send(action.New(action.Next)))
	require.NoError(t, b.Send(action.New(action.Select)))
	require.NoError(t, b.Send(action.StatusMessage("hi")))
	assert.Equal(t, 3, b.Len())

	got := b.Drain()
	assert.Equal(t, []action.Action{
		action.New(action.Next),
		action.New(action.Select),
		action.StatusMessage("hi"),
	}, got)
	assert.Equal(t, 0, b.Len())
	assert.Nil(t, b.Drain())
}

func TestDrainIsSnapshot(t *testing.T) {
	b := New()
	require.NoError(t, b.Send(action.New(action.Tick)))
	first := b.Drain()
	// Sent while "processing" the first snapshot.
	require.NoError(t, b.Send(action.New(action.Render)))
	assert.Equal(t, []action.Action{action.New(action.Tick)}, first)
	assert.Equal(t, []action.Action{action.New(action.Render)}, b.Drain())
}

func TestSendAfterClose(t *testing.T) {
	b := New()
	require.NoError(t, b.Send(action.New(action.Quit)))
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.True(t, b.Closed())

	err := b.Send(action.New(action.Render))
	assert.True(t, errors.Is(err, ErrClosed))
	assert.Equal(t, []action.Action{action.New(action.Quit)}, b.Drain())
}

func TestWaitWakesOnSend(t *testing.T) {
	b := New()
	cmd := b.Wait()
	got := make(chan any, 1)
	go func() { got <- cmd() }()

	select {
	case <-got:
		t.Fatal("Wait returned before anything was sent")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, b.Send(action.New(action.Render)))
	select {
	case msg := <-got:
		assert.Equal(t, ReadyMsg{}, msg)
	case <-time.After(time.Second):
		t.Fatal("Wait did not wake up")
	}
}

func TestWaitReleasedByClose(t *testing.T) {
	b := New()
	cmd := b.Wait()
	got := make(chan any, 1)
	go func() { got <- cmd() }()
	require.NoError(t, b.Close())
	select {
	case msg := <-got:
		assert.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("Wait not released by Close")
	}
}

func TestConcurrentProducers(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = b.Send(action.New(action.Tick))
			}
		}()
	}
	wg.Wait()
	assert.Len(t, b.Drain(), 800)
}

func TestSinkFunc(t *testing.T) {
	var got []action.Action
	var s Sink = SinkFunc(func(a action.Action) error {
		got = append(got, a)
		return nil
	})
	require.NoError(t, s.Send(action.New(action.Help)))
	assert.Equal(t, []action.Action{action.New(action.Help)}, got)
}
