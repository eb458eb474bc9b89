package editor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDismissNotice_OnlyCurrentSeq(t *testing.T) {
	ed, _, _ := loadedEditor(t, Options{})
	ctx := context.Background()

	require.NoError(t, ed.Create(ctx, "first"))
	_, firstSeq := ed.Notice()
	require.NoError(t, ed.Create(ctx, "second"))
	_, secondSeq := ed.Notice()

	assert.False(t, ed.DismissNotice(firstSeq), "stale timer must not clear a newer notice")
	notice, _ := ed.Notice()
	assert.Equal(t, "Task added successfully!", notice)

	assert.True(t, ed.DismissNotice(secondSeq))
	notice, _ = ed.Notice()
	assert.Empty(t, notice)
}

func TestOnNotice_ReceivesSeq(t *testing.T) {
	ed, _, _ := loadedEditor(t, Options{})
	var got []uint64
	ed.OnNotice(func(seq uint64) { got = append(got, seq) })

	require.NoError(t, ed.Create(context.Background(), "a"))
	require.NoError(t, ed.Delete(context.Background(), ed.Items()[0].ID))

	assert.Equal(t, []uint64{1, 2}, got)
}

func TestNoticeTimer_DismissesAfterDelay(t *testing.T) {
	ed, _, _ := loadedEditor(t, Options{})
	timer := NewNoticeTimer(context.Background(), 20*time.Millisecond, ed.DismissNotice)
	ed.OnNotice(timer.Schedule)

	require.NoError(t, ed.Create(context.Background(), "Call Alice"))
	notice, _ := ed.Notice()
	require.NotEmpty(t, notice)

	assert.Eventually(t, func() bool {
		n, _ := ed.Notice()
		return n == ""
	}, time.Second, 5*time.Millisecond)
}

func TestNoticeTimer_StopsWithContext(t *testing.T) {
	ed, _, _ := loadedEditor(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	timer := NewNoticeTimer(ctx, 50*time.Millisecond, ed.DismissNotice)
	ed.OnNotice(timer.Schedule)

	require.NoError(t, ed.Create(context.Background(), "Call Alice"))
	cancel()

	assert.Never(t, func() bool {
		n, _ := ed.Notice()
		return n == ""
	}, 150*time.Millisecond, 10*time.Millisecond, "screen gone, notice left alone")

	timer.Schedule(99)
	timer.mu.Lock()
	assert.Nil(t, timer.timer)
	timer.mu.Unlock()
}
