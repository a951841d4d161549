package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examnotify/models"
)

type fakeNotifier struct {
	calls  []map[string]string
	titles []string
	bodies []string
	failOn map[string]error
}

func (f *fakeNotifier) Send(_ context.Context, title, body string, data map[string]string) (string, error) {
	f.titles = append(f.titles, title)
	f.bodies = append(f.bodies, body)
	f.calls = append(f.calls, data)
	if err, ok := f.failOn[body]; ok {
		return "", err
	}
	return fmt.Sprintf("msg-%d", len(f.calls)), nil
}

func TestDispatch_PayloadShape(t *testing.T) {
	fn := &fakeNotifier{}
	d := NewDispatcher(fn, zerolog.Nop())

	outcomes := d.Dispatch(context.Background(), []models.Notification{
		{ID: 1, Text: "Exam A", URL: "https://x/a"},
	})

	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].OK())
	assert.Equal(t, "msg-1", outcomes[0].MessageID)
	assert.Equal(t, []string{"New Notification"}, fn.titles)
	assert.Equal(t, []string{"Exam A"}, fn.bodies)
	assert.Equal(t, map[string]string{"click_action": "https://x/a", "url": "https://x/a"}, fn.calls[0])
}

func TestDispatch_OneFailureDoesNotBlockOthers(t *testing.T) {
	fn := &fakeNotifier{failOn: map[string]error{"Exam B": errors.New("fcm unreachable")}}
	d := NewDispatcher(fn, zerolog.Nop())

	outcomes := d.Dispatch(context.Background(), []models.Notification{
		{ID: 1, Text: "Exam A", URL: "https://x/a"},
		{ID: 2, Text: "Exam B", URL: "https://x/b"},
		{ID: 3, Text: "Exam C", URL: "https://x/c"},
	})

	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].OK())
	assert.False(t, outcomes[1].OK())
	assert.Equal(t, "fcm unreachable", outcomes[1].Error)
	assert.True(t, outcomes[2].OK())
	assert.Len(t, fn.calls, 3)
}

func TestDispatch_EmptyBatch(t *testing.T) {
	fn := &fakeNotifier{}
	d := NewDispatcher(fn, zerolog.Nop())

	outcomes := d.Dispatch(context.Background(), nil)
	assert.Empty(t, outcomes)
	assert.Empty(t, fn.calls)
}
