package announcer

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/coursewizard/internal/modules/wizard/events"
	"github.com/nfrund/coursewizard/internal/pubsub"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAnnouncer_LogsWizardEvents(t *testing.T) {
	ctx := context.Background()
	bridge := pubsub.NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })

	var out syncBuffer
	m := New(Dependencies{Subscriber: bridge, Logger: slog.New(slog.NewTextHandler(&out, nil))})
	require.NoError(t, m.Boot(ctx, nil, nil))
	t.Cleanup(func() { _ = m.Shutdown(ctx) })

	require.NoError(t, pubsub.Publish(ctx, bridge, events.TopicSubmodulesGenerated, "sid-1",
		events.SubmodulesGenerated{CourseID: "c1", ModuleID: "m1", VersionID: "v1", ElapsedMS: 42}))
	require.NoError(t, pubsub.Publish(ctx, bridge, events.TopicSubmodulesInvalidated, "sid-1",
		events.SubmodulesInvalidated{ModuleID: "m1", VersionID: "v1", Reason: events.ReasonEmpty}))
	require.NoError(t, pubsub.Publish(ctx, bridge, events.TopicGenerationFailed, "sid-2",
		events.GenerationFailed{ModuleID: "m2", Error: "boom"}))

	require.Eventually(t, func() bool {
		return m.Seen(events.TopicSubmodulesGenerated.Name()) == 1 &&
			m.Seen(events.TopicSubmodulesInvalidated.Name()) == 1 &&
			m.Seen(events.TopicGenerationFailed.Name()) == 1
	}, time.Second, 10*time.Millisecond)

	logs := out.String()
	assert.Contains(t, logs, "session_id=sid-1")
	assert.Contains(t, logs, "version_id=v1")
	assert.Contains(t, logs, "reason=empty")
	assert.Contains(t, logs, "level=WARN")
	assert.Contains(t, logs, "error=boom")
}
