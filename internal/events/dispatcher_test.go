package events

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"preview-api/apiv1"
	"preview-api/meta"
)

func TestDispatcher_Publish(t *testing.T) {
	d := NewDispatcher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	var got []string
	d.SubscribeAll(func(_ context.Context, e meta.Event) error {
		got = append(got, "all:"+e.EventName())
		return nil
	})
	d.Subscribe("UserCreated", func(_ context.Context, e meta.Event) error {
		got = append(got, "user:"+e.(apiv1.UserCreated).Email)
		return errors.New("handler broke")
	})
	d.Subscribe("UserCreated", func(_ context.Context, e meta.Event) error {
		got = append(got, "second")
		return nil
	})

	d.Publish(ctx,
		apiv1.UserCreated{EventBase: meta.NewEventBase(), Email: "a@example.com"},
		apiv1.PlanCreated{EventBase: meta.NewEventBase(), PlanType: apiv1.PlanFree},
	)

	assert.Equal(t, []string{
		"all:UserCreated",
		"user:a@example.com",
		"second",
		"all:PlanCreated",
	}, got)
}

func TestDispatcher_PublishFrom(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	d := NewDispatcher(logger)
	d.SubscribeAll(LogHandler(logger))

	plan, err := apiv1.NewPlan(apiv1.PlanFree, "Free", 0, 0, 10000)
	assert.NoError(t, err)

	d.PublishFrom(context.Background(), plan, nil)
	assert.Contains(t, buf.String(), "event=PlanCreated")

	buf.Reset()
	d.PublishFrom(context.Background(), plan)
	assert.Empty(t, buf.String())
}
