package tracing

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanTree(t *testing.T) {
	ctx, root := StartSpan(context.Background(), "resolve", "trace-1")
	childCtx, exists := StartChildSpan(ctx, "store.exists")
	exists.SetAttr("key", "cat")
	exists.End()
	_, rng := StartChildSpan(ctx, "store.range")
	rng.End()
	root.End()

	require.Len(t, root.Children, 2)
	assert.Equal(t, "trace-1", root.Children[0].TraceID)
	assert.Same(t, exists, SpanFromContext(childCtx))

	var buf bytes.Buffer
	root.Log(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "msg=span"))
	assert.Contains(t, out, "key=cat")
	assert.Contains(t, out, "depth=1")
}

func TestChildSpanWithoutParentIsNoop(t *testing.T) {
	ctx, span := StartChildSpan(context.Background(), "store.exists")
	assert.Nil(t, span)
	assert.Nil(t, SpanFromContext(ctx))
	span.SetAttr("k", "v")
	span.End()
	span.Log(slog.Default())
}
