package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestAppendArgsCtx_Fields(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), NewEntry(&buf, int(logrus.DebugLevel)))
	ctx = AppendArgsCtx(ctx, "service", "app")

	Debug(ctx, "translated", "target", "/data")

	out := buf.String()
	assert.Contains(t, out, "msg=translated")
	assert.Contains(t, out, "service=app")
	assert.Contains(t, out, "target=/data")
}

func TestDebug_FilteredByLevel(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), NewEntry(&buf, int(logrus.InfoLevel)))

	Debug(ctx, "hidden")
	Info(ctx, "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigure_ErrorLevelOutOfRange(t *testing.T) {
	assert.Error(t, Configure(7))
	assert.Error(t, Configure(-1))
}
