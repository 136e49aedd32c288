package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/fieldcrew/coating-scheduler/internal/api/http/middleware"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		SetLogLevel("info")
	})
	return &buf
}

func TestLogger_Levels(t *testing.T) {
	buf := captureLog(t)
	logger := NewLogger(middleware.WithRequestID(context.Background(), "rid-1"))

	SetLogLevel("info")
	logger.LogInfof("generate", "project_id=%s", "p1")
	assert.Contains(t, buf.String(), "[info] request_id=rid-1 operation=generate project_id=p1")

	buf.Reset()
	SetLogLevel("WARN")
	logger.LogInfof("generate", "dropped")
	logger.LogWarnf("generate_batch", "kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "[warn] request_id=rid-1 operation=generate_batch kept")

	buf.Reset()
	SetLogLevel("error")
	logger.LogWarnf("generate_batch", "dropped")
	logger.LogError("generate", errors.New("boom"))
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "[error] request_id=rid-1 operation=generate error=boom")
}

func TestLogger_UnknownRequest(t *testing.T) {
	buf := captureLog(t)
	SetLogLevel("verbose")

	NewLogger(context.Background()).LogInfof("publish", "tasks=%d", 3)
	assert.Contains(t, buf.String(), "request_id=unknown operation=publish tasks=3")
}
