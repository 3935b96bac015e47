package main

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdmagic/mountmon/config"
)

type clearEvent struct {
	host  string
	key   string
	value int
}

type recordingSink struct {
	events []clearEvent
	err    error
}

func (r *recordingSink) Send(host, key string, value int) error {
	r.events = append(r.events, clearEvent{host, key, value})
	return r.err
}

func TestSendClear(t *testing.T) {
	cfg := &config.Config{Hostname: "web1", AlertTriggerKey: "mountmon.error"}
	sink := &recordingSink{}
	logger := zerolog.Nop()

	sendClear(cfg, sink, &logger)

	require.Len(t, sink.events, 1)
	assert.Equal(t, clearEvent{"web1", "mountmon.error", 0}, sink.events[0])
}

func TestSendClearSinkFailureIsNotFatal(t *testing.T) {
	cfg := &config.Config{Hostname: "web1", AlertTriggerKey: "mountmon.error"}
	sink := &recordingSink{err: errors.New("trapper unreachable")}
	logger := zerolog.Nop()

	// must not panic or escalate; the failure is only logged
	sendClear(cfg, sink, &logger)

	assert.Len(t, sink.events, 1)
}
