package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubCollector struct {
	name      string
	data      interface{}
	err       error
	panicMsg  string
	available bool
	calls     int
}

func (c *stubCollector) Name() string { return c.name }

func (c *stubCollector) Collect(context.Context) (interface{}, error) {
	c.calls++
	if c.panicMsg != "" {
		panic(c.panicMsg)
	}
	return c.data, c.err
}

func (c *stubCollector) IsAvailable() bool { return c.available }

func TestRegistry_CollectAll(t *testing.T) {
	ok := &stubCollector{name: "ok", data: 1, available: true}
	off := &stubCollector{name: "off", data: 2, available: true}
	failing := &stubCollector{name: "failing", err: errors.New("boom"), available: true}
	panicking := &stubCollector{name: "panicking", panicMsg: "bad index", available: true}
	empty := &stubCollector{name: "empty", available: true}
	missing := &stubCollector{name: "missing", data: 3, available: false}

	r := NewRegistry(nil)
	r.Register(ok, true)
	r.Register(off, false)
	r.Register(failing, true)
	r.Register(panicking, true)
	r.Register(empty, true)
	r.Register(missing, true)

	results := r.CollectAll(context.Background())
	require.Len(t, results, 5)

	require.Equal(t, "ok", results[0].Name)
	require.False(t, results[0].Absent())
	require.Equal(t, 1, results[0].Data)

	require.True(t, results[1].Absent())
	require.ErrorIs(t, results[1].Error, ErrDisabled)
	require.Zero(t, off.calls)

	require.True(t, results[2].Absent())
	require.EqualError(t, results[2].Error, "boom")

	require.True(t, results[3].Absent())
	require.Contains(t, results[3].Error.Error(), "bad index")

	require.True(t, results[4].Absent())
	require.Error(t, results[4].Error)

	require.Zero(t, missing.calls)
	require.Len(t, r.Collectors(), 5)

	// Each enabled collector runs exactly once per pass.
	require.Equal(t, 1, ok.calls)
	r.CollectAll(context.Background())
	require.Equal(t, 2, ok.calls)
}
