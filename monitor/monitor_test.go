package monitor

import (
	"errors"
	"sync"
	"testing"
	"time"

	"memprobe/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTarget serves reads from a mutable byte window.
type fakeTarget struct {
	mu    sync.Mutex
	value []byte
	fail  bool
}

func (f *fakeTarget) read(pid memory.PID, addr memory.Address, size uint64) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("read failed")
	}
	out := make([]byte, len(f.value))
	copy(out, f.value)
	return out, nil
}

func (f *fakeTarget) set(value []byte) {
	f.mu.Lock()
	f.value = value
	f.mu.Unlock()
}

func TestStartValidation(t *testing.T) {
	r := NewRegistry((&fakeTarget{}).read)

	_, err := r.Start(0, 0x1000, 4, 20*time.Millisecond, nil)
	assert.Error(t, err, "pid must be positive")

	_, err = r.Start(123, 0x1000, 0, 20*time.Millisecond, nil)
	assert.Error(t, err, "size must be positive")

	_, err = r.Start(123, 0x1000, 4, 5*time.Millisecond, nil)
	assert.Error(t, err, "interval below 10ms")

	assert.Equal(t, 0, r.Len())
}

func TestStopUnknownID(t *testing.T) {
	r := NewRegistry((&fakeTarget{}).read)
	assert.False(t, r.Stop("no-such-monitor"))
}

func TestChangeDetection(t *testing.T) {
	target := &fakeTarget{value: []byte{0x01, 0x00}}
	r := NewRegistry(target.read)

	changes := make(chan [2][]byte, 8)
	id, err := r.Start(123, 0x1000, 2, 10*time.Millisecond, func(old, new []byte) {
		changes <- [2][]byte{old, new}
	})
	require.NoError(t, err)
	defer r.Stop(id)

	// Let the first observation seed; it must not fire onChange.
	require.Eventually(t, func() bool {
		_, ok := r.LastValue(id)
		return ok
	}, time.Second, 5*time.Millisecond)
	select {
	case <-changes:
		t.Fatal("onChange fired on the first observation")
	default:
	}

	target.set([]byte{0x02, 0x00})

	select {
	case ch := <-changes:
		assert.Equal(t, []byte{0x01, 0x00}, ch[0])
		assert.Equal(t, []byte{0x02, 0x00}, ch[1])
	case <-time.After(time.Second):
		t.Fatal("onChange never fired after the value changed")
	}
}

func TestReadFailuresAreTransient(t *testing.T) {
	target := &fakeTarget{value: []byte{0x01}, fail: true}
	r := NewRegistry(target.read)

	id, err := r.Start(123, 0x1000, 1, 10*time.Millisecond, nil)
	require.NoError(t, err)
	defer r.Stop(id)

	time.Sleep(50 * time.Millisecond)
	_, ok := r.LastValue(id)
	assert.False(t, ok, "failed reads must not record an observation")

	target.mu.Lock()
	target.fail = false
	target.mu.Unlock()

	require.Eventually(t, func() bool {
		v, ok := r.LastValue(id)
		return ok && v == "01"
	}, time.Second, 5*time.Millisecond, "monitor must recover once reads succeed")
}

func TestStopBeforeFirstTick(t *testing.T) {
	target := &fakeTarget{value: []byte{0x01}}
	r := NewRegistry(target.read)

	fired := false
	id, err := r.Start(123, 0x1000, 1, time.Hour, func(old, new []byte) { fired = true })
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	assert.True(t, r.Stop(id))
	assert.False(t, r.Stop(id), "second stop of the same id")
	assert.Equal(t, 0, r.Len())
	assert.False(t, fired)
}

func TestStopAll(t *testing.T) {
	target := &fakeTarget{value: []byte{0x01}}
	r := NewRegistry(target.read)

	for i := 0; i < 3; i++ {
		_, err := r.Start(123, 0x1000, 1, time.Hour, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, r.Len())

	r.StopAll()
	assert.Equal(t, 0, r.Len())
}
