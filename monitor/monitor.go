// Package monitor implements polling-based change detection over
// target-process memory. A Registry owns its monitors explicitly, so
// independent engine instances (and tests) can run side by side without
// sharing global state.
package monitor

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"memprobe/memory"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/google/uuid"
)

// ReadFunc reads size bytes from the target at addr. The registry does
// not care which backend serves it.
type ReadFunc func(pid memory.PID, addr memory.Address, size uint64) ([]byte, error)

// ChangeFunc receives the previous and current value when a monitored
// window changes.
type ChangeFunc func(old, new []byte)

// entry is one monitored memory window.
type entry struct {
	pid      memory.PID
	addr     memory.Address
	size     uint64
	interval time.Duration
	lastHex  string
	ticker   *time.Ticker
	done     chan struct{}
}

// Registry owns a set of polling monitors over one read strategy.
type Registry struct {
	mu      sync.Mutex
	read    ReadFunc
	entries map[string]*entry
	log     *logger.Logger
}

// NewRegistry creates an empty Registry polling through read.
func NewRegistry(read ReadFunc) *Registry {
	return &Registry{
		read:    read,
		entries: make(map[string]*entry),
		log:     logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "monitor")),
	}
}

// Start registers a repeating poll of size bytes at addr and returns
// the monitor id. Each tick re-reads the window; onChange fires when
// the read succeeds, the value differs from the last one, and this is
// not the first observation. Transient read failures are swallowed per
// tick; the next tick recovers.
func (r *Registry) Start(pid memory.PID, addr memory.Address, size uint64, interval time.Duration, onChange ChangeFunc) (string, error) {
	if pid <= 0 {
		return "", &memory.ValidationError{Field: "pid", Detail: fmt.Sprintf("must be a positive integer, got %d", pid)}
	}
	if size == 0 {
		return "", &memory.ValidationError{Field: "size", Detail: "must be at least 1 byte"}
	}
	if interval < 10*time.Millisecond {
		return "", &memory.ValidationError{Field: "intervalMs", Detail: "must be at least 10ms"}
	}

	id := uuid.NewString()
	e := &entry{
		pid:      pid,
		addr:     addr,
		size:     size,
		interval: interval,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
	}

	r.mu.Lock()
	r.entries[id] = e
	r.mu.Unlock()

	go r.poll(id, e, onChange)

	r.log.Infoln("Monitor", id, "watching", addr.Hex(), "every", interval)
	return id, nil
}

func (r *Registry) poll(id string, e *entry, onChange ChangeFunc) {
	var last []byte
	seeded := false

	for {
		select {
		case <-e.done:
			return
		case <-e.ticker.C:
			data, err := r.read(e.pid, e.addr, e.size)
			if err != nil {
				r.log.Debugln("Monitor", id, "read failed:", err)
				continue
			}
			if seeded && !bytes.Equal(last, data) && onChange != nil {
				onChange(last, data)
			}
			last = data
			seeded = true

			r.mu.Lock()
			if cur, ok := r.entries[id]; ok {
				cur.lastHex = hex.EncodeToString(data)
			}
			r.mu.Unlock()
		}
	}
}

// Stop halts the monitor with the given id. It is idempotent: an
// unknown id returns false, never an error.
func (r *Registry) Stop(id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	e.ticker.Stop()
	close(e.done)
	r.log.Infoln("Monitor", id, "stopped")
	return true
}

// StopAll halts every monitor. Used for registry teardown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range entries {
		e.ticker.Stop()
		close(e.done)
	}
}

// Len reports the number of active monitors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// LastValue returns the hex of the most recent observation for id, or
// false if the monitor is unknown or has not observed a value yet.
func (r *Registry) LastValue(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.lastHex == "" {
		return "", false
	}
	return e.lastHex, true
}
