package callbacks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/effective-security/webscraping-mcp/tools"
)

// TimeNowFn is used to measure the session duration.
var TimeNowFn = time.Now

// ToolStats are the call counters of a single tool.
type ToolStats struct {
	Calls     uint32
	Succeeded uint32
	Failed    uint32
	BytesIn   uint64
	BytesOut  uint64
}

// Summary is a snapshot of the Stats.
type Summary struct {
	Duration     time.Duration
	ToolsCalls   uint32
	Succeeded    uint32
	Failed       uint32
	ToolNotFound uint32
	Tools        map[string]ToolStats
}

// String returns a one line summary.
func (s *Summary) String() string {
	return fmt.Sprintf("Tool calls: %d, Succeeded: %d, Failed: %d, Not Found: %d, Duration: %s",
		s.ToolsCalls,
		s.Succeeded,
		s.Failed,
		s.ToolNotFound,
		s.Duration.Truncate(time.Millisecond),
	)
}

// Table returns the per tool counters, one tool per line.
func (s *Summary) Table() string {
	names := make([]string, 0, len(s.Tools))
	for name := range s.Tools {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf strings.Builder
	for _, name := range names {
		ts := s.Tools[name]
		fmt.Fprintf(&buf, "%s: calls=%d succeeded=%d failed=%d bytes_in=%d bytes_out=%d\n",
			name, ts.Calls, ts.Succeeded, ts.Failed, ts.BytesIn, ts.BytesOut)
	}
	return buf.String()
}

type toolCounters struct {
	calls     atomic.Uint32
	succeeded atomic.Uint32
	failed    atomic.Uint32
	bytesIn   atomic.Uint64
	bytesOut  atomic.Uint64
}

// Stats is a callback handler that counts the tool calls of a session.
type Stats struct {
	started  time.Time
	notFound atomic.Uint32

	lock  sync.Mutex
	tools map[string]*toolCounters
}

func NewStats() *Stats {
	return &Stats{
		started: TimeNowFn(),
		tools:   make(map[string]*toolCounters),
	}
}

func (l *Stats) get(name string) *toolCounters {
	l.lock.Lock()
	defer l.lock.Unlock()
	c, ok := l.tools[name]
	if !ok {
		c = &toolCounters{}
		l.tools[name] = c
	}
	return c
}

func (l *Stats) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	c := l.get(tool.Name())
	c.calls.Add(1)
	c.bytesIn.Add(uint64(len(input)))
}

func (l *Stats) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	c := l.get(tool.Name())
	c.succeeded.Add(1)
	c.bytesOut.Add(uint64(len(output)))
}

func (l *Stats) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	l.get(tool.Name()).failed.Add(1)
}

func (l *Stats) OnToolNotFound(ctx context.Context, tool string) {
	l.notFound.Add(1)
}

// Summary returns the counters collected so far.
func (l *Stats) Summary() *Summary {
	s := &Summary{
		Duration:     TimeNowFn().Sub(l.started),
		ToolNotFound: l.notFound.Load(),
		Tools:        make(map[string]ToolStats),
	}

	l.lock.Lock()
	defer l.lock.Unlock()
	for name, c := range l.tools {
		ts := ToolStats{
			Calls:     c.calls.Load(),
			Succeeded: c.succeeded.Load(),
			Failed:    c.failed.Load(),
			BytesIn:   c.bytesIn.Load(),
			BytesOut:  c.bytesOut.Load(),
		}
		s.Tools[name] = ts
		s.ToolsCalls += ts.Calls
		s.Succeeded += ts.Succeeded
		s.Failed += ts.Failed
	}
	return s
}
