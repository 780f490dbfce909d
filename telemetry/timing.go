package telemetry

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/perfin/output"
)

// slowStage marks stages that are highlighted in a report.
const slowStage = 100 * time.Millisecond

// TimingCollector builds a tree of timed stages.
type TimingCollector struct {
	mu      sync.Mutex
	roots   []*stage
	current *stage
	now     func() time.Time
}

type stage struct {
	name     string
	start    time.Time
	end      time.Time
	items    int
	parent   *stage
	children []*stage
}

// NewTimingCollector creates an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{now: time.Now}
}

// Start begins a stage. It nests under the running stage, if any.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &stage{name: name, start: c.now(), parent: c.current}
	if c.current == nil {
		c.roots = append(c.roots, s)
	} else {
		c.current.children = append(c.current.children, s)
	}
	c.current = s

	return &timer{collector: c, stage: s}
}

// Report writes the stage tree:
//
//	import statement.csv: 125ms (412 rows)
//	├─ format.compile: 3ms
//	└─ classify: 98ms
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		name := root.name
		if styles != nil {
			name = styles.Keyword(name)
		}
		_, _ = fmt.Fprintf(w, "%s: %s\n", name, root.summary())
		for i, child := range root.children {
			writeStage(w, child, "", i == len(root.children)-1, styles)
		}
	}
}

func writeStage(w io.Writer, s *stage, prefix string, last bool, styles *output.Styles) {
	branch, extension := "├─ ", "│  "
	if last {
		branch, extension = "└─ ", "   "
	}

	tree, summary := prefix+branch, s.summary()
	if styles != nil {
		tree = styles.Dim(tree)
		if s.duration() >= slowStage {
			summary = styles.Warning(summary)
		} else {
			summary = styles.Dim(summary)
		}
	}
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", tree, s.name, summary)

	for i, child := range s.children {
		writeStage(w, child, prefix+extension, i == len(s.children)-1, styles)
	}
}

func (s *stage) duration() time.Duration {
	if s.end.IsZero() {
		return 0
	}
	return s.end.Sub(s.start)
}

func (s *stage) summary() string {
	text := formatDuration(s.duration())
	if s.items > 0 {
		text += fmt.Sprintf(" (%d rows)", s.items)
	}
	return text
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

type timer struct {
	collector *TimingCollector
	stage     *stage
}

func (t *timer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.stage.end = t.collector.now()
	if t.collector.current == t.stage {
		t.collector.current = t.stage.parent
	}
}

func (t *timer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	s := &stage{name: name, start: t.collector.now(), parent: t.stage}
	t.stage.children = append(t.stage.children, s)

	return &timer{collector: t.collector, stage: s}
}

func (t *timer) Add(n int) {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.stage.items += n
}
