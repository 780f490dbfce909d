package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

// stepClock advances by step on every reading.
func stepClock(step time.Duration) func() time.Time {
	now := time.Date(2022, 1, 26, 15, 42, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestStartTimerWithoutCollector(t *testing.T) {
	timer := StartTimer(context.Background(), "import")
	timer.Add(3)
	timer.Child("classify").End()
	timer.End()

	_, ok := FromContext(context.Background()).(noOpCollector)
	assert.True(t, ok)

	var buf bytes.Buffer
	FromContext(context.Background()).Report(&buf, nil)
	assert.Equal(t, "", buf.String())
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	got, ok := FromContext(ctx).(*TimingCollector)
	assert.True(t, ok)
	assert.True(t, got == collector)
}

func TestReportTree(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = stepClock(10 * time.Millisecond)
	ctx := WithCollector(context.Background(), collector)

	root := StartTimer(ctx, "import statement.csv")
	compile := StartTimer(ctx, "format.compile")
	compile.End()
	classify := root.Child("classify")
	classify.Add(2)
	classify.Add(3)
	classify.End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	assert.Equal(t, strings.Join([]string{
		"import statement.csv: 50ms",
		"├─ format.compile: 10ms",
		"└─ classify: 10ms (5 rows)",
		"",
	}, "\n"), buf.String())
}

func TestReportSequentialRoots(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = stepClock(time.Millisecond)

	collector.Start("check").End()
	collector.Start("audit").End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	assert.Equal(t, "check: 1ms\naudit: 1ms\n", buf.String())
}

func TestReportNesting(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = stepClock(time.Millisecond)

	l1 := collector.Start("Level 1")
	l2 := l1.Child("Level 2")
	l3 := l2.Child("Level 3")
	l3.End()
	l2.End()
	l1.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "   └─ Level 3: 1ms", lines[2])
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{time.Millisecond, "1ms"},
		{999 * time.Millisecond, "999ms"},
		{time.Second, "1.00s"},
		{1500 * time.Millisecond, "1.50s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.duration))
	}
}

func TestEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	NewTimingCollector().Report(&buf, nil)
	assert.Equal(t, "", buf.String())
}
