package logging

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// lockedBuffer guards a bytes.Buffer for the concurrency test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestConsoleLogger_Verbose_WhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, true)
	logger.Verbose("test message: %s", "value")

	expected := "[VERBOSE] test message: value\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestConsoleLogger_Verbose_WhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, false)
	logger.Verbose("test message: %s", "value")

	if buf.String() != "" {
		t.Errorf("Expected no output, got %q", buf.String())
	}
	if logger.IsVerbose() {
		t.Error("IsVerbose() = true, want false")
	}
}

func TestConsoleLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, false)
	logger.Info("scanned %d files", 3)

	expected := "scanned 3 files\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestConsoleLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, false)
	logger.Error("failed: %v", "boom")

	expected := "[ERROR] failed: boom\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestConsoleLogger_NoArgsKeepsPercent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, true)
	logger.Info("100% done")

	if buf.String() != "100% done\n" {
		t.Errorf("Expected literal message, got %q", buf.String())
	}
}

func TestConsoleLogger_ConcurrentSafety(t *testing.T) {
	buf := &lockedBuffer{}
	logger := NewWriterLogger(buf, true)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}
	wg.Wait()

	// Verify we got all messages (10 * 3 = 30 lines)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 30 {
		t.Errorf("Expected 30 lines, got %d", len(lines))
	}

	// Verify no interleaved output (each line should be complete)
	for i, line := range lines {
		if !strings.Contains(line, "message") && !strings.Contains(line, "verbose") && !strings.Contains(line, "error") {
			t.Errorf("Line %d appears corrupted: %q", i, line)
		}
	}
}

func TestRecordingLogger_CapturesLevels(t *testing.T) {
	logger := NewRecordingLogger()
	logger.Verbose("listing %s", "/d")
	logger.Info("done")
	logger.Error("failed %d", 2)

	entries := logger.Entries()
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0] != (Entry{Level: "verbose", Message: "listing /d"}) {
		t.Errorf("Unexpected first entry %+v", entries[0])
	}
	if entries[2].Level != "error" || entries[2].Message != "failed 2" {
		t.Errorf("Unexpected last entry %+v", entries[2])
	}
	if !logger.Contains("listing") {
		t.Error("Contains(listing) = false, want true")
	}
	if logger.Contains("absent") {
		t.Error("Contains(absent) = true, want false")
	}
}

func TestNullLogger_ConcurrentSafety(t *testing.T) {
	logger := NewNullLogger()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("message %d", id)
			logger.Verbose("verbose %d", id)
			logger.Error("error %d", id)
		}(i)
	}

	// Should complete without panic
	wg.Wait()
}

// BenchmarkConsoleLogger_Verbose measures performance of verbose logging
func BenchmarkConsoleLogger_Verbose(b *testing.B) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Verbose("benchmark message %d", i)
		buf.Reset()
	}
}

// BenchmarkConsoleLogger_VerboseDisabled measures performance when verbose is disabled
func BenchmarkConsoleLogger_VerboseDisabled(b *testing.B) {
	logger := NewConsoleLogger(false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Verbose("benchmark message %d", i)
	}
}

// Example demonstrates ConsoleLogger writing to stdout
func ExampleConsoleLogger() {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, true)
	logger.Info("Indexing files")
	logger.Verbose("listing %s", "/srv/data")
	logger.Error("Operation failed")
	fmt.Print(buf.String())
	// Output:
	// Indexing files
	// [VERBOSE] listing /srv/data
	// [ERROR] Operation failed
}

// Example demonstrates NullLogger usage
func ExampleNullLogger() {
	logger := NewNullLogger()
	logger.Info("This message is discarded")
	logger.Verbose("This too")
	logger.Error("And this")
	fmt.Println("Done")
	// Output:
	// Done
}
