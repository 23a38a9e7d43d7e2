package store

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/randsearch/internal/space"
)

func TestTraceWriter_WriteAndRead(t *testing.T) {
	// Create temp directory
	tmpDir := t.TempDir()

	runID := "test-run-123"

	// Create trace writer
	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}

	// Write some entries
	entries := []TraceEntry{
		{Index: 0, Point: space.Point{1.0, 2.0}, Value: 1.0, Timestamp: time.Now()},
		{Index: 1, Point: space.Point{0.5, 1.5}, Value: 0.8, Timestamp: time.Now()},
		{Index: 2, Point: space.Point{-0.2, 0.9}, Value: 0.6, Timestamp: time.Now()},
		{Index: 3, Point: space.Point{0.1, 0.3}, Value: 0.4, Timestamp: time.Now()},
	}

	for _, entry := range entries {
		if err := writer.Write(entry); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}

	// Close writer
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	// Verify file exists
	tracePath := filepath.Join(tmpDir, "runs", runID, "trace.jsonl")
	if _, err := os.Stat(tracePath); os.IsNotExist(err) {
		t.Fatalf("Trace file not created: %s", tracePath)
	}

	// Read entries back
	reader, err := NewTraceReader(tmpDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	readEntries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}

	// Verify count
	if len(readEntries) != len(entries) {
		t.Fatalf("Expected %d entries, got %d", len(entries), len(readEntries))
	}

	// Verify data
	for i, entry := range readEntries {
		if entry.Index != entries[i].Index {
			t.Errorf("Entry %d: expected index %d, got %d", i, entries[i].Index, entry.Index)
		}
		if entry.Value != entries[i].Value {
			t.Errorf("Entry %d: expected value %f, got %f", i, entries[i].Value, entry.Value)
		}
		if len(entry.Point) != len(entries[i].Point) {
			t.Errorf("Entry %d: expected %d coordinates, got %d", i, len(entries[i].Point), len(entry.Point))
		}
	}
}

func TestTraceWriter_Append(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-append"

	// Write initial entries
	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}

	if err := writer.Write(TraceEntry{Index: 0, Point: space.Point{1.0}, Value: 1.0, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	// Append more entries
	writer, err = NewTraceWriter(tmpDir, runID, true)
	if err != nil {
		t.Fatalf("Failed to create trace writer in append mode: %v", err)
	}

	if err := writer.Write(TraceEntry{Index: 1, Point: space.Point{0.5}, Value: 0.8, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	// Read all entries
	reader, err := NewTraceReader(tmpDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	entries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}

	// Should have both entries
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Index != 0 {
		t.Errorf("First entry: expected index 0, got %d", entries[0].Index)
	}
	if entries[1].Index != 1 {
		t.Errorf("Second entry: expected index 1, got %d", entries[1].Index)
	}
}

func TestTraceWriter_Flush(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-flush"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	defer writer.Close()

	// Write entry
	if err := writer.Write(TraceEntry{Index: 0, Point: space.Point{1.0}, Value: 1.0, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}

	// Flush
	if err := writer.Flush(); err != nil {
		t.Fatalf("Failed to flush: %v", err)
	}

	// Data should be on disk now (even without closing)
	tracePath := filepath.Join(tmpDir, "runs", runID, "trace.jsonl")
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("Failed to read trace file: %v", err)
	}
	if len(data) == 0 {
		t.Error("Trace file is empty after flush")
	}
}

func TestTraceReader_ReadIteratively(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-iter"

	// Write entries
	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := writer.Write(TraceEntry{Index: i, Point: space.Point{float64(i)}, Value: 1.0 - float64(i)*0.1, Timestamp: time.Now()}); err != nil {
			t.Fatalf("Failed to write entry: %v", err)
		}
	}
	writer.Close()

	// Read iteratively
	reader, err := NewTraceReader(tmpDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		entry, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Failed to read entry: %v", err)
		}

		if entry.Index != count {
			t.Errorf("Entry %d: expected index %d, got %d", count, count, entry.Index)
		}

		count++
	}

	if count != 5 {
		t.Errorf("Expected to read 5 entries, got %d", count)
	}
}

func TestTraceReader_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "nonexistent-run"

	_, err := NewTraceReader(tmpDir, runID)
	if err == nil {
		t.Fatal("Expected error for nonexistent trace file")
	}

	// Should be NotFoundError
	if !isNotFoundError(err) {
		t.Errorf("Expected NotFoundError, got: %v", err)
	}
}

func TestTraceWriter_MixedPoint(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-mixed"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}

	// Points may mix numeric and categorical values
	entry := TraceEntry{
		Index:     0,
		Point:     space.Point{1.5, 3, "relu"},
		Value:     0.123,
		Timestamp: time.Now(),
	}

	if err := writer.Write(entry); err != nil {
		t.Fatalf("Failed to write entry: %v", err)
	}
	writer.Close()

	// Read back
	reader, err := NewTraceReader(tmpDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	readEntry, err := reader.Read()
	if err != nil {
		t.Fatalf("Failed to read entry: %v", err)
	}

	if len(readEntry.Point) != 3 {
		t.Fatalf("Expected 3 coordinates, got %d", len(readEntry.Point))
	}

	if s, ok := readEntry.Point[2].(string); !ok || s != "relu" {
		t.Errorf("Expected categorical coordinate %q, got %v", "relu", readEntry.Point[2])
	}
}

func TestDeleteTrace(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-delete"

	// Create trace file
	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	writer.Write(TraceEntry{Index: 0, Point: space.Point{1.0}, Value: 1.0, Timestamp: time.Now()})
	writer.Close()

	// Verify file exists
	tracePath := filepath.Join(tmpDir, "runs", runID, "trace.jsonl")
	if _, err := os.Stat(tracePath); os.IsNotExist(err) {
		t.Fatal("Trace file was not created")
	}

	// Delete trace
	if err := DeleteTrace(tmpDir, runID); err != nil {
		t.Fatalf("Failed to delete trace: %v", err)
	}

	// Verify file is gone
	if _, err := os.Stat(tracePath); !os.IsNotExist(err) {
		t.Error("Trace file still exists after delete")
	}
}

func TestDeleteTrace_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "nonexistent-run"

	// Should not error when deleting nonexistent trace
	if err := DeleteTrace(tmpDir, runID); err != nil {
		t.Errorf("DeleteTrace should not error for nonexistent file, got: %v", err)
	}
}

func TestTraceWriter_ConcurrentWrites(t *testing.T) {
	tmpDir := t.TempDir()
	runID := "test-run-concurrent"

	writer, err := NewTraceWriter(tmpDir, runID, false)
	if err != nil {
		t.Fatalf("Failed to create trace writer: %v", err)
	}
	defer writer.Close()

	// Write from multiple goroutines
	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(idx int) {
			entry := TraceEntry{
				Index:     idx,
				Point:     space.Point{float64(idx)},
				Value:     float64(idx),
				Timestamp: time.Now(),
			}
			if err := writer.Write(entry); err != nil {
				t.Errorf("Concurrent write failed: %v", err)
			}
			done <- true
		}(i)
	}

	// Wait for all writes
	for i := 0; i < 10; i++ {
		<-done
	}

	writer.Flush()

	// Read back and verify we got 10 entries
	reader, err := NewTraceReader(tmpDir, runID)
	if err != nil {
		t.Fatalf("Failed to create trace reader: %v", err)
	}
	defer reader.Close()

	entries, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read entries: %v", err)
	}

	if len(entries) != 10 {
		t.Errorf("Expected 10 entries, got %d", len(entries))
	}
}

// Helper function to check if error is NotFoundError
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*NotFoundError)
	return ok
}
