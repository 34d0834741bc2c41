package models

import (
	"encoding/json"
	"testing"
)

func TestSubtaskProgress(t *testing.T) {
	task := Task{
		Subtasks: []Subtask{
			{Id: "a", Title: "Draft copy", Completed: true},
			{Id: "b", Title: "Get approval", Completed: false},
		},
	}

	completed, total := task.SubtaskProgress()
	if completed != 1 || total != 2 {
		t.Fatalf("expected progress 1/2, got %d/%d", completed, total)
	}
}

func TestSubtaskProgressEmpty(t *testing.T) {
	completed, total := Task{}.SubtaskProgress()
	if completed != 0 || total != 0 {
		t.Fatalf("expected progress 0/0, got %d/%d", completed, total)
	}
}

func TestDateRoundTrip(t *testing.T) {
	date, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if date.String() != "2024-01-15" {
		t.Fatalf("expected 2024-01-15, got %q", date.String())
	}

	encoded, err := json.Marshal(date)
	if err != nil {
		t.Fatalf("marshal date: %v", err)
	}
	if string(encoded) != `"2024-01-15"` {
		t.Fatalf("expected quoted date, got %s", encoded)
	}

	var decoded Date
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal date: %v", err)
	}
	if decoded != date {
		t.Fatalf("expected %v after round trip, got %v", date, decoded)
	}
}

func TestZeroDateMarshalsNull(t *testing.T) {
	encoded, err := json.Marshal(Date{})
	if err != nil {
		t.Fatalf("marshal zero date: %v", err)
	}
	if string(encoded) != "null" {
		t.Fatalf("expected null, got %s", encoded)
	}

	var decoded Date
	if err := json.Unmarshal([]byte("null"), &decoded); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !decoded.IsZero() {
		t.Fatalf("expected zero date, got %v", decoded)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Fatalf("expected an error for garbage input")
	}
}
