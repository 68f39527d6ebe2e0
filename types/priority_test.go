package types

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"low", PriorityLow, false},
		{"Medium", PriorityMedium, false},
		{" HIGH ", PriorityHigh, false},
		{"", PriorityLow, false},
		{"alta", PriorityHigh, false},
		{"media", PriorityMedium, false},
		{"média", PriorityMedium, false},
		{"baixa", PriorityLow, false},
		{"urgent", PriorityLow, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePriority(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePriority(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPriorityOrder(t *testing.T) {
	if PriorityHigh.Compare(PriorityMedium) >= 0 {
		t.Error("high should sort before medium")
	}
	if PriorityMedium.Compare(PriorityLow) >= 0 {
		t.Error("medium should sort before low")
	}
	if PriorityLow.Compare(PriorityLow) != 0 {
		t.Error("equal priorities should compare equal")
	}
	if got := Priority(42).Rank(); got <= PriorityLow.Rank() {
		t.Errorf("unknown priority rank = %d, want after low", got)
	}
}

func TestPriorityLabel(t *testing.T) {
	got := []string{PriorityHigh.Label(), PriorityMedium.Label(), PriorityLow.Label()}
	want := []string{"High", "Medium", "Low"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestTaskJSONRoundTrip(t *testing.T) {
	tasks := []Task{
		{ID: 1700000000000, Title: "Buy milk", Date: "2024-05-01", Priority: PriorityHigh},
		{ID: 1700000000001, Title: "Write report", Description: "Q3", Date: "2024-05-02", Priority: PriorityMedium, Completed: true},
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got []Task
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(tasks, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTaskJSONFormat(t *testing.T) {
	data, err := json.Marshal(Task{ID: 42, Title: "A", Date: "2024-01-02", Priority: PriorityMedium})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":42,"title":"A","description":"","date":"2024-01-02","priority":"medium","completed":false}`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}
}

func TestTaskUnmarshalLegacyPriority(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id":7,"title":"x","date":"2024-01-01","priority":"alta","completed":false}`), &task); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if task.Priority != PriorityHigh {
		t.Errorf("priority = %v, want high", task.Priority)
	}

	if err := json.Unmarshal([]byte(`{"id":8,"priority":"whenever"}`), &task); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 1700000000000 ")
	if err != nil || id != 1700000000000 {
		t.Errorf("ParseID = %v, %v", id, err)
	}
	for _, bad := range []string{"", "abc", "-3", "0"} {
		if _, err := ParseID(bad); err == nil {
			t.Errorf("ParseID(%q) expected error", bad)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2024-02-29"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "2024-02-30", "02/01/2024"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) expected error", bad)
		}
	}
}
