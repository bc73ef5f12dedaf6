package task

import (
	"reflect"
	"testing"
)

func TestParseTagsTrimsAndKeepsDuplicates(t *testing.T) {
	got := ParseTags("work, , urgent,work")
	want := []string{"work", "urgent", "work"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTags = %v, want %v", got, want)
	}
	again := ParseTags(JoinTags(got))
	if !reflect.DeepEqual(again, want) {
		t.Fatalf("round trip = %v, want %v", again, want)
	}
}

func TestParseTagsEmptyInput(t *testing.T) {
	for _, raw := range []string{"", " ", ",,", " , ,"} {
		if got := ParseTags(raw); len(got) != 0 {
			t.Fatalf("ParseTags(%q) = %v, want empty", raw, got)
		}
	}
}

func TestParseStatusAndPriority(t *testing.T) {
	if s, err := ParseStatus(" In-Progress "); err != nil || s != StatusInProgress {
		t.Fatalf("ParseStatus = %q, %v", s, err)
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if p, err := ParsePriority("HIGH"); err != nil || p != PriorityHigh {
		t.Fatalf("ParsePriority = %q, %v", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatalf("expected error for unknown priority")
	}
}

func TestPatchApplyLeavesUnsetFields(t *testing.T) {
	orig := Task{
		ID:          7,
		Title:       "Ship release",
		Description: "cut the tag",
		Status:      StatusInProgress,
		Priority:    PriorityHigh,
		DueDate:     "2025-11-01",
		Tags:        []string{"ops", "release"},
	}
	got := orig.Clone()
	StatusPatch(StatusCompleted).Apply(&got)

	want := orig.Clone()
	want.Status = StatusCompleted
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("after patch = %+v, want %+v", got, want)
	}
}

func TestFullPatchDoesNotAliasTags(t *testing.T) {
	fields := Fields{Title: "a", Tags: []string{"x"}}
	patch := FullPatch(fields)
	fields.Tags[0] = "mutated"
	var target Task
	patch.Apply(&target)
	if target.Tags[0] != "x" {
		t.Fatalf("patch tags aliased caller slice: %v", target.Tags)
	}
}
