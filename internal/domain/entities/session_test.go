package entities

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestMarkStatusScore(t *testing.T) {
	cases := []struct {
		status MarkStatus
		want   int
	}{
		{MarkAnswered, 10},
		{MarkNeedsImprovement, 5},
		{MarkWrong, 0},
		{MarkSkipped, 0},
	}
	for _, tc := range cases {
		if got := tc.status.Score(); got != tc.want {
			t.Errorf("Score(%q) = %d, want %d", tc.status, got, tc.want)
		}
	}
}

func TestParseModuleID(t *testing.T) {
	cases := []struct {
		label   string
		want    int
		wantErr bool
	}{
		{"Module 3", 3, false},
		{"Module 12", 12, false},
		{"Advanced Module 7", 7, false},
		{"Module", 0, true},
		{"Module three", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseModuleID(tc.label)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseModuleID(%q) expected error, got %d", tc.label, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseModuleID(%q) error = %v", tc.label, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseModuleID(%q) = %d, want %d", tc.label, got, tc.want)
		}
	}
}

func TestDecodeSnapshotMalformed(t *testing.T) {
	snap := DecodeSnapshot([]byte(`{"currentIndex": "not a number"`))
	if !reflect.DeepEqual(snap, Snapshot{}) {
		t.Errorf("malformed data should decode to a zero snapshot, got %+v", snap)
	}
}

func TestRestoreSnapshotPartial(t *testing.T) {
	state := NewSessionState(7, 1)
	state.RestoreSnapshot(Snapshot{CurrentIndex: 2})

	if state.CurrentIndex != 2 {
		t.Errorf("current index = %d, want 2", state.CurrentIndex)
	}
	if state.Phase != PhaseInProgress {
		t.Errorf("missing phase should keep the default, got %q", state.Phase)
	}
	if state.ElapsedSeconds != 0 || state.PracticalScore != 0 {
		t.Errorf("missing fields should keep defaults: elapsed=%d practical=%v",
			state.ElapsedSeconds, state.PracticalScore)
	}
}

func TestRestoreSnapshotSanitizes(t *testing.T) {
	state := NewSessionState(7, 1)
	state.RestoreSnapshot(Snapshot{
		Results: []QuestionMark{
			{QuestionID: 1, Status: MarkAnswered, Score: 3}, // stale stored score
			{QuestionID: 2, Status: MarkStatus("great")},    // unknown status
		},
		PracticalMark: 99, // out of range
		Phase:         Phase("half_done"),
	})

	if got := state.Marks[1].Score; got != 10 {
		t.Errorf("score must be re-derived from status: got %d, want 10", got)
	}
	if _, ok := state.Marks[2]; ok {
		t.Error("marks with unknown statuses must be dropped")
	}
	if state.PracticalScore != 0 {
		t.Errorf("out-of-range practical mark should be ignored, got %v", state.PracticalScore)
	}
	if state.Phase != PhaseInProgress {
		t.Errorf("unknown phase should keep the default, got %q", state.Phase)
	}
}

func TestToSnapshotDeterministic(t *testing.T) {
	a := NewSessionState(7, 1)
	a.Marks[3] = NewQuestionMark(3, MarkWrong)
	a.Marks[1] = NewQuestionMark(1, MarkAnswered)
	a.Marks[2] = NewQuestionMark(2, MarkSkipped)

	b := NewSessionState(7, 1)
	b.Marks[2] = NewQuestionMark(2, MarkSkipped)
	b.Marks[1] = NewQuestionMark(1, MarkAnswered)
	b.Marks[3] = NewQuestionMark(3, MarkWrong)

	aJSON, err := json.Marshal(a.ToSnapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	bJSON, err := json.Marshal(b.ToSnapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(aJSON) != string(bJSON) {
		t.Errorf("equal states must serialize identically:\n%s\n%s", aJSON, bJSON)
	}

	results := a.ToSnapshot().Results
	for i := 1; i < len(results); i++ {
		if results[i-1].QuestionID > results[i].QuestionID {
			t.Fatalf("results not sorted by question ID: %+v", results)
		}
	}
}

func TestScoreRoundTripJSONShape(t *testing.T) {
	state := NewSessionState(7, 1)
	state.Marks[1] = NewQuestionMark(1, MarkAnswered)
	state.PracticalScore = 8

	data, err := json.Marshal(state.Score(2))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"theoretical", "maxTheoretical", "practical", "total", "passed"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("score JSON missing key %q: %s", key, data)
		}
	}
}
