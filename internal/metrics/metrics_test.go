package metrics

import "testing"

func TestUsageSnapshot(t *testing.T) {
	u := New()
	u.AddRequest("gpt-4")
	u.AddFragment("gpt-4")
	u.AddFragment("gpt-4")
	u.AddTurn("gpt-4")
	u.AddRequest("gpt-3.5-turbo")
	u.AddError("gpt-3.5-turbo")

	got := u.Snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 models, got %d", len(got))
	}
	if got[0] != (ModelUsage{Model: "gpt-3.5-turbo", Requests: 1, Errors: 1}) {
		t.Fatalf("unexpected usage: %+v", got[0])
	}
	if got[1] != (ModelUsage{Model: "gpt-4", Requests: 1, Turns: 1, Fragments: 2}) {
		t.Fatalf("unexpected usage: %+v", got[1])
	}
}
