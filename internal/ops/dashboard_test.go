package ops

import (
	"testing"
)

func TestDashboard_EmptyStore(t *testing.T) {
	database := seededDB(t)

	out, err := Dashboard(database)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if out.Summary != "" {
		t.Errorf("Summary = %q, want empty", out.Summary)
	}
	if out.TodayCount != 0 {
		t.Errorf("TodayCount = %d, want 0", out.TodayCount)
	}
	if len(out.Buckets) != 5 {
		t.Errorf("len(Buckets) = %d, want 5", len(out.Buckets))
	}
}

func TestDashboard_SummaryAndCounts(t *testing.T) {
	database := seededDB(t)

	mustAdd(t, database, AddInput{Type: "text", Bucket: "ideas", NoteBody: stringPtr("app concept")})
	mustAdd(t, database, AddInput{Type: "link", Bucket: "shopping", URL: stringPtr("https://store.example/cart")})
	mustAdd(t, database, AddInput{Type: "link", Bucket: "work", URL: stringPtr("https://company.example/spec")})

	out, err := Dashboard(database)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	want := "💡 1 ideas, 🛒 1 to consider, 💼 1 work refs"
	if out.Summary != want {
		t.Errorf("Summary = %q, want %q", out.Summary, want)
	}
	if out.TodayCount != 3 {
		t.Errorf("TodayCount = %d, want 3", out.TodayCount)
	}
}
