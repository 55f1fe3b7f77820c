package audit

import "testing"

func TestLog_RecordAndRecent(t *testing.T) {
	l := New(3)

	l.Record("search_services", `{"query":"lambda"}`, "ok", "")
	l.Record("get_service_schema", `{"serviceCode":"AmazonS3"}`, "ok", "")
	l.Record("configure_service", `{"serviceCode":"bogus"}`, "error", "fetching definition: HTTP 404")

	recent := l.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("len(recent) = %d, want 2", len(recent))
	}
	if recent[0].Tool != "configure_service" {
		t.Errorf("recent[0].Tool = %q, want %q (most recent first)", recent[0].Tool, "configure_service")
	}
	if recent[0].Outcome != "error" {
		t.Errorf("recent[0].Outcome = %q, want %q", recent[0].Outcome, "error")
	}
	if recent[1].Tool != "get_service_schema" {
		t.Errorf("recent[1].Tool = %q, want %q", recent[1].Tool, "get_service_schema")
	}
}

func TestLog_RingBufferOverwritesOldest(t *testing.T) {
	l := New(2)

	l.Record("a", "", "ok", "")
	l.Record("b", "", "ok", "")
	l.Record("c", "", "ok", "")

	all := l.Recent(10)
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}
	if all[0].Tool != "c" || all[1].Tool != "b" {
		t.Errorf("all = [%s, %s], want [c, b]", all[0].Tool, all[1].Tool)
	}
}

func TestLog_RecentMoreThanAvailable(t *testing.T) {
	l := New(5)
	l.Record("a", "", "ok", "")

	recent := l.Recent(10)
	if len(recent) != 1 {
		t.Fatalf("len(recent) = %d, want 1", len(recent))
	}
}

func TestLog_FlushWithNoWriterIsNoop(t *testing.T) {
	l := New(1)
	l.Record("a", "", "ok", "")
	l.Flush() // must not panic
}
