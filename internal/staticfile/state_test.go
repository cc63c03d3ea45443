package staticfile

import "testing"

func TestTraceCollectsOnlyWhenDebugEnabled(t *testing.T) {
	st := NewRequestState(false)
	st.Tracef("line %d", 1)
	if len(st.TraceEntries()) != 0 {
		t.Fatalf("trace must stay empty without the debug flag")
	}

	st = NewRequestState(true)
	st.Tracef("line %d", 1)
	st.Tracef("line %d", 2)
	entries := st.TraceEntries()
	if len(entries) != 2 || entries[0] != "line 1" || entries[1] != "line 2" {
		t.Fatalf("unexpected trace entries: %v", entries)
	}
}

func TestTracefOnNilStateIsSafe(t *testing.T) {
	var st *RequestState
	st.Tracef("ignored")
	if st.DebugEnabled() {
		t.Fatalf("nil state must report debug disabled")
	}
	if st.TraceEntries() != nil {
		t.Fatalf("nil state must have no entries")
	}
}
