package mailbox

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func statsHeader(from, subject string) []byte {
	return []byte(fmt.Sprintf("From: %s\r\nTo: me@example.com\r\nSubject: %s\r\nDate: Mon, 02 Jan 2006 15:04:05 -0700\r\n", from, subject))
}

func TestSummarizeCountsSendersAndKeywords(t *testing.T) {
	tr := &fakeTransport{
		search: map[string][]uint32{"INBOX": {1, 2, 3}},
		headers: map[uint32][]byte{
			1: statsHeader("Alice <alice@example.com>", "Project Update"),
			2: statsHeader("ALICE@example.com", "Project kickoff for the team"),
			3: statsHeader("Bob <bob@example.com>", "Lunch"),
		},
	}
	sess := testSession(tr)

	snap, err := sess.Summarize("INBOX")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if snap.Folder != "INBOX" {
		t.Errorf("Folder = %q, want INBOX", snap.Folder)
	}
	if snap.TotalMessages != 3 || snap.Analyzed != 3 {
		t.Errorf("totals = (%d, %d), want (3, 3)", snap.TotalMessages, snap.Analyzed)
	}

	wantSenders := []SenderCount{
		{Sender: "alice@example.com", Count: 2},
		{Sender: "bob@example.com", Count: 1},
	}
	if !reflect.DeepEqual(snap.TopSenders, wantSenders) {
		t.Errorf("TopSenders = %v, want %v", snap.TopSenders, wantSenders)
	}

	counts := make(map[string]int)
	for _, k := range snap.TopKeywords {
		counts[k.Keyword] = k.Count
	}
	if counts["project"] != 2 {
		t.Errorf("keyword 'project' count = %d, want 2", counts["project"])
	}
	if counts["lunch"] != 1 {
		t.Errorf("keyword 'lunch' count = %d, want 1", counts["lunch"])
	}
	// "for" and "the" are stop words.
	if _, ok := counts["for"]; ok {
		t.Error("stop word 'for' should not be counted")
	}
	if _, ok := counts["the"]; ok {
		t.Error("stop word 'the' should not be counted")
	}
}

func TestSummarizeSamplesLargeFolders(t *testing.T) {
	uids := make([]uint32, 5000)
	for i := range uids {
		uids[i] = uint32(i + 1)
	}
	tr := &fakeTransport{search: map[string][]uint32{"INBOX": uids}}
	sink := &recordingSink{}
	sess := testSessionWithSink(tr, sink)

	snap, err := sess.Summarize("INBOX")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if snap.TotalMessages != 5000 {
		t.Errorf("TotalMessages = %d, want 5000", snap.TotalMessages)
	}
	if snap.Analyzed != sampleCeiling {
		t.Errorf("Analyzed = %d, want %d", snap.Analyzed, sampleCeiling)
	}
	if sink.total != sampleCeiling {
		t.Errorf("progress total = %d, want %d", sink.total, sampleCeiling)
	}

	sampled := false
	for _, log := range sink.logs {
		if strings.Contains(log, "sampling") {
			sampled = true
		}
	}
	if !sampled {
		t.Error("sampling should be logged")
	}
}

func TestSummarizeSkipsNoSubject(t *testing.T) {
	tr := &fakeTransport{
		search: map[string][]uint32{"INBOX": {1}},
		headers: map[uint32][]byte{
			1: []byte("From: a@example.com\r\n"),
		},
	}
	sess := testSession(tr)

	snap, err := sess.Summarize("INBOX")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(snap.TopKeywords) != 0 {
		t.Errorf("TopKeywords = %v, want none (placeholder subject excluded)", snap.TopKeywords)
	}
	if len(snap.TopSenders) != 1 {
		t.Errorf("TopSenders = %v, want the one sender", snap.TopSenders)
	}
}

func TestSummarizeDefaultsToInbox(t *testing.T) {
	tr := &fakeTransport{search: map[string][]uint32{"INBOX": {}}}
	sess := testSession(tr)

	snap, err := sess.Summarize("")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if snap.Folder != "INBOX" {
		t.Errorf("Folder = %q, want INBOX", snap.Folder)
	}
}

func TestSummarizeSelectFailure(t *testing.T) {
	tr := &fakeTransport{selectErr: map[string]error{"Nope": errors.New("NO select")}}
	sess := testSession(tr)

	if _, err := sess.Summarize("Nope"); err == nil {
		t.Fatal("Summarize() should fail when the folder cannot be selected")
	}
}

func TestSummarizeToleratesHeaderFailures(t *testing.T) {
	tr := &fakeTransport{
		search: map[string][]uint32{"INBOX": {1, 2}},
		headers: map[uint32][]byte{
			2: statsHeader("a@example.com", "Hello"),
		},
	}
	sess := testSession(tr)

	snap, err := sess.Summarize("INBOX")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if snap.Analyzed != 2 {
		t.Errorf("Analyzed = %d, want 2 (failures counted as analyzed)", snap.Analyzed)
	}
	if len(snap.TopSenders) != 1 {
		t.Errorf("TopSenders = %v, want the one readable sender", snap.TopSenders)
	}
}

func TestTallyRanking(t *testing.T) {
	tl := newTally()
	for _, key := range []string{"b", "a", "b", "c", "a", "b"} {
		tl.add(key)
	}

	got := tl.top(2)
	if len(got) != 2 {
		t.Fatalf("top(2) returned %d entries", len(got))
	}
	if got[0].key != "b" || got[0].count != 3 {
		t.Errorf("first = %+v, want b/3", got[0])
	}
	if got[1].key != "a" || got[1].count != 2 {
		t.Errorf("second = %+v, want a/2", got[1])
	}
}

func TestTallyTieBreaksOnFirstSeen(t *testing.T) {
	tl := newTally()
	tl.add("zeta")
	tl.add("alpha")

	got := tl.top(2)
	if got[0].key != "zeta" || got[1].key != "alpha" {
		t.Errorf("tie order = [%s %s], want first-seen order [zeta alpha]", got[0].key, got[1].key)
	}
}
