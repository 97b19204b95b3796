package mailbox

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/emersion/go-imap/v2"
)

const (
	// sampleCeiling bounds how many messages one Summarize call inspects.
	// Larger folders are sampled from the most recent end; the snapshot is
	// an approximation by design.
	sampleCeiling = 1000

	topSenderCount  = 10
	topKeywordCount = 15
)

var (
	addrPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	wordPattern = regexp.MustCompile(`[a-zA-Z]{3,}`)
)

// StopWords are subject tokens too common to count as keywords.
var StopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"was": true, "one": true, "our": true, "out": true, "day": true,
	"get": true, "has": true, "him": true, "his": true, "how": true,
	"its": true, "new": true, "now": true, "old": true, "see": true,
	"two": true, "who": true, "boy": true, "did": true, "may": true,
	"say": true, "she": true, "use": true, "her": true, "way": true,
	"will": true, "your": true,
}

// Summarize tabulates sender and subject-keyword frequencies for a folder.
// Nothing is cached; every call recomputes from the server.
func (s *Session) Summarize(folder string) (*StatsSnapshot, error) {
	if folder == "" {
		folder = "INBOX"
	}

	if _, err := s.selectFolder(folder); err != nil {
		return nil, fmt.Errorf("failed to select folder %s: %w", folder, err)
	}

	uids, err := s.tr.SearchUIDs(&imap.SearchCriteria{})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", folder, err)
	}

	total := len(uids)
	if total > sampleCeiling {
		uids = uids[total-sampleCeiling:]
		s.sink.Logf("sampling the %d most recent of %d messages", sampleCeiling, total)
	}

	senders := newTally()
	keywords := newTally()

	s.sink.StartProgress(len(uids))
	for _, uid := range uids {
		hdr, err := s.tr.FetchHeaders(uid)
		s.sink.Advance(1)
		if err != nil {
			s.sink.Logf("headers for message %d unavailable: %v", uid, err)
			continue
		}

		rec := parseHeaderBlock(hdr)
		if addr := addrPattern.FindString(rec.From); addr != "" {
			senders.add(strings.ToLower(addr))
		}
		if rec.Subject != noSubject {
			for _, word := range wordPattern.FindAllString(strings.ToLower(rec.Subject), -1) {
				if !StopWords[word] {
					keywords.add(word)
				}
			}
		}
	}

	snapshot := &StatsSnapshot{
		Folder:        folder,
		TotalMessages: total,
		Analyzed:      len(uids),
	}
	for _, e := range senders.top(topSenderCount) {
		snapshot.TopSenders = append(snapshot.TopSenders, SenderCount{Sender: e.key, Count: e.count})
	}
	for _, e := range keywords.top(topKeywordCount) {
		snapshot.TopKeywords = append(snapshot.TopKeywords, KeywordCount{Keyword: e.key, Count: e.count})
	}
	return snapshot, nil
}

// tally is a frequency counter that remembers first-seen order so ranking
// ties break deterministically.
type tally struct {
	counts map[string]int
	order  map[string]int
	next   int
}

func newTally() *tally {
	return &tally{
		counts: make(map[string]int),
		order:  make(map[string]int),
	}
}

func (t *tally) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order[key] = t.next
		t.next++
	}
	t.counts[key]++
}

type tallyEntry struct {
	key   string
	count int
}

func (t *tally) top(n int) []tallyEntry {
	entries := make([]tallyEntry, 0, len(t.counts))
	for key, count := range t.counts {
		entries = append(entries, tallyEntry{key: key, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return t.order[entries[i].key] < t.order[entries[j].key]
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
