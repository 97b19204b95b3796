package mailbox

import (
	"errors"
	"time"
)

// Folder classification tags. Used only to order search candidates, never
// for correctness.
const (
	ClassInbox = "inbox"
	ClassSent  = "sent"
	ClassOther = "other"
)

type Folder struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

// MessageID identifies a message within one session. The UID is opaque to
// callers and only unique within its origin folder.
type MessageID struct {
	UID    uint32 `json:"uid"`
	Folder string `json:"folder"`
}

type MessageRecord struct {
	UID     uint32 `json:"uid"`
	Folder  string `json:"folder"`
	From    string `json:"from"`
	To      string `json:"to"`
	Cc      string `json:"cc,omitempty"`
	Subject string `json:"subject"`
	Date    string `json:"date"` // raw header value, not guaranteed parseable
	Body    string `json:"body,omitempty"`
}

// FetchResult carries the best-effort outcome of one FetchDetails call.
// A Failed count above zero means the record list may be incomplete.
type FetchResult struct {
	Records []MessageRecord `json:"records"`
	Failed  int             `json:"failed"`
}

type SenderCount struct {
	Sender string `json:"sender"`
	Count  int    `json:"count"`
}

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type StatsSnapshot struct {
	Folder        string         `json:"folder"`
	TotalMessages int            `json:"total_messages"`
	Analyzed      int            `json:"analyzed"`
	TopSenders    []SenderCount  `json:"top_senders"`
	TopKeywords   []KeywordCount `json:"top_keywords"`
}

// DefaultLimit caps search results when the filter does not set one.
const DefaultLimit = 100

// ErrEmptyFilter is returned before any server call when a filter carries
// no predicates.
var ErrEmptyFilter = errors.New("search filter has no predicates")

// Filter is a conjunction of optional predicates. At least one predicate
// must be set for a search to run; Limit alone does not count.
type Filter struct {
	From    string
	To      string
	Cc      string
	Subject string
	Since   time.Time // inclusive
	Before  time.Time // exclusive
	Limit   int
}

func (f Filter) Empty() bool {
	return f.From == "" && f.To == "" && f.Cc == "" && f.Subject == "" &&
		f.Since.IsZero() && f.Before.IsZero()
}

// fromOnly reports whether the sender predicate is the only one present.
// Such filters are assumed to target outgoing mail (see Session.Search).
func (f Filter) fromOnly() bool {
	return f.From != "" && f.To == "" && f.Cc == "" && f.Subject == "" &&
		f.Since.IsZero() && f.Before.IsZero()
}

func (f Filter) limit() int {
	if f.Limit > 0 {
		return f.Limit
	}
	return DefaultLimit
}

// Sink receives progress and diagnostic output from the pipeline. All
// methods may be no-ops; the core never depends on their behavior.
type Sink interface {
	StartProgress(total int)
	Advance(n int)
	Logf(format string, args ...interface{})
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) StartProgress(int)           {}
func (NopSink) Advance(int)                 {}
func (NopSink) Logf(string, ...interface{}) {}
