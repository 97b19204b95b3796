package mailbox

import (
	"strings"

	"github.com/emersion/go-imap/v2"
)

// criteria conjoins the filter's predicates into one server-side query.
// Header values are passed verbatim; the date pair maps onto IMAP's
// inclusive SINCE / exclusive BEFORE convention.
func (f Filter) criteria() *imap.SearchCriteria {
	c := &imap.SearchCriteria{}

	if f.From != "" {
		c.Header = append(c.Header, imap.SearchCriteriaHeaderField{Key: "From", Value: f.From})
	}
	if f.To != "" {
		c.Header = append(c.Header, imap.SearchCriteriaHeaderField{Key: "To", Value: f.To})
	}
	if f.Cc != "" {
		c.Header = append(c.Header, imap.SearchCriteriaHeaderField{Key: "Cc", Value: f.Cc})
	}
	if f.Subject != "" {
		c.Header = append(c.Header, imap.SearchCriteriaHeaderField{Key: "Subject", Value: f.Subject})
	}
	if !f.Since.IsZero() {
		c.Since = f.Since
	}
	if !f.Before.IsZero() {
		c.Before = f.Before
	}

	return c
}

// Search runs the filter against the requested folder and returns matching
// identifiers, deduplicated, capped at the filter's limit by keeping the
// most recent (tail of the ascending UID list).
//
// A filter whose only predicate is From is assumed to target outgoing mail:
// resolved sent-like folders are searched ahead of the requested folder and
// the search stops at the first folder that yields a match. This inference
// is best-effort, not a correctness guarantee.
//
// A failed search in one folder is logged and skipped; it never aborts the
// remaining folders.
func (s *Session) Search(filter Filter, folder string) ([]MessageID, error) {
	if filter.Empty() {
		return nil, ErrEmptyFilter
	}
	if folder == "" {
		folder = "INBOX"
	}

	candidates := []string{folder}
	fromOnly := filter.fromOnly()
	if fromOnly {
		if sent := s.sentFolders(); len(sent) > 0 {
			s.sink.Logf("from-only filter, searching sent folders first: %s", strings.Join(sent, ", "))
			candidates = sent
			if !containsFolder(sent, folder) {
				candidates = append(sent, folder)
			}
		}
	}

	criteria := filter.criteria()
	found := make(map[uint32]bool)
	var ids []MessageID

	for _, name := range candidates {
		if _, err := s.selectFolder(name); err != nil {
			s.sink.Logf("cannot select %s, skipping: %v", name, err)
			continue
		}

		uids, err := s.tr.SearchUIDs(criteria)
		if err != nil {
			s.sink.Logf("search in %s failed, skipping: %v", name, err)
			continue
		}

		for _, uid := range uids {
			if found[uid] {
				continue
			}
			found[uid] = true
			ids = append(ids, MessageID{UID: uid, Folder: name})
		}

		if fromOnly && len(ids) > 0 {
			break
		}
	}

	if limit := filter.limit(); len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}
	return ids, nil
}

func containsFolder(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
