package mailbox

import (
	"bytes"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

const (
	// maxFetchFailures is the per-call error budget: once more failures
	// than this have accumulated, the remaining batch is abandoned.
	maxFetchFailures = 5

	// throttleEvery / throttleDelay pace the fetch loop so a large batch
	// does not hammer the server. Fixed delay, not a backoff.
	throttleEvery = 5
	throttleDelay = 200 * time.Millisecond

	maxBodyParts = 10
	bodyCap      = 4096
)

const (
	unknownField          = "Unknown"
	noSubject             = "No Subject"
	unreadablePlaceholder = "[unreadable body]"
)

// FetchDetails retrieves full records for the given identifiers, preserving
// input order. It never fails as a whole: individual fetch errors are
// counted and skipped, degrading from full message to headers-only where
// possible, and the batch is cut short once the error budget is spent.
// Callers must treat a short result as possibly incomplete.
func (s *Session) FetchDetails(ids []MessageID, limit int) FetchResult {
	if limit > 0 && len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}

	var result FetchResult
	s.sink.StartProgress(len(ids))

	for i, id := range ids {
		if i > 0 && i%throttleEvery == 0 {
			s.pause(throttleDelay)
		}

		rec, err := s.fetchOne(id)
		s.sink.Advance(1)
		if err != nil {
			result.Failed++
			s.sink.Logf("fetch of message %d in %s failed: %v", id.UID, id.Folder, err)
			if result.Failed > maxFetchFailures {
				s.sink.Logf("giving up after %d failed fetches, returning %d of %d messages",
					result.Failed, len(result.Records), len(ids))
				break
			}
			continue
		}
		result.Records = append(result.Records, *rec)
	}

	return result
}

func (s *Session) fetchOne(id MessageID) (*MessageRecord, error) {
	if _, err := s.selectFolder(id.Folder); err != nil {
		return nil, err
	}

	raw, err := s.tr.FetchFull(id.UID)
	if err == nil {
		if rec := parseFullMessage(raw); rec != nil {
			rec.UID = id.UID
			rec.Folder = id.Folder
			return rec, nil
		}
		// Unparseable as MIME; fall back to the headers-only path using
		// whatever the server will still give us.
	}

	hdr, herr := s.tr.FetchHeaders(id.UID)
	if herr != nil {
		if err != nil {
			return nil, err
		}
		return nil, herr
	}

	rec := parseHeaderBlock(hdr)
	rec.UID = id.UID
	rec.Folder = id.Folder
	return rec, nil
}

// parseFullMessage builds a record from a raw RFC822 message, or nil when
// the message cannot be opened at all.
func parseFullMessage(raw []byte) *MessageRecord {
	reader, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	defer reader.Close()

	header := reader.Header
	rec := &MessageRecord{
		From:    headerOr(header.Get("From"), unknownField),
		To:      headerOr(header.Get("To"), unknownField),
		Cc:      header.Get("Cc"),
		Subject: headerOr(header.Get("Subject"), noSubject),
		Date:    headerOr(header.Get("Date"), unknownField),
	}
	rec.Body = extractBody(reader, header.Get("Content-Type"), raw)
	return rec
}

// extractBody walks up to maxBodyParts MIME parts preferring plain text,
// falling back to HTML stripped to text. Single-part messages are split
// manually after the header block. Decode failures yield a placeholder,
// never an error.
func extractBody(reader *mail.Reader, contentType string, raw []byte) string {
	var htmlBody string
	foundParts := false

	for n := 0; n < maxBodyParts; n++ {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		foundParts = true

		partType := part.Header.Get("Content-Type")
		if partType == "" {
			// RFC 822 default when no Content-Type is present.
			partType = "text/plain"
		}
		switch {
		case strings.HasPrefix(partType, "text/plain"):
			body, err := io.ReadAll(part.Body)
			if err != nil {
				return unreadablePlaceholder
			}
			return capBody(string(body))
		case strings.HasPrefix(partType, "text/html") && htmlBody == "":
			if body, err := io.ReadAll(part.Body); err == nil {
				htmlBody = string(body)
			}
		}
	}

	if htmlBody != "" {
		return capBody(htmlToText(htmlBody))
	}

	if !foundParts {
		// Single-part message: body follows the first blank line.
		rawStr := string(raw)
		idx := strings.Index(rawStr, "\r\n\r\n")
		skip := 4
		if idx == -1 {
			idx = strings.Index(rawStr, "\n\n")
			skip = 2
		}
		if idx != -1 {
			body := rawStr[idx+skip:]
			if strings.HasPrefix(contentType, "text/html") {
				return capBody(htmlToText(body))
			}
			return capBody(body)
		}
	}

	return ""
}

func capBody(body string) string {
	body = strings.TrimSpace(body)
	if len(body) <= bodyCap {
		return body
	}
	cut := bodyCap
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut]
}

// parseHeaderBlock parses a raw header section by hand. It tolerates a
// missing trailing newline, folded continuation lines, and arbitrary key
// casing, and fills absent fields with explicit placeholders.
func parseHeaderBlock(raw []byte) *MessageRecord {
	rec := &MessageRecord{
		From:    unknownField,
		To:      unknownField,
		Subject: noSubject,
		Date:    unknownField,
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += " " + strings.TrimSpace(line)
			continue
		}
		lines = append(lines, line)
	}

	for _, line := range lines {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		value := strings.TrimSpace(line[idx+1:])
		if value == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(line[:idx])) {
		case "from":
			rec.From = value
		case "to":
			rec.To = value
		case "cc":
			rec.Cc = value
		case "subject":
			rec.Subject = value
		case "date":
			rec.Date = value
		}
	}

	return rec
}

func headerOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
