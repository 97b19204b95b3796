package mailbox

import "strings"

// SentFolderPatterns classifies a folder as sent-like when its lowercased
// name contains any entry. Deliberately non-exhaustive; extend as providers
// with other localizations show up.
var SentFolderPatterns = []string{
	"sent",
	"enviado",
	"enviados",
	"wyslane",
	"gesendet",
	"envoy",
}

// ListFolders lists the account's folders with a classification tag. A
// listing failure degrades to a single INBOX entry rather than an error,
// since every server supports INBOX.
func (s *Session) ListFolders() []Folder {
	inboxOnly := []Folder{{Name: "INBOX", Class: ClassInbox}}

	names, err := s.tr.ListFolders()
	if err != nil {
		s.sink.Logf("folder listing failed, assuming INBOX only: %v", err)
		return inboxOnly
	}

	var folders []Folder
	for _, raw := range names {
		name, ok := parseListEntry(raw)
		if !ok {
			continue
		}
		folders = append(folders, Folder{Name: name, Class: classifyFolder(name)})
	}

	if len(folders) == 0 {
		return inboxOnly
	}
	return folders
}

// parseListEntry extracts a folder name from one LIST response entry.
// Clients normally hand us a bare name, but some servers surface raw
// descriptor lines like `(\HasNoChildren) "/" "Sent Items"`; both the
// quoted-name and whitespace-joined conventions are accepted.
func parseListEntry(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if !strings.HasPrefix(raw, "(") {
		return strings.Trim(raw, `"`), true
	}

	end := strings.Index(raw, ")")
	if end < 0 {
		return "", false
	}

	// After the attribute list: delimiter field, then the name, which may
	// be quoted or split across whitespace.
	fields := strings.Fields(strings.TrimSpace(raw[end+1:]))
	if len(fields) < 2 {
		return "", false
	}

	name := strings.Trim(strings.Join(fields[1:], " "), `"`)
	if name == "" {
		return "", false
	}
	return name, true
}

func classifyFolder(name string) string {
	lower := strings.ToLower(name)
	if lower == "inbox" {
		return ClassInbox
	}
	for _, pattern := range SentFolderPatterns {
		if strings.Contains(lower, pattern) {
			return ClassSent
		}
	}
	return ClassOther
}

// sentFolders returns the names of sent-like folders, in listing order.
func (s *Session) sentFolders() []string {
	var names []string
	for _, f := range s.ListFolders() {
		if f.Class == ClassSent {
			names = append(names, f.Name)
		}
	}
	return names
}
