package mailbox

import (
	"fmt"
	"io"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// Transport is the narrow slice of the IMAP protocol the pipeline needs.
// The wire layer behind it is owned entirely by go-imap; tests substitute
// an in-memory fake.
type Transport interface {
	Login(username, password string) error
	Logout() error
	ListFolders() ([]string, error)
	Select(folder string) (uint32, error)
	SearchUIDs(criteria *imap.SearchCriteria) ([]uint32, error)
	FetchFull(uid uint32) ([]byte, error)
	FetchHeaders(uid uint32) ([]byte, error)
}

type imapTransport struct {
	c *imapclient.Client
}

func (t *imapTransport) Login(username, password string) error {
	return t.c.Login(username, password).Wait()
}

func (t *imapTransport) Logout() error {
	// A failed LOGOUT still ends with the connection closed.
	t.c.Logout().Wait()
	return t.c.Close()
}

func (t *imapTransport) ListFolders() ([]string, error) {
	mailboxes, err := t.c.List("", "*", nil).Collect()
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	names := make([]string, 0, len(mailboxes))
	for _, mb := range mailboxes {
		names = append(names, mb.Mailbox)
	}
	return names, nil
}

func (t *imapTransport) Select(folder string) (uint32, error) {
	selected, err := t.c.Select(folder, nil).Wait()
	if err != nil {
		return 0, fmt.Errorf("failed to select folder %s: %w", folder, err)
	}
	return selected.NumMessages, nil
}

func (t *imapTransport) SearchUIDs(criteria *imap.SearchCriteria) ([]uint32, error) {
	data, err := t.c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, err
	}

	uids := data.AllUIDs()
	result := make([]uint32, len(uids))
	for i, uid := range uids {
		result[i] = uint32(uid)
	}
	return result, nil
}

func (t *imapTransport) FetchFull(uid uint32) ([]byte, error) {
	return t.fetchSection(uid, &imap.FetchItemBodySection{Peek: true})
}

func (t *imapTransport) FetchHeaders(uid uint32) ([]byte, error) {
	return t.fetchSection(uid, &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierHeader,
		Peek:      true,
	})
}

func (t *imapTransport) fetchSection(uid uint32, section *imap.FetchItemBodySection) ([]byte, error) {
	fetchOptions := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	}

	fetchCmd := t.c.Fetch(imap.UIDSetNum(imap.UID(uid)), fetchOptions)
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, fmt.Errorf("message %d not found", uid)
	}

	var body []byte
	for {
		item := msg.Next()
		if item == nil {
			break
		}
		if data, ok := item.(imapclient.FetchItemDataBodySection); ok {
			b, err := readLiteral(data.Literal)
			if err != nil {
				return nil, fmt.Errorf("failed to read message %d: %w", uid, err)
			}
			body = b
		}
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("message %d returned no content", uid)
	}
	return body, nil
}

func readLiteral(r imap.LiteralReader) ([]byte, error) {
	data := make([]byte, r.Size())
	_, err := io.ReadFull(r, data)
	return data, err
}
