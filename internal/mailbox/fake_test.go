package mailbox

import (
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
)

// fakeTransport is an in-memory Transport for pipeline tests. Zero values
// mean "succeed with nothing"; error maps inject failures per folder or
// per message.
type fakeTransport struct {
	folders []string
	listErr error

	counts    map[string]uint32
	selectErr map[string]error

	search    map[string][]uint32 // selected folder -> matching UIDs
	searchErr map[string]error

	full      map[uint32][]byte
	fullErr   map[uint32]error
	headers   map[uint32][]byte
	headerErr map[uint32]error

	loginErr error

	selected    string
	logouts     int
	selectCalls []string
	searchCalls []string
	fetchCalls  []uint32
}

func (f *fakeTransport) Login(username, password string) error {
	return f.loginErr
}

func (f *fakeTransport) Logout() error {
	f.logouts++
	return nil
}

func (f *fakeTransport) ListFolders() ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.folders, nil
}

func (f *fakeTransport) Select(folder string) (uint32, error) {
	f.selectCalls = append(f.selectCalls, folder)
	if err := f.selectErr[folder]; err != nil {
		return 0, err
	}
	f.selected = folder
	return f.counts[folder], nil
}

func (f *fakeTransport) SearchUIDs(criteria *imap.SearchCriteria) ([]uint32, error) {
	f.searchCalls = append(f.searchCalls, f.selected)
	if err := f.searchErr[f.selected]; err != nil {
		return nil, err
	}
	return f.search[f.selected], nil
}

func (f *fakeTransport) FetchFull(uid uint32) ([]byte, error) {
	f.fetchCalls = append(f.fetchCalls, uid)
	if err := f.fullErr[uid]; err != nil {
		return nil, err
	}
	if raw, ok := f.full[uid]; ok {
		return raw, nil
	}
	return nil, fmt.Errorf("message %d not found", uid)
}

func (f *fakeTransport) FetchHeaders(uid uint32) ([]byte, error) {
	if err := f.headerErr[uid]; err != nil {
		return nil, err
	}
	if raw, ok := f.headers[uid]; ok {
		return raw, nil
	}
	return nil, fmt.Errorf("message %d not found", uid)
}

// recordingSink captures pipeline output for assertions.
type recordingSink struct {
	logs   []string
	total  int
	steps  int
	pauses int
}

func (r *recordingSink) StartProgress(total int) { r.total = total }
func (r *recordingSink) Advance(n int)           { r.steps += n }
func (r *recordingSink) Logf(format string, args ...interface{}) {
	r.logs = append(r.logs, fmt.Sprintf(format, args...))
}

func testSession(tr Transport) *Session {
	s := &Session{
		Host:    "imap.example.com",
		Port:    993,
		Address: "user@example.com",
		tr:      tr,
		sink:    NopSink{},
		alive:   true,
	}
	s.pause = func(time.Duration) {}
	return s
}

func testSessionWithSink(tr Transport, sink *recordingSink) *Session {
	s := testSession(tr)
	s.sink = sink
	s.pause = func(time.Duration) { sink.pauses++ }
	return s
}
