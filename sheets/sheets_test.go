package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"faq/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fakeSheets struct {
	mu       sync.Mutex
	tabs     []string
	values   [][]any
	appended [][]any
	added    int
	fail     bool
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && path == "/v4/spreadsheets/sheet123":
		sheets := make([]map[string]any, len(f.tabs))
		for i, t := range f.tabs {
			sheets[i] = map[string]any{"properties": map[string]any{"title": t}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet123", "sheets": sheets})

	case r.Method == http.MethodGet && strings.HasPrefix(path, "/v4/spreadsheets/sheet123/values/"):
		_ = json.NewEncoder(w).Encode(map[string]any{"majorDimension": "ROWS", "values": f.values})

	case r.Method == http.MethodPost && path == "/v4/spreadsheets/sheet123:batchUpdate":
		f.added++
		f.tabs = append(f.tabs, SignupTab)
		_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet123"})

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		var body struct {
			Values [][]any `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.appended = append(f.appended, body.Values...)
		_ = json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet123"})

	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, f *fakeSheets, qaRange string) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), Options{
		QASheet: "https://docs.google.com/spreadsheets/d/sheet123/edit",
		QARange: qaRange,
	}, option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)
	return c
}

func TestClientRecords(t *testing.T) {
	f := &fakeSheets{
		tabs: []string{"QA"},
		values: [][]any{
			{"question", "answer", "lang"},
			{"Application fee?", "$50", "en"},
		},
	}

	for _, rng := range []string{"", "QA"} {
		recs, err := newTestClient(t, f, rng).Records(context.Background())
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "Application fee? $50", recs[0].Text())
	}
}

func TestClientRecordsUnavailable(t *testing.T) {
	f := &fakeSheets{fail: true}
	_, err := newTestClient(t, f, "QA").Records(context.Background())
	assert.ErrorIs(t, err, types.ErrSourceUnavailable)
}

func TestAppendLeadCreatesTab(t *testing.T) {
	f := &fakeSheets{tabs: []string{"QA"}}
	c := newTestClient(t, f, "")

	lead := types.Lead{
		Timestamp: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Lang:      types.LangEn,
		FirstName: "Zach",
		LastName:  "Wei",
		Email:     "zach@example.com",
		Consent:   true,
	}
	require.NoError(t, c.AppendLead(context.Background(), lead))
	require.NoError(t, c.AppendLead(context.Background(), lead))

	assert.Equal(t, 1, f.added)
	require.Len(t, f.appended, 3)
	assert.Equal(t, "timestamp", f.appended[0][0])
	assert.Equal(t, "yes", f.appended[1][7])
	assert.Equal(t, "zach@example.com", f.appended[2][5])
}

func TestAppendLeadFailure(t *testing.T) {
	f := &fakeSheets{fail: true}
	err := newTestClient(t, f, "").AppendLead(context.Background(), types.Lead{})
	assert.ErrorIs(t, err, types.ErrSourceUnavailable)
}
