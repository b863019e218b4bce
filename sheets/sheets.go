// Package sheets reads the Q&A listing from Google Sheets and appends
// signups to it.
package sheets

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"faq/types"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SignupTab is the worksheet receiving lead rows.
const SignupTab = "signups"

var sheetIDRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// SpreadsheetID extracts the ID from a sheet URL; a bare ID is returned as is.
func SpreadsheetID(urlOrID string) string {
	if m := sheetIDRe.FindStringSubmatch(urlOrID); m != nil {
		return m[1]
	}
	return strings.TrimSpace(urlOrID)
}

type Options struct {
	Credentials []byte
	QASheet     string
	QARange     string
	SignupSheet string
}

type Client struct {
	srv         *sheets.Service
	qaSheetID   string
	qaRange     string
	signupSheet string
}

func NewClient(ctx context.Context, opts Options, clientOpts ...option.ClientOption) (*Client, error) {
	if len(opts.Credentials) > 0 {
		clientOpts = append([]option.ClientOption{
			option.WithCredentialsJSON(opts.Credentials),
			option.WithScopes(sheets.SpreadsheetsScope),
		}, clientOpts...)
	}
	srv, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrSourceUnavailable, err)
	}
	signup := opts.SignupSheet
	if signup == "" {
		signup = opts.QASheet
	}
	return &Client{
		srv:         srv,
		qaSheetID:   SpreadsheetID(opts.QASheet),
		qaRange:     opts.QARange,
		signupSheet: SpreadsheetID(signup),
	}, nil
}

// Records reads every Q&A row. The first row is the header; it must name
// question and answer columns.
func (c *Client) Records(ctx context.Context) ([]types.QARecord, error) {
	rng := c.qaRange
	if rng == "" {
		titles, err := c.sheetTitles(ctx, c.qaSheetID)
		if err != nil {
			return nil, err
		}
		if len(titles) == 0 {
			return nil, fmt.Errorf("%w: spreadsheet %s has no sheets", types.ErrSourceUnavailable, c.qaSheetID)
		}
		rng = titles[0]
	}

	resp, err := c.srv.Spreadsheets.Values.Get(c.qaSheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", types.ErrSourceUnavailable, rng, err)
	}
	return ParseRecords(resp.Values)
}

// AppendLead writes one row to the signups tab, creating the tab with a
// header row first if it does not exist.
func (c *Client) AppendLead(ctx context.Context, lead types.Lead) error {
	titles, err := c.sheetTitles(ctx, c.signupSheet)
	if err != nil {
		return err
	}
	exists := false
	for _, t := range titles {
		if t == SignupTab {
			exists = true
			break
		}
	}
	if !exists {
		if err := c.addSignupTab(ctx); err != nil {
			return err
		}
	}
	if err := c.appendRow(ctx, lead.Row()); err != nil {
		return err
	}
	log.Printf("[SIGNUP] appended lead for %s", lead.Email)
	return nil
}

func (c *Client) addSignupTab(ctx context.Context) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: SignupTab,
					GridProperties: &sheets.GridProperties{
						RowCount:    2000,
						ColumnCount: 20,
					},
				},
			},
		}},
	}
	if _, err := c.srv.Spreadsheets.BatchUpdate(c.signupSheet, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%w: add %s tab: %w", types.ErrSourceUnavailable, SignupTab, err)
	}
	log.Printf("[SIGNUP] created %s tab", SignupTab)
	return c.appendRow(ctx, types.SignupHeader)
}

func (c *Client) appendRow(ctx context.Context, row []string) error {
	values := make([]any, len(row))
	for i, v := range row {
		values[i] = v
	}
	_, err := c.srv.Spreadsheets.Values.
		Append(c.signupSheet, SignupTab+"!A1", &sheets.ValueRange{Values: [][]any{values}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: append to %s: %w", types.ErrSourceUnavailable, SignupTab, err)
	}
	return nil
}

func (c *Client) sheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	ss, err := c.srv.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: open spreadsheet %s: %w", types.ErrSourceUnavailable, spreadsheetID, err)
	}
	titles := make([]string, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return titles, nil
}
