package google

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type ISheets interface {
	AppendRow(ctx context.Context, tab string, row []interface{}) error
	ReadRows(ctx context.Context, tab string) ([][]interface{}, error)
}

type sheetsClient struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewSheets(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (ISheets, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &sheetsClient{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// NewSheetsFromCredentials builds the client with a service account that may
// read and append rows.
func NewSheetsFromCredentials(ctx context.Context, spreadsheetID string, creds CredentialSource) (ISheets, error) {
	opt, err := creds.ClientOption(ctx, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, err
	}
	return NewSheets(ctx, spreadsheetID, opt)
}

// AppendRow writes row below the last row of tab. Cells are stored as given;
// text starting with "=" stays text and dates are not converted.
func (s *sheetsClient) AppendRow(ctx context.Context, tab string, row []interface{}) error {
	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, tabRange(tab, "A1"), &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", tab, err)
	}
	return nil
}

func (s *sheetsClient) ReadRows(ctx context.Context, tab string) ([][]interface{}, error) {
	res, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, tabRange(tab, "A:Z")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read rows from %s: %w", tab, err)
	}
	return res.Values, nil
}

func tabRange(tab, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(tab, "'", "''"), cells)
}
