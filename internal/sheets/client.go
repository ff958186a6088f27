package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"fishfarm-bot/internal/util"
)

// API is the narrow surface the rest of the system needs from the
// spreadsheet backend. Tests swap in fakes.
type API interface {
	// Rows returns all data rows of a sheet, header excluded.
	Rows(ctx context.Context, sheet string) ([][]interface{}, error)
	// Append adds one row at the bottom of a sheet.
	Append(ctx context.Context, sheet string, row []interface{}) error
	// UpdateCellByMatch finds the first row whose matchCol equals matchVal
	// and writes newVal into its targetCol. Columns are 1-indexed. Returns
	// false when no row matched.
	UpdateCellByMatch(ctx context.Context, sheet string, matchCol int, matchVal string, targetCol int, newVal interface{}) (bool, error)
}

// Client wraps the Google Sheets API for a single spreadsheet.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewClient builds a Sheets client from a service account credentials file.
func NewClient(ctx context.Context, spreadsheetID, credentialsFile string) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Ping verifies the spreadsheet is reachable and readable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("spreadsheet ping failed: %w", err)
	}
	return nil
}

func (c *Client) Rows(ctx context.Context, sheet string) ([][]interface{}, error) {
	ctx, span := util.StartSpan(ctx, "sheets.Rows")
	defer span.End()

	start := time.Now()
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, sheet+"!A2:Z").
		Context(ctx).Do()
	util.SheetsCallLatency.WithLabelValues("rows").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return resp.Values, nil
}

func (c *Client) Append(ctx context.Context, sheet string, row []interface{}) error {
	ctx, span := util.StartSpan(ctx, "sheets.Append")
	defer span.End()

	start := time.Now()
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, sheet+"!A1", &sheetsapi.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	util.SheetsCallLatency.WithLabelValues("append").Observe(time.Since(start).Seconds())
	if err != nil {
		util.AppendFailedTotal.WithLabelValues(sheet).Inc()
		return fmt.Errorf("failed to append to sheet %s: %w", sheet, err)
	}

	util.RowsAppendedTotal.WithLabelValues(sheet).Inc()
	util.GetLogger().Debug("row appended", zap.String("sheet", sheet))
	return nil
}

func (c *Client) UpdateCellByMatch(ctx context.Context, sheet string, matchCol int, matchVal string, targetCol int, newVal interface{}) (bool, error) {
	ctx, span := util.StartSpan(ctx, "sheets.UpdateCellByMatch")
	defer span.End()

	rows, err := c.Rows(ctx, sheet)
	if err != nil {
		util.FieldUpdatesTotal.WithLabelValues(sheet, "error").Inc()
		return false, err
	}

	rowIdx := -1
	for i, row := range rows {
		if matchCol-1 < len(row) && fmt.Sprint(row[matchCol-1]) == matchVal {
			rowIdx = i
			break
		}
	}
	if rowIdx == -1 {
		util.FieldUpdatesTotal.WithLabelValues(sheet, "not_found").Inc()
		return false, nil
	}

	// +2: sheet rows are 1-indexed and row 1 is the header
	cellRef := fmt.Sprintf("%s!%s%d", sheet, columnLetter(targetCol), rowIdx+2)

	start := time.Now()
	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, cellRef, &sheetsapi.ValueRange{Values: [][]interface{}{{newVal}}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	util.SheetsCallLatency.WithLabelValues("update").Observe(time.Since(start).Seconds())
	if err != nil {
		util.FieldUpdatesTotal.WithLabelValues(sheet, "error").Inc()
		return false, fmt.Errorf("failed to update %s: %w", cellRef, err)
	}

	util.FieldUpdatesTotal.WithLabelValues(sheet, "ok").Inc()
	util.GetLogger().Debug("cell updated", zap.String("cell", cellRef))
	return true, nil
}

// EnsureSheet creates the named sheet if the spreadsheet does not have
// it yet, and writes the header row when row 1 is empty. Sheets that
// already carry data are left untouched.
func (c *Client) EnsureSheet(ctx context.Context, title string, headers []string) (created bool, err error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	exists := false
	for _, sh := range ss.Sheets {
		if sh.Properties.Title == title {
			exists = true
			break
		}
	}

	if !exists {
		_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
			Requests: []*sheetsapi.Request{{
				AddSheet: &sheetsapi.AddSheetRequest{
					Properties: &sheetsapi.SheetProperties{Title: title},
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return false, fmt.Errorf("failed to add sheet %s: %w", title, err)
		}
	} else {
		row, err := c.svc.Spreadsheets.Values.
			Get(c.spreadsheetID, title+"!1:1").
			Context(ctx).Do()
		if err != nil {
			return false, fmt.Errorf("failed to read header of %s: %w", title, err)
		}
		if len(row.Values) > 0 && len(row.Values[0]) > 0 {
			return false, nil
		}
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, title+"!A1", &sheetsapi.ValueRange{Values: [][]interface{}{header}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to write header for %s: %w", title, err)
	}
	return !exists, nil
}

func columnLetter(col int) string {
	s := ""
	for col > 0 {
		col--
		s = string(rune('A'+col%26)) + s
		col /= 26
	}
	return s
}
