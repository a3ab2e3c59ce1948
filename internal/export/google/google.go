// Package google mirrors stored transactions to a Google Sheet. The mirror is
// append-only and best effort; the worker retries via the queue when a write
// fails.
package google

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/cjaradhye/money-minder/internal/core"
)

type Mirror struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

type Config struct {
	SpreadsheetID string
	SheetName     string
	CredsFile     string
	CredsJSON     string
}

// NewMirror builds a Sheets client from service-account credentials, either a
// file path or inline JSON.
func NewMirror(ctx context.Context, cfg Config) (*Mirror, error) {
	credsJSON := []byte(cfg.CredsJSON)
	if cfg.CredsFile != "" {
		data, err := os.ReadFile(cfg.CredsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		credsJSON = data
	}
	if len(credsJSON) == 0 {
		return nil, fmt.Errorf("no Google credentials provided")
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credsJSON),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Mirror{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}, nil
}

// Append writes one transaction as a row: date, description, type, amount,
// category name, notes.
func (m *Mirror) Append(ctx context.Context, t core.Transaction, categoryName string) error {
	row := []any{
		string(t.Date),
		t.Description,
		string(t.Type),
		t.Amount.Float(),
		categoryName,
		t.Notes,
	}

	valueRange := &sheets.ValueRange{Values: [][]any{row}}
	_, err := m.service.Spreadsheets.Values.
		Append(m.spreadsheetID, m.sheetName+"!A:F", valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Transaction mirrored to sheet",
		"id", t.ID,
		"spreadsheet_id", m.spreadsheetID,
		"sheet", m.sheetName)
	return nil
}
