package storage

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"shop-seeker/models"
)

// SheetsStore appends outcomes to the Approved and Rejected tabs of a Google
// spreadsheet, authenticated with a service account.
type SheetsStore struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
}

// NewSheetsStore opens the spreadsheet with the given service-account JSON.
func NewSheetsStore(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*SheetsStore, error) {
	return newSheetsStore(ctx, spreadsheetID,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
}

func newSheetsStore(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsStore, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet ID is required")
	}
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	return &SheetsStore{values: srv.Spreadsheets.Values, spreadsheetID: spreadsheetID}, nil
}

// LoadSeen reads column E of both tabs.
func (s *SheetsStore) LoadSeen(ctx context.Context) (*models.SeenSet, error) {
	seen := models.NewSeenSet()
	for _, tab := range []string{approvedTab, rejectedTab} {
		resp, err := s.values.Get(s.spreadsheetID, tab+"!E:E").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("sheets: read %s links: %w", tab, err)
		}
		for i, row := range resp.Values {
			if i == 0 || len(row) == 0 {
				continue
			}
			if link, ok := row[0].(string); ok {
				seen.Add(link)
			}
		}
	}
	return seen, nil
}

func (s *SheetsStore) AppendApproved(ctx context.Context, rec Record) error {
	return s.appendRow(ctx, approvedTab, rec.ApprovedRow())
}

func (s *SheetsStore) AppendRejected(ctx context.Context, rec Record) error {
	return s.appendRow(ctx, rejectedTab, rec.RejectedRow())
}

func (s *SheetsStore) appendRow(ctx context.Context, tab string, row []string) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{cells}}

	_, err := s.values.Append(s.spreadsheetID, tab+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append %s row: %w", tab, err)
	}
	return nil
}

// Close is a no-op; the API client holds no open resources.
func (s *SheetsStore) Close() error {
	return nil
}
