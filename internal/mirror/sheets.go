// Package mirror appends ledger transactions to a Google Sheet so the data
// survives outside the tracker. The mirror is append-only: deletions in the
// ledger are logged and skipped, the sheet keeps the full history.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"tally/internal/core"
	"tally/internal/log"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// Settings carries the spreadsheet target and credentials source. Exactly
// one of CredentialsJSON or CredentialsFile must be set.
type Settings struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

func NewClient(ctx context.Context, settings Settings, logger *log.Logger) (*Client, error) {
	if settings.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if settings.SheetName == "" {
		settings.SheetName = "Transactions"
	}

	credentials, err := loadCredentials(settings)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: settings.SpreadsheetID,
		sheetName:     settings.SheetName,
		logger:        logger.WithComponent(log.ComponentMirror),
	}, nil
}

func loadCredentials(settings Settings) ([]byte, error) {
	switch {
	case settings.CredentialsJSON != "":
		return []byte(settings.CredentialsJSON), nil
	case settings.CredentialsFile != "":
		data, err := os.ReadFile(settings.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

// AppendTransaction writes one row at the bottom of the sheet and returns
// the range the API reports for it.
func (c *Client) AppendTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	row := transactionRow(tx)
	rng := fmt.Sprintf("%s!A:F", c.sheetName)
	values := &gsheet.ValueRange{Values: [][]interface{}{row}}

	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, rng, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append row: %w", err)
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	c.logger.InfoContext(ctx, "Transaction mirrored",
		log.FieldTxID, tx.ID,
		"range", ref)
	return ref, nil
}

// transactionRow is the sheet column order: id, date, type, description,
// category, signed amount.
func transactionRow(tx core.Transaction) []interface{} {
	return []interface{}{
		strconv.FormatInt(tx.ID, 10),
		tx.Date,
		string(tx.Type),
		tx.Description,
		tx.Category,
		tx.Amount,
	}
}

// Ping verifies the spreadsheet is reachable with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("probe spreadsheet: %w", err)
	}
	return nil
}
