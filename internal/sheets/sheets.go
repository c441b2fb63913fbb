// Package sheets mirrors final entity snapshots to an external spreadsheet.
// Sync calls never panic; failures are reported through the boolean result
// and the server log.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

type Syncer interface {
	SyncUser(action string, data interface{}) bool
	SyncCustomer(action string, data interface{}) bool
	SyncProject(action string, data interface{}) bool
	SyncTask(action string, data interface{}) bool
	SyncTimeEntry(action string, data interface{}) bool
}

// Noop satisfies Syncer when no spreadsheet is configured.
type Noop struct{}

func (Noop) SyncUser(string, interface{}) bool      { return true }
func (Noop) SyncCustomer(string, interface{}) bool  { return true }
func (Noop) SyncProject(string, interface{}) bool   { return true }
func (Noop) SyncTask(string, interface{}) bool      { return true }
func (Noop) SyncTimeEntry(string, interface{}) bool { return true }

// GoogleSyncer appends one row per sync call to a per-entity sheet tab.
type GoogleSyncer struct {
	srv           *gsheets.Service
	spreadsheetID string
}

func NewGoogleSyncer(ctx context.Context, credentialsFile, spreadsheetID string) (*GoogleSyncer, error) {
	srv, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to build Sheets client: %w", err)
	}
	return &GoogleSyncer{srv: srv, spreadsheetID: spreadsheetID}, nil
}

func (g *GoogleSyncer) append(tab, action string, data interface{}) bool {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("sheets: failed to encode %s payload: %v", tab, err)
		return false
	}

	row := &gsheets.ValueRange{
		Values: [][]interface{}{
			{time.Now().UTC().Format(time.RFC3339), action, string(payload)},
		},
	}

	_, err = g.srv.Spreadsheets.Values.
		Append(g.spreadsheetID, tab+"!A:C", row).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Do()
	if err != nil {
		log.Printf("sheets: %s append failed (action=%s): %v", tab, action, err)
		return false
	}
	return true
}

func (g *GoogleSyncer) SyncUser(action string, data interface{}) bool {
	return g.append("Users", action, data)
}

func (g *GoogleSyncer) SyncCustomer(action string, data interface{}) bool {
	return g.append("Customers", action, data)
}

func (g *GoogleSyncer) SyncProject(action string, data interface{}) bool {
	return g.append("Projects", action, data)
}

func (g *GoogleSyncer) SyncTask(action string, data interface{}) bool {
	return g.append("Tasks", action, data)
}

func (g *GoogleSyncer) SyncTimeEntry(action string, data interface{}) bool {
	return g.append("TimeEntries", action, data)
}
