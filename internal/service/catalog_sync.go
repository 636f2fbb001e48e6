package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"agilemate/internal/model"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

const catalogTimeLayout = "2006-01-02 15:04:05"

// CatalogTables identifies the MOI catalog tables that mirror the local store.
type CatalogTables struct {
	DatabaseID sdk.DatabaseID
	Projects   sdk.TableID
	Updates    sdk.TableID
}

// CatalogSync appends new rows to the MOI catalog so they can be queried with NL2SQL.
// Mirroring is best effort: failures are logged and never reach the caller.
type CatalogSync struct {
	raw    *sdk.RawClient
	sdk    *sdk.SDKClient
	tables CatalogTables
}

func NewCatalogSync(raw *sdk.RawClient, tables CatalogTables) *CatalogSync {
	return &CatalogSync{raw: raw, sdk: sdk.NewSDKClient(raw), tables: tables}
}

var projectMapping = []sdk.FileAndTableColumnMapping{
	{TableColumn: "id", Column: "id", ColNumInFile: 1},
	{TableColumn: "name", Column: "name", ColNumInFile: 2},
	{TableColumn: "description", Column: "description", ColNumInFile: 3},
	{TableColumn: "owner_id", Column: "owner_id", ColNumInFile: 4},
	{TableColumn: "created_at", Column: "created_at", ColNumInFile: 5},
}

var updateMapping = []sdk.FileAndTableColumnMapping{
	{TableColumn: "id", Column: "id", ColNumInFile: 1},
	{TableColumn: "project_id", Column: "project_id", ColNumInFile: 2},
	{TableColumn: "user_id", Column: "user_id", ColNumInFile: 3},
	{TableColumn: "user_name", Column: "user_name", ColNumInFile: 4},
	{TableColumn: "daily_date", Column: "daily_date", ColNumInFile: 5},
	{TableColumn: "what_did_yesterday", Column: "what_did_yesterday", ColNumInFile: 6},
	{TableColumn: "what_will_do_today", Column: "what_will_do_today", ColNumInFile: 7},
	{TableColumn: "blockers", Column: "blockers", ColNumInFile: 8},
	{TableColumn: "created_at", Column: "created_at", ColNumInFile: 9},
}

func (s *CatalogSync) SyncProject(ctx context.Context, p *model.Project) {
	s.importCSV(ctx, s.tables.Projects, projectRow(p), fmt.Sprintf("project_%s.csv", p.ID), projectMapping)
}

func (s *CatalogSync) SyncDailyUpdate(ctx context.Context, u *model.DailyUpdate) {
	s.importCSV(ctx, s.tables.Updates, dailyUpdateRow(u), fmt.Sprintf("update_%s.csv", u.ID), updateMapping)
}

func projectRow(p *model.Project) string {
	return strings.Join([]string{
		p.ID, esc(p.Name), esc(p.Description), p.OwnerID, p.CreatedAt.Format(catalogTimeLayout),
	}, ",") + "\n"
}

func dailyUpdateRow(u *model.DailyUpdate) string {
	return strings.Join([]string{
		u.ID, u.ProjectID, u.UserID, esc(u.UserName), u.DailyDate,
		esc(u.WhatDidYesterday), esc(u.WhatWillDoToday), esc(u.Blockers),
		u.CreatedAt.Format(catalogTimeLayout),
	}, ",") + "\n"
}

func (s *CatalogSync) importCSV(ctx context.Context, tableID sdk.TableID, csv, fileName string, mapping []sdk.FileAndTableColumnMapping) {
	resp, err := s.raw.UploadLocalFile(ctx, bytes.NewReader([]byte(csv)), fileName, []sdk.FileMeta{{Filename: fileName, Path: "/"}})
	if err != nil {
		slog.Warn("catalog sync: upload failed", "table", tableID, "err", err)
		return
	}
	if len(resp.ConnFileIds) == 0 {
		slog.Warn("catalog sync: no conn_file_ids", "table", tableID)
		return
	}

	_, err = s.sdk.ImportLocalFileToTable(ctx, &sdk.TableConfig{
		ConnFileIDs:      resp.ConnFileIds,
		NewTable:         false,
		DatabaseID:       s.tables.DatabaseID,
		TableID:          tableID,
		IsColumnName:     false,
		RowStart:         1,
		Conflict:         1,
		ExistedTable:     mapping,
		ExistedTableOpts: sdk.ExistedTableOptions{Method: sdk.ExistedTableOptionAppend},
	})
	if err != nil {
		slog.Warn("catalog sync: import failed", "table", tableID, "file", fileName, "err", err)
		return
	}
	slog.Info("catalog sync: ok", "table", tableID, "file", fileName)
}

func esc(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
