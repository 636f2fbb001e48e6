package main

import (
	"context"
	"fmt"
	"strings"

	"agilemate/internal/logger"
	"agilemate/internal/service"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

type catalogTable struct {
	name    string
	comment string
	columns []sdk.Column
}

// Column order must match the CSV rows written by service.CatalogSync.
var catalogTables = []catalogTable{
	{"projects", "Scrum projects", []sdk.Column{
		{Name: "id", Type: "VARCHAR(36)", IsPk: true, Comment: "project id"},
		{Name: "name", Type: "VARCHAR(255)", Comment: "project name"},
		{Name: "description", Type: "TEXT", Comment: "free-form project description"},
		{Name: "owner_id", Type: "VARCHAR(36)", Comment: "member id of the project creator"},
		{Name: "created_at", Type: "DATETIME", Comment: "creation time"},
	}},
	{"daily_updates", "daily stand-up updates", []sdk.Column{
		{Name: "id", Type: "VARCHAR(36)", IsPk: true, Comment: "update id"},
		{Name: "project_id", Type: "VARCHAR(36)", Comment: "references projects.id"},
		{Name: "user_id", Type: "VARCHAR(36)", Comment: "member id of the author"},
		{Name: "user_name", Type: "VARCHAR(255)", Comment: "display name of the author at submission time"},
		{Name: "daily_date", Type: "DATE", Comment: "stand-up day"},
		{Name: "what_did_yesterday", Type: "TEXT", Comment: "work done on the previous day"},
		{Name: "what_will_do_today", Type: "TEXT", Comment: "work planned for the day"},
		{Name: "blockers", Type: "TEXT", Comment: "impediments, empty when none"},
		{Name: "created_at", Type: "DATETIME", Comment: "submission time"},
	}},
}

func initCatalog(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (service.CatalogTables, error) {
	var ids service.CatalogTables

	dbResp, err := client.CreateDatabase(ctx, &sdk.DatabaseCreateRequest{
		CatalogID:    catalogID,
		DatabaseName: dbName,
		Comment:      "AgileMate stand-ups",
	})
	switch {
	case err == nil:
		ids.DatabaseID = dbResp.DatabaseID
		logger.Info("catalog: database created", "id", ids.DatabaseID)
	case isDuplicate(err):
		logger.Info("catalog: database already exists, discovering ID", "name", dbName)
		if ids.DatabaseID, err = discoverDatabaseID(ctx, client, catalogID, dbName); err != nil {
			return ids, err
		}
	default:
		return ids, fmt.Errorf("create database: %w", err)
	}

	for _, t := range catalogTables {
		resp, err := client.CreateTable(ctx, &sdk.TableCreateRequest{
			DatabaseID: ids.DatabaseID,
			Name:       t.name,
			Columns:    t.columns,
			Comment:    t.comment,
		})
		if err != nil {
			if isDuplicate(err) {
				logger.Info("catalog: table already exists, skipping", "name", t.name)
				continue
			}
			return ids, fmt.Errorf("create table %s: %w", t.name, err)
		}
		logger.Info("catalog: table created", "name", t.name, "id", resp.TableID)
		switch t.name {
		case "projects":
			ids.Projects = resp.TableID
		case "daily_updates":
			ids.Updates = resp.TableID
		}
	}
	return ids, nil
}

func discoverDatabaseID(ctx context.Context, client *sdk.RawClient, catalogID sdk.CatalogID, dbName string) (sdk.DatabaseID, error) {
	resp, err := client.ListDatabases(ctx, &sdk.DatabaseListRequest{CatalogID: catalogID})
	if err != nil {
		return 0, fmt.Errorf("list databases: %w", err)
	}
	for _, db := range resp.List {
		if db.DatabaseName == dbName {
			logger.Info("catalog: database discovered", "id", db.DatabaseID)
			return db.DatabaseID, nil
		}
	}
	return 0, fmt.Errorf("database %s not found in catalog %d", dbName, catalogID)
}

func isDuplicate(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate") || strings.Contains(s, "already exist") || strings.Contains(s, "conflict")
}
