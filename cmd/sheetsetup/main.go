package main

import (
	"context"
	"log"
	"time"

	"fishfarm-bot/config"
	"fishfarm-bot/internal/models"
	"fishfarm-bot/internal/sheets"
	"fishfarm-bot/internal/util"
)

// sheetsetup provisions the spreadsheet: one tab per entity kind with a
// header row. Safe to run against a populated spreadsheet, existing tabs
// are left alone.
func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := sheets.NewClient(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to connect to Google Sheets: %v", err)
	}

	for _, schema := range models.AllSchemas() {
		created, err := client.EnsureSheet(ctx, schema.Sheet, schema.Headers)
		if err != nil {
			log.Fatalf("Failed to provision sheet %s: %v", schema.Sheet, err)
		}
		if created {
			log.Printf("Created sheet %s", schema.Sheet)
		} else {
			log.Printf("Sheet %s already exists", schema.Sheet)
		}
	}

	log.Println("Spreadsheet ready")
}
