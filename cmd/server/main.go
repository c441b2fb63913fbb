package main

import (
	"context"
	"fmt"
	"log"

	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/handlers"
	"taskboard/internal/mail"
	"taskboard/internal/notify"
	"taskboard/internal/server"
	"taskboard/internal/sheets"
)

func main() {
	cfg := config.Load()
	database.Init(cfg.DBDSN)

	mailer := mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	if !mailer.Enabled() {
		log.Println("SMTP not configured, emails will be dropped")
	}

	var syncer sheets.Syncer = sheets.Noop{}
	if cfg.SheetsCredentialsFile != "" && cfg.SpreadsheetID != "" {
		gs, err := sheets.NewGoogleSyncer(context.Background(), cfg.SheetsCredentialsFile, cfg.SpreadsheetID)
		if err != nil {
			log.Printf("spreadsheet sync disabled: %v", err)
		} else {
			syncer = gs
		}
	} else {
		log.Println("spreadsheet sync not configured")
	}

	notifier := notify.NewService(database.DB, mailer)
	h := handlers.New(notifier, syncer)

	r := server.NewRouter(cfg, h)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
