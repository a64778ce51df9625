package controllers

import (
	"log"

	"github.com/z-haral/Halal-Checker/services"

	"gorm.io/gorm"
)

// Shared service singletons. The scan service must be process-wide because
// it holds the per-user session state.
var (
	dictSvc       *services.DictionaryService
	scanSvc       *services.ScanService
	historySvc    *services.HistoryService
	ingestSvc     *services.IngestService
	newsletterSvc *services.NewsletterService
	pushSvc       *services.PushService
	hub           *services.RealtimeHub
)

// InitServices wires the controller layer; call once from main after the
// database is up.
func InitServices(db *gorm.DB) {
	dictSvc = services.NewDictionaryService(db)
	scanSvc = services.NewScanService(dictSvc, services.NewOCRService())
	historySvc = services.NewHistoryService(db)
	ingestSvc = services.NewIngestService(db, dictSvc)
	newsletterSvc = services.NewNewsletterService(db)
	hub = services.NewRealtimeHub()

	ps, err := services.NewPushService(db)
	if err != nil {
		log.Printf("push service unavailable: %v", err)
	} else {
		pushSvc = ps
	}
}
