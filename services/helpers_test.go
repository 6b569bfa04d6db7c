package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpupo63/shooting-roster/config"
	"github.com/rpupo63/shooting-roster/database"
	"github.com/rpupo63/shooting-roster/models"
	"gorm.io/datatypes"
)

// newTestDB opens a migrated sqlite database in a temp dir.
func newTestDB(t *testing.T) database.Database {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Type:          "sqlite",
		SQLitePath:    filepath.Join(t.TempDir(), "roster.db"),
		SlowThreshold: time.Second,
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB().DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// fixtureNow is the clock seen by services that need one.
var fixtureNow = time.Date(2018, time.July, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db        database.Database
	linker    *Linker
	incidents *IncidentService
	bodycams  *BodycamService
	composer  *Composer
	posts     *PostService
	tips      *TipService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := newTestDB(t)
	linker := NewLinker(db.TagRepo(), db.SourceRepo(), nil)
	return fixture{
		db:        db,
		linker:    linker,
		incidents: NewIncidentService(db.IncidentRepo(), linker),
		bodycams:  NewBodycamService(db.BodycamRepo(), db.IncidentRepo(), linker),
		composer:  NewComposer(db, nil),
		posts:     NewPostService(db.PostRepo(), linker, func() time.Time { return fixtureNow }),
		tips:      NewTipService(db.TipRepo(), db.FeedbackRepo()),
	}
}

func incidentPayload(name, date string) IncidentPayload {
	return IncidentPayload{
		Name:   name,
		Date:   date,
		Age:    LooseOf("30"),
		State:  "CA",
		Race:   "B",
		Gender: "M",
		City:   "Oakland",
	}
}

func bodycamPayload(title, date string) BodycamPayload {
	return BodycamPayload{
		Title: title,
		Video: `<iframe src="https://example.com/embed/1"></iframe>`,
		State: "CA",
		Date:  date,
	}
}

func mustSubmitIncident(t *testing.T, f fixture, p IncidentPayload) uint {
	t.Helper()
	id, err := f.incidents.Submit(context.Background(), p)
	if err != nil {
		t.Fatalf("submit incident: %v", err)
	}
	return id
}

func mustSubmitBodycam(t *testing.T, f fixture, p BodycamPayload) uint {
	t.Helper()
	id, err := f.bodycams.Submit(context.Background(), p)
	if err != nil {
		t.Fatalf("submit bodycam: %v", err)
	}
	return id
}

func insertIncident(t *testing.T, db database.Database, name string, day time.Time) *models.Incident {
	t.Helper()
	incident := &models.Incident{
		Name:   name,
		Date:   datatypes.Date(day),
		Age:    models.UnknownAge,
		State:  "NY",
		Race:   "W",
		Gender: "F",
	}
	if err := db.IncidentRepo().Add(context.Background(), incident); err != nil {
		t.Fatalf("insert incident: %v", err)
	}
	return incident
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
