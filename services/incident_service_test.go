package services

import (
	"context"
	"net/http"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/rpupo63/shooting-roster/errs"
	"github.com/rpupo63/shooting-roster/models"
)

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func TestSubmitIncidentStoresTagsAndSourcesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := incidentPayload("John Roe", "2018-06-01T08:00:00")
	p.Tags = []string{"mental illness", "mental illness", "unarmed", ""}
	p.Sources = []string{"https://example.com/a", "https://example.com/a"}
	p.VideoURL = "https://example.com/video"
	id := mustSubmitIncident(t, f, p)

	incident, err := f.db.IncidentRepo().FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got := sorted(incident.TagTexts()); !reflect.DeepEqual(got, []string{"mental illness", "unarmed"}) {
		t.Errorf("tags = %v", got)
	}
	if got := incident.SourceTexts(); !reflect.DeepEqual(got, []string{"https://example.com/a"}) {
		t.Errorf("sources = %v", got)
	}
	if incident.UnfilteredVideoURL != "https://example.com/video" {
		t.Errorf("video url = %q", incident.UnfilteredVideoURL)
	}
	if !incident.Day().Equal(date(2018, time.June, 1)) {
		t.Errorf("date = %v", incident.Day())
	}
}

func TestReconcileTagsIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	incident := insertIncident(t, f.db, "A", date(2018, time.May, 2))

	texts := []string{"taser", "Taser", "chase"}
	for i := 0; i < 3; i++ {
		if err := f.linker.ReconcileTags(ctx, incident.Owner(), texts); err != nil {
			t.Fatalf("reconcile #%d: %v", i, err)
		}
	}

	tags, err := f.db.TagRepo().FindByOwner(ctx, incident.Owner())
	if err != nil {
		t.Fatalf("find tags: %v", err)
	}
	// matching is case-sensitive
	if len(tags) != 3 {
		t.Errorf("got %d tags, want 3", len(tags))
	}
}

func TestTagsAreScopedToTheirOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := insertIncident(t, f.db, "A", date(2018, time.May, 2))
	b := insertIncident(t, f.db, "B", date(2018, time.May, 3))

	if err := f.linker.ReconcileTags(ctx, a.Owner(), []string{"shared"}); err != nil {
		t.Fatal(err)
	}
	if err := f.linker.ReconcileTags(ctx, b.Owner(), []string{"shared"}); err != nil {
		t.Fatal(err)
	}
	bodycam := models.Owner{Kind: models.OwnerBodycam, ID: a.ID}
	if err := f.linker.ReconcileTags(ctx, bodycam, []string{"shared"}); err != nil {
		t.Fatal(err)
	}

	for _, owner := range []models.Owner{a.Owner(), b.Owner(), bodycam} {
		tags, err := f.db.TagRepo().FindByOwner(ctx, owner)
		if err != nil {
			t.Fatal(err)
		}
		if len(tags) != 1 {
			t.Errorf("%s has %d tags, want 1", owner, len(tags))
		}
	}
}

func TestEditIncidentReplacesTagsAndSources(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := incidentPayload("John Roe", "2018-06-01")
	p.Tags = []string{"a", "b"}
	p.Sources = []string{"s1", "s2"}
	id := mustSubmitIncident(t, f, p)

	edit := incidentPayload("John Roe Jr.", "2018-06-02")
	edit.ID = LooseInt(int(id))
	edit.Tags = []string{"b", "c"}
	edit.Sources = []string{"s3"}
	if _, err := f.incidents.Edit(ctx, edit); err != nil {
		t.Fatalf("edit: %v", err)
	}

	incident, err := f.db.IncidentRepo().FindByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if incident.Name != "John Roe Jr." {
		t.Errorf("name = %q", incident.Name)
	}
	if got := sorted(incident.TagTexts()); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("tags = %v", got)
	}
	if got := incident.SourceTexts(); !reflect.DeepEqual(got, []string{"s3"}) {
		t.Errorf("sources = %v", got)
	}
}

func TestEditIncidentLookupMiss(t *testing.T) {
	f := newFixture(t)

	edit := incidentPayload("Nobody", "2018-06-02")
	edit.ID = LooseOf("999")
	_, err := f.incidents.Edit(context.Background(), edit)

	apiErr, ok := err.(*errs.ApiErr)
	if !ok {
		t.Fatalf("expected ApiErr, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Text() != "Shooting matching query does not exist." {
		t.Errorf("text = %q", apiErr.Text())
	}
}

func TestEditIncidentInvalidLeavesRecordUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := incidentPayload("John Roe", "2018-06-01")
	p.Tags = []string{"keep"}
	id := mustSubmitIncident(t, f, p)

	edit := incidentPayload("Changed", "2018-06-01")
	edit.ID = LooseInt(int(id))
	edit.Race = "Q"
	if _, err := f.incidents.Edit(ctx, edit); !errs.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	incident, err := f.db.IncidentRepo().FindByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if incident.Name != "John Roe" || len(incident.Tags) != 1 {
		t.Errorf("record changed: %+v", incident)
	}
}

func TestDeleteIncidentCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := incidentPayload("John Roe", "2018-06-01")
	p.Tags = []string{"a"}
	p.Sources = []string{"s"}
	id := mustSubmitIncident(t, f, p)

	cam := bodycamPayload("Footage", "2018-06-02")
	cam.Shooting = LooseInt(int(id))
	camID := mustSubmitBodycam(t, f, cam)

	if err := f.incidents.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.db.IncidentRepo().FindByID(ctx, id); !errs.IsLookupMiss(err) {
		t.Errorf("incident still present: %v", err)
	}
	tags, _ := f.db.TagRepo().FindByOwner(ctx, models.Owner{Kind: models.OwnerIncident, ID: id})
	sources, _ := f.db.SourceRepo().FindByIncident(ctx, id)
	if len(tags) != 0 || len(sources) != 0 {
		t.Errorf("orphans left: %d tags, %d sources", len(tags), len(sources))
	}
	bodycam, err := f.db.BodycamRepo().FindByID(ctx, camID)
	if err != nil {
		t.Fatalf("bodycam deleted with incident: %v", err)
	}
	if bodycam.Linked() {
		t.Errorf("bodycam still linked to %d", *bodycam.ShootingID)
	}
}

func TestDeleteIncidentMiss(t *testing.T) {
	f := newFixture(t)
	err := f.incidents.Delete(context.Background(), 42)
	if !errs.IsLookupMiss(err) {
		t.Fatalf("expected lookup miss, got %v", err)
	}
}
