package papers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/nishmeets/research-digest/internal/analytics"
	"github.com/nishmeets/research-digest/internal/arxiv"
	"github.com/nishmeets/research-digest/internal/database"
	"github.com/nishmeets/research-digest/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeSource struct {
	records []arxiv.PaperRecord
	err     error
	calls   int
}

func (f *fakeSource) Fetch(_ context.Context, category string, maxResults int) ([]arxiv.PaperRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.records) > maxResults {
		return f.records[:maxResults], nil
	}
	return f.records, nil
}

func record(id, title string) arxiv.PaperRecord {
	return arxiv.PaperRecord{
		ArxivID:   id,
		Title:     title,
		Authors:   "Alice, Bob",
		Summary:   "An abstract...",
		PDFURL:    "http://arxiv.org/pdf/" + id,
		Published: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:  "cs.AI",
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	if err := database.SeedCategories(db); err != nil {
		t.Fatalf("seeding categories: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB, source Source) *Service {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(db, source, analytics.NewRecorder(db, quiet), quiet)
}

func TestFetchNewCounts(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{records: []arxiv.PaperRecord{
		record("2401.00001v1", "First"),
		record("2401.00002v1", "Second"),
		record("2401.00003v1", "Third"),
	}}
	svc := newTestService(t, db, source)

	result, err := svc.FetchNew(context.Background(), "cs.AI", 10)
	if err != nil {
		t.Fatalf("FetchNew error = %v", err)
	}
	if result.Fetched != 3 || result.New != 3 || result.Existing != 0 {
		t.Errorf("first run = %+v, want fetched=3 new=3 existing=0", result)
	}
	if result.New+result.Existing != result.Fetched {
		t.Errorf("invariant broken: new+existing != fetched (%+v)", result)
	}

	// Unchanged source: everything is a duplicate on the second run.
	result, err = svc.FetchNew(context.Background(), "cs.AI", 10)
	if err != nil {
		t.Fatalf("FetchNew rerun error = %v", err)
	}
	if result.Fetched != 3 || result.New != 0 || result.Existing != 3 {
		t.Errorf("second run = %+v, want fetched=3 new=0 existing=3", result)
	}

	var total int64
	db.Model(&models.Paper{}).Count(&total)
	if total != 3 {
		t.Errorf("stored papers = %d, want 3", total)
	}
}

func TestFetchNewSetsDomainAndTags(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{records: []arxiv.PaperRecord{record("2401.00010v1", "Quantum Things")}}
	svc := newTestService(t, db, source)

	if _, err := svc.FetchNew(context.Background(), "cs.LG", 5); err != nil {
		t.Fatalf("FetchNew error = %v", err)
	}

	var paper models.Paper
	if err := db.Where("arxiv_id = ?", "2401.00010v1").First(&paper).Error; err != nil {
		t.Fatalf("paper not stored: %v", err)
	}
	if paper.Domain != "cs.LG" {
		t.Errorf("Domain = %q, want the requested category cs.LG", paper.Domain)
	}
	if string(paper.Tags) != "[]" {
		t.Errorf("Tags = %s, want empty list", paper.Tags)
	}
	if paper.FetchedDate.IsZero() {
		t.Error("FetchedDate not set")
	}
	if paper.ViewCount != 0 {
		t.Errorf("ViewCount = %d, want 0", paper.ViewCount)
	}
}

func TestFetchNewMaintainsCategoryCount(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{records: []arxiv.PaperRecord{
		record("2401.00020v1", "A"),
		record("2401.00021v1", "B"),
	}}
	svc := newTestService(t, db, source)

	if _, err := svc.FetchNew(context.Background(), "cs.AI", 5); err != nil {
		t.Fatalf("FetchNew error = %v", err)
	}
	// Rerun adds nothing, so the cached count must not move.
	if _, err := svc.FetchNew(context.Background(), "cs.AI", 5); err != nil {
		t.Fatalf("FetchNew rerun error = %v", err)
	}

	var category models.Category
	if err := db.Where("code = ?", "cs.AI").First(&category).Error; err != nil {
		t.Fatalf("category missing: %v", err)
	}
	if category.PaperCount != 2 {
		t.Errorf("PaperCount = %d, want 2", category.PaperCount)
	}
}

func TestFetchNewSourceErrorPropagates(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{err: fmt.Errorf("connection refused")}
	svc := newTestService(t, db, source)

	_, err := svc.FetchNew(context.Background(), "cs.AI", 5)
	if err == nil {
		t.Fatal("expected error from source")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error %q does not carry the source failure", err)
	}

	var total int64
	db.Model(&models.Paper{}).Count(&total)
	if total != 0 {
		t.Errorf("papers stored despite source failure: %d", total)
	}
}

func TestFetchNewRecordsAnalyticsEvent(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{records: []arxiv.PaperRecord{record("2401.00030v1", "A")}}
	svc := newTestService(t, db, source)

	if _, err := svc.FetchNew(context.Background(), "cs.AI", 5); err != nil {
		t.Fatalf("FetchNew error = %v", err)
	}

	var count int64
	db.Model(&models.AnalyticsEvent{}).Where("event_type = ?", models.EventPaperIngest).Count(&count)
	if count != 1 {
		t.Errorf("ingest events = %d, want 1", count)
	}
}

func TestListPagination(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeSource{})

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		paper := models.Paper{
			ArxivID:     fmt.Sprintf("2401.%05dv1", i),
			Title:       fmt.Sprintf("Paper %d", i),
			Domain:      "cs.AI",
			Tags:        []byte("[]"),
			FetchedDate: base.Add(time.Duration(i) * time.Hour),
		}
		if err := db.Create(&paper).Error; err != nil {
			t.Fatalf("fixture insert: %v", err)
		}
	}

	total, page, err := svc.List(context.Background(), "", 1, 2)
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	// Ordered by fetch time descending: skipping 1 lands on Paper 3.
	if page[0].Title != "Paper 3" || page[1].Title != "Paper 2" {
		t.Errorf("page order = %q, %q; want Paper 3, Paper 2", page[0].Title, page[1].Title)
	}
}

func TestListDomainFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeSource{})

	for i, domain := range []string{"cs.AI", "cs.AI", "cs.LG"} {
		paper := models.Paper{
			ArxivID:     fmt.Sprintf("2402.%05dv1", i),
			Title:       fmt.Sprintf("Paper %d", i),
			Domain:      domain,
			Tags:        []byte("[]"),
			FetchedDate: time.Now().UTC(),
		}
		if err := db.Create(&paper).Error; err != nil {
			t.Fatalf("fixture insert: %v", err)
		}
	}

	total, page, err := svc.List(context.Background(), "cs.AI", 0, 10)
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if total != 2 || len(page) != 2 {
		t.Errorf("filtered list = total %d, page %d; want 2, 2", total, len(page))
	}
	for _, p := range page {
		if p.Domain != "cs.AI" {
			t.Errorf("paper %s has domain %q, want cs.AI", p.ArxivID, p.Domain)
		}
	}
}

func TestGetByArxivIDIncrementsViewCount(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{records: []arxiv.PaperRecord{record("2401.00040v1", "Watched")}}
	svc := newTestService(t, db, source)

	if _, err := svc.FetchNew(context.Background(), "cs.AI", 5); err != nil {
		t.Fatalf("FetchNew error = %v", err)
	}

	first, err := svc.GetByArxivID(context.Background(), "2401.00040v1")
	if err != nil {
		t.Fatalf("GetByArxivID error = %v", err)
	}
	second, err := svc.GetByArxivID(context.Background(), "2401.00040v1")
	if err != nil {
		t.Fatalf("GetByArxivID error = %v", err)
	}

	if first.ViewCount != 1 || second.ViewCount != 2 {
		t.Errorf("view counts = %d, %d; want 1 then 2", first.ViewCount, second.ViewCount)
	}

	var viewEvents int64
	db.Model(&models.AnalyticsEvent{}).Where("event_type = ?", models.EventPaperView).Count(&viewEvents)
	if viewEvents != 2 {
		t.Errorf("view events = %d, want 2", viewEvents)
	}
}

func TestGetByArxivIDNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeSource{})

	_, err := svc.GetByArxivID(context.Background(), "9999.99999v9")
	if err != gorm.ErrRecordNotFound {
		t.Errorf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestDomains(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeSource{})

	for i, domain := range []string{"cs.AI", "cs.AI", "cs.AI", "cs.LG"} {
		paper := models.Paper{
			ArxivID:     fmt.Sprintf("2403.%05dv1", i),
			Domain:      domain,
			Tags:        []byte("[]"),
			FetchedDate: time.Now().UTC(),
		}
		if err := db.Create(&paper).Error; err != nil {
			t.Fatalf("fixture insert: %v", err)
		}
	}

	domains, err := svc.Domains(context.Background())
	if err != nil {
		t.Fatalf("Domains error = %v", err)
	}
	if len(domains) != 2 {
		t.Fatalf("domains = %d, want 2", len(domains))
	}
	if domains[0].Domain != "cs.AI" || domains[0].Count != 3 {
		t.Errorf("top domain = %+v, want cs.AI with 3", domains[0])
	}
	if domains[1].Domain != "cs.LG" || domains[1].Count != 1 {
		t.Errorf("second domain = %+v, want cs.LG with 1", domains[1])
	}
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, db, &fakeSource{})

	user := models.User{Email: "stats@test.local", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user fixture: %v", err)
	}
	paper := models.Paper{ArxivID: "2404.00001v1", Domain: "cs.AI", Tags: []byte("[]"), FetchedDate: time.Now().UTC()}
	if err := db.Create(&paper).Error; err != nil {
		t.Fatalf("paper fixture: %v", err)
	}
	if err := db.Create(&models.Bookmark{UserID: user.ID, PaperID: paper.ID, Folder: "default"}).Error; err != nil {
		t.Fatalf("bookmark fixture: %v", err)
	}
	if err := db.Create(&models.Explanation{PaperID: paper.ID, Mode: models.ExplanationModeSimple, Content: "short"}).Error; err != nil {
		t.Fatalf("explanation fixture: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats error = %v", err)
	}
	want := Stats{Papers: 1, Users: 1, Bookmarks: 1, Explanations: 1, Domains: 1}
	if stats != want {
		t.Errorf("Stats = %+v, want %+v", stats, want)
	}
}
