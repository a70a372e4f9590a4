package export

import (
	"encoding/csv"
	"os"
	"strings"
	"testing"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"
)

func sampleData() ([]models.Project, []models.Task) {
	projects := []models.Project{
		{ID: "p1", Title: "Projet tutoré"},
	}
	tasks := []models.Task{
		{ID: "t1", Title: "rapport", Description: "rédiger le rapport", Status: models.StatusTodo, DueDate: "2026-09-15", ProjectID: "p1"},
		{ID: "t2", Title: "soutenance", Status: models.StatusDone, DueDate: "2026-09-30", ProjectID: "unknown"},
	}
	return projects, tasks
}

func TestCSV(t *testing.T) {
	e := NewExporter(t.TempDir())
	projects, tasks := sampleData()

	path, err := e.CSV(projects, tasks)
	if err != nil {
		t.Fatalf("CSV error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	content := strings.TrimPrefix(string(raw), "\xef\xbb\xbf")

	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2 tasks", len(records))
	}

	// tasks are joined with their cached project title
	if records[1][0] != "Projet tutoré" || records[1][1] != "rapport" {
		t.Errorf("row 1 = %v, want the joined project title", records[1])
	}
	// a task whose project is not cached keeps an empty project column
	if records[2][0] != "" || records[2][3] != models.StatusDone {
		t.Errorf("row 2 = %v, want empty project and DONE status", records[2])
	}
}

func TestXLSX(t *testing.T) {
	e := NewExporter(t.TempDir())
	projects, tasks := sampleData()

	path, err := e.XLSX(projects, tasks)
	if err != nil {
		t.Fatalf("XLSX error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat export: %v", err)
	}
	if info.Size() == 0 {
		t.Error("xlsx export is empty")
	}
}

func TestCSV_CreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/exports"
	e := NewExporter(dir)

	if _, err := e.CSV(nil, nil); err != nil {
		t.Fatalf("CSV into missing dir error = %v", err)
	}
}
