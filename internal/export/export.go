// Package export writes the locally cached projects and tasks of one
// student to CSV or XLSX files, for working offline or handing in a
// snapshot.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"

	"github.com/xuri/excelize/v2"
)

type Exporter struct {
	Dir string
}

func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

func (e *Exporter) ensureDir() error {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	return nil
}

var taskHeaders = []string{"Project", "Task", "Description", "Status", "Due date"}

// rows joins tasks with their project titles, one row per task.
// Tasks whose project is not cached keep an empty project column.
func rows(projects []models.Project, tasks []models.Task) [][]string {
	titles := make(map[string]string, len(projects))
	for _, p := range projects {
		titles[p.ID] = p.Title
	}
	out := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, []string{
			titles[t.ProjectID],
			t.Title,
			t.Description,
			t.Status,
			t.DueDate,
		})
	}
	return out
}

// CSV writes a task overview and returns the file path.
func (e *Exporter) CSV(projects []models.Project, tasks []models.Task) (string, error) {
	if err := e.ensureDir(); err != nil {
		return "", err
	}
	path := filepath.Join(e.Dir, fmt.Sprintf("tasks_%s.csv", time.Now().Format("20060102")))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	// UTF-8 BOM so spreadsheet apps detect the encoding
	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("write bom: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(taskHeaders); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows(projects, tasks) {
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return path, nil
}

// XLSX writes a task overview workbook and returns the file path.
func (e *Exporter) XLSX(projects []models.Project, tasks []models.Task) (string, error) {
	if err := e.ensureDir(); err != nil {
		return "", err
	}
	path := filepath.Join(e.Dir, fmt.Sprintf("tasks_%s.xlsx", time.Now().Format("20060102")))

	f := excelize.NewFile()
	sheetName := "Tasks"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, h := range taskHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, h)
	}
	for idx, row := range rows(projects, tasks) {
		for i, v := range row {
			cell := fmt.Sprintf("%c%d", 'A'+i, idx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 25)
	f.SetColWidth(sheetName, "B", "B", 25)
	f.SetColWidth(sheetName, "C", "C", 40)
	f.SetColWidth(sheetName, "D", "D", 14)
	f.SetColWidth(sheetName, "E", "E", 12)

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save xlsx: %w", err)
	}
	return path, nil
}
