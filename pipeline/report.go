package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/streambinder/albumfix/backup"
	"github.com/streambinder/albumfix/entity"
	"github.com/streambinder/albumfix/util"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoReport is returned when no run report has been saved yet.
var ErrNoReport = errors.New("no run report found")

// Report is the outcome of a run, saved next to the snapshots it took.
type Report struct {
	ID          string        `json:"id"`
	Root        string        `json:"root"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
	Interrupted bool          `json:"interrupted,omitempty"`
	Albums      []AlbumReport `json:"albums"`
	Summary     Summary       `json:"summary"`
}

type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type AlbumReport struct {
	Dir       string        `json:"dir"`
	FinalDir  string        `json:"final_dir"`
	Album     string        `json:"album"`
	Artist    string        `json:"artist"`
	CatalogID string        `json:"catalog_id,omitempty"`
	Status    entity.Status `json:"status"`
	Backup    string        `json:"backup,omitempty"`
	Error     string        `json:"error,omitempty"`
	Files     []FileReport  `json:"files,omitempty"`
	Notes     []string      `json:"notes,omitempty"`
}

type FileReport struct {
	Src      string   `json:"src"`
	Dst      string   `json:"dst"`
	Title    string   `json:"title"`
	Number   int      `json:"number"`
	Position int      `json:"position"`
	Score    float64  `json:"score"`
	Matched  bool     `json:"matched"`
	Errors   []string `json:"errors,omitempty"`
}

func newReport(root string, now time.Time) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: now,
		Albums:    []AlbumReport{},
	}
}

func (report *Report) add(album AlbumReport) {
	report.Albums = append(report.Albums, album)
	report.Summary.Total++
	if album.Status == entity.Finalized {
		report.Summary.Succeeded++
	} else {
		report.Summary.Failed++
	}
}

// String is the batch level outcome.
func (summary Summary) String() string {
	return fmt.Sprintf("%d of %d albums processed successfully", summary.Succeeded, summary.Total)
}

// Name is the file name the report is saved as.
func (report *Report) Name() string {
	return fmt.Sprintf("report_%s.json", report.StartedAt.Format(backup.TimestampFormat))
}

// Save writes the report into dir, returning its path.
func (report *Report) Save(dir string) (string, error) {
	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return "", err
	}
	if err := util.WriteFileAtomic(dir, report.Name(), data); err != nil {
		return "", err
	}
	return filepath.Join(dir, report.Name()), nil
}

// LoadReport reads back a report written by Save.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &report, nil
}

// LatestReport returns the path of the newest report saved into dir.
func LatestReport(dir string) (string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "report_*.json"))
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoReport, dir)
	}
	// timestamps sort lexically
	sort.Strings(paths)
	return paths[len(paths)-1], nil
}

func (file *FileReport) fail(err error) {
	if err != nil {
		file.Errors = append(file.Errors, err.Error())
	}
}
