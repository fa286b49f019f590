package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
	"travel-tracker/internal/logging"
)

// Export formats
const (
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Trip", 24},
	{"Date", 22},
	{"From", 36},
	{"To", 36},
	{"Distance", 20},
	{"Mode", 22},
	{"Purpose", 30},
}

// exportServiceImpl implements the ExportService interface
type exportServiceImpl struct {
	now func() time.Time
}

// NewExportService creates a new export service instance
func NewExportService() ExportService {
	return &exportServiceImpl{now: time.Now}
}

// ExportFilename derives the download name from a user's display name
func ExportFilename(name, format string) string {
	base := strings.Join(strings.Fields(name), "_")
	return base + "_trips." + format
}

// ExportUserJSON renders a provider user and their trips
func (s *exportServiceImpl) ExportUserJSON(user domain.User) (*ExportFile, error) {
	trips := user.Trips
	if trips == nil {
		trips = []domain.UserTrip{}
	}
	return s.renderJSON(ExportUser{Name: user.Name, Email: user.Email}, trips)
}

// ExportLedgerJSON renders the signed-in user's own trip history
func (s *exportServiceImpl) ExportLedgerJSON(auth *domain.AuthContext, records []domain.TripRecord) (*ExportFile, error) {
	if !auth.IsAuthenticated() {
		return nil, errors.NewAuthenticationError(NotSignedInMessage)
	}
	trips := domain.NewMapper().TripRecord.ToStorageSlice(records)
	return s.renderJSON(ExportUser{Name: auth.Username, Email: auth.Email}, trips)
}

func (s *exportServiceImpl) renderJSON(user ExportUser, trips interface{}) (*ExportFile, error) {
	doc := ExportEnvelope{
		User:       user,
		Trips:      trips,
		ExportDate: s.now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, "failed to encode export")
	}
	return &ExportFile{
		Filename: ExportFilename(user.Name, FormatJSON),
		Format:   FormatJSON,
		Data:     data,
	}, nil
}

// ExportUserPDF renders a provider user's trips as a PDF table
func (s *exportServiceImpl) ExportUserPDF(user domain.User) (*ExportFile, error) {
	rows := make([][]string, 0, len(user.Trips))
	for _, t := range user.Trips {
		rows = append(rows, []string{t.ID, t.Date, t.Origin, t.Destination, t.Distance, t.Mode, t.Purpose})
	}
	return s.renderPDF(ExportUser{Name: user.Name, Email: user.Email}, rows)
}

// ExportLedgerPDF renders the signed-in user's history as a PDF table
func (s *exportServiceImpl) ExportLedgerPDF(auth *domain.AuthContext, records []domain.TripRecord) (*ExportFile, error) {
	if !auth.IsAuthenticated() {
		return nil, errors.NewAuthenticationError(NotSignedInMessage)
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.TripNumber, r.Date, r.Origin, r.Destination, r.Distance, string(r.Mode), string(r.Purpose)})
	}
	return s.renderPDF(ExportUser{Name: auth.Username, Email: auth.Email}, rows)
}

func (s *exportServiceImpl) renderPDF(user ExportUser, rows [][]string) (*ExportFile, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip History", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Trip History")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("%s <%s>", user.Name, user.Email))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Exported: "+s.now().UTC().Format(time.RFC3339))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 9)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(rows) == 0 {
		pdf.Cell(0, 7, "No trips recorded.")
		pdf.Ln(7)
	}
	for _, row := range rows {
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, truncate(pdf, row[i], col.width-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeStorage, "failed to render PDF")
	}
	return &ExportFile{
		Filename: ExportFilename(user.Name, FormatPDF),
		Format:   FormatPDF,
		Data:     buf.Bytes(),
	}, nil
}

// truncate shortens s until it fits the given cell width
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// WriteFile writes the export atomically. When path is an existing directory
// the export's own file name is used inside it.
func (s *exportServiceImpl) WriteFile(path string, file *ExportFile) (string, error) {
	if file == nil {
		return "", errors.NewInvalidInputError("file", nil, "nothing to write")
	}
	if path == "" {
		path = "."
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, file.Filename)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return "", errors.NewStorageError("create export file", err).WithContext("path", path)
	}
	tempPath := tmp.Name()
	success := false
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
		}
		if !success {
			_ = os.Remove(tempPath)
		}
	}()

	if _, err := tmp.Write(file.Data); err != nil {
		return "", errors.NewStorageError("write export file", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", errors.NewStorageError("sync export file", err)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.NewStorageError("close export file", err)
	}
	tmp = nil

	// Renaming onto a symlink replaces the link itself, so the file it
	// points at would never see the export. Refuse instead.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return "", errors.NewInvalidInputError("path", path, "export path is a symlink")
	}
	if err := os.Rename(tempPath, path); err != nil {
		return "", errors.NewStorageError("finalize export file", err).WithContext("path", path)
	}

	success = true
	logging.Debugf("wrote %d bytes to %s\n", len(file.Data), path)
	return path, nil
}
