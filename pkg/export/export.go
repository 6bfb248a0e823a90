// Package export writes scraped profiles as JSON, CSV and XLSX files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"igprofiler/pkg/config"
	"igprofiler/pkg/logger"
	"igprofiler/pkg/models"
	"igprofiler/pkg/storage"
)

// SheetName is the worksheet XLSX exports write to
const SheetName = "profiles"

// JSON writes profiles as an indented JSON array
func JSON(profiles []models.ProfileRecord, path string) error {
	if profiles == nil {
		profiles = []models.ProfileRecord{}
	}
	return storage.WriteFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(profiles)
	})
}

// CSV writes one row per profile under a models.Columns header.
// Post-level detail is not included.
func CSV(profiles []models.ProfileRecord, path string) error {
	return storage.WriteFile(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(models.Columns); err != nil {
			return err
		}
		for _, p := range profiles {
			if err := cw.Write(p.Row()); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// XLSX writes the CSV projection into the "profiles" sheet of a workbook,
// keeping numeric cells numeric
func XLSX(profiles []models.ProfileRecord, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(models.Columns))
	for i, col := range models.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, p := range profiles {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := p.Values()
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", p.Username, err)
		}
	}

	return storage.WriteFile(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

// All writes every format with a non-empty path in out. A failing format
// is logged and does not prevent the others; the failures are returned joined.
func All(profiles []models.ProfileRecord, out config.OutputConfig, log logger.Logger) error {
	log = logger.OrNop(log)

	if len(profiles) == 0 {
		log.Warn("No profiles to export, writing empty files")
	}

	targets := []struct {
		format string
		path   string
		write  func([]models.ProfileRecord, string) error
	}{
		{"json", out.JSON, JSON},
		{"csv", out.CSV, CSV},
		{"xlsx", out.XLSX, XLSX},
	}

	var errs []error
	for _, t := range targets {
		if t.path == "" {
			continue
		}
		fields := map[string]interface{}{
			"format":   t.format,
			"path":     t.path,
			"profiles": len(profiles),
		}
		if err := t.write(profiles, t.path); err != nil {
			log.WithError(err).ErrorWithFields("Export failed", fields)
			errs = append(errs, fmt.Errorf("%s export to %s: %w", t.format, t.path, err))
			continue
		}
		log.InfoWithFields("Export written", fields)
	}

	return errors.Join(errs...)
}
