// Package sheets stores telemetry series as worksheets of local .xlsx workbooks,
// one workbook per data source.
package sheets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/models"
)

const maxTitleLength = 31

type Workbook struct {
	Dir string
	mu  sync.Mutex
}

func NewWorkbook(dir string) (*Workbook, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create sheets directory: %w", err)
	}
	return &Workbook{Dir: dir}, nil
}

// SeriesTitle maps a series identifier (MAC or UUID) to a worksheet title Excel accepts.
func SeriesTitle(seriesID string) string {
	title := strings.Map(func(r rune) rune {
		switch r {
		case ':', '-', '[', ']', '*', '?', '/', '\\', '\'':
			return -1
		}
		return r
	}, strings.TrimSpace(seriesID))
	for utf8.RuneCountInString(title) > maxTitleLength {
		_, size := utf8.DecodeLastRuneInString(title)
		title = title[:len(title)-size]
	}
	return title
}

func (w *Workbook) path(sourceID string) (string, error) {
	if sourceID == "" || sourceID == "." || sourceID == ".." || filepath.Base(sourceID) != sourceID {
		return "", common.Validationf("invalid data source id %q", sourceID)
	}
	return filepath.Join(w.Dir, sourceID+".xlsx"), nil
}

func title(seriesID string) (string, error) {
	t := SeriesTitle(seriesID)
	if t == "" {
		return "", common.Validationf("invalid series id %q", seriesID)
	}
	return t, nil
}

func (w *Workbook) open(sourceID string, create bool) (*excelize.File, string, error) {
	p, err := w.path(sourceID)
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(p); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", common.ExternalError("stat workbook", err)
		}
		if !create {
			return nil, "", common.ErrSeriesNotFound
		}
		return excelize.NewFile(), p, nil
	}
	f, err := excelize.OpenFile(p)
	if err != nil {
		return nil, "", common.ExternalError("open workbook", err)
	}
	return f, p, nil
}

func hasSheet(f *excelize.File, t string) (bool, error) {
	idx, err := f.GetSheetIndex(t)
	if err != nil {
		return false, common.ExternalError("lookup worksheet", err)
	}
	return idx != -1, nil
}

func (w *Workbook) CreateSeries(sourceID, seriesID string) error {
	t, err := title(seriesID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, p, err := w.open(sourceID, true)
	if err != nil {
		return err
	}
	defer f.Close()

	exists, err := hasSheet(f, t)
	if err != nil {
		return err
	}
	if exists {
		return common.ErrSeriesExists
	}

	if _, err := f.NewSheet(t); err != nil {
		return common.ExternalError("add worksheet", err)
	}
	header := append([]string(nil), models.SeriesHeader...)
	if err := f.SetSheetRow(t, "A1", &header); err != nil {
		return common.ExternalError("write header", err)
	}
	if err := f.SaveAs(p); err != nil {
		return common.ExternalError("save workbook", err)
	}

	common.GetLoggerWith(common.LoggerNameTelemetryStore).
		Info("Created series", zap.String("source_id", sourceID), zap.String("series", t))
	return nil
}

func (w *Workbook) RenameSeries(sourceID, fromID, toID string) error {
	from, err := title(fromID)
	if err != nil {
		return err
	}
	to, err := title(toID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, p, err := w.open(sourceID, false)
	if err != nil {
		return err
	}
	defer f.Close()

	if exists, err := hasSheet(f, from); err != nil {
		return err
	} else if !exists {
		return common.ErrSeriesNotFound
	}
	if exists, err := hasSheet(f, to); err != nil {
		return err
	} else if exists {
		return common.ErrSeriesExists
	}

	if err := f.SetSheetName(from, to); err != nil {
		return common.ExternalError("rename worksheet", err)
	}
	if err := f.SaveAs(p); err != nil {
		return common.ExternalError("save workbook", err)
	}

	common.GetLoggerWith(common.LoggerNameTelemetryStore).
		Info("Renamed series", zap.String("source_id", sourceID), zap.String("from", from), zap.String("to", to))
	return nil
}

func (w *Workbook) ReadRows(sourceID, seriesID string) ([][]string, error) {
	t, err := title(seriesID)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, _, err := w.open(sourceID, false)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if exists, err := hasSheet(f, t); err != nil {
		return nil, err
	} else if !exists {
		return nil, common.ErrSeriesNotFound
	}

	rows, err := f.GetRows(t)
	if err != nil {
		return nil, common.ExternalError("read rows", err)
	}
	return rows, nil
}

func (w *Workbook) DeleteSeries(sourceID, seriesID string) error {
	t, err := title(seriesID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, p, err := w.open(sourceID, false)
	if err != nil {
		return err
	}
	defer f.Close()

	if exists, err := hasSheet(f, t); err != nil {
		return err
	} else if !exists {
		return common.ErrSeriesNotFound
	}

	if err := f.DeleteSheet(t); err != nil {
		return common.ExternalError("delete worksheet", err)
	}
	if err := f.SaveAs(p); err != nil {
		return common.ExternalError("save workbook", err)
	}

	common.GetLoggerWith(common.LoggerNameTelemetryStore).
		Info("Deleted series", zap.String("source_id", sourceID), zap.String("series", t))
	return nil
}

// AppendRow writes row below the last non-empty row of the series.
func (w *Workbook) AppendRow(sourceID, seriesID string, row []string) error {
	t, err := title(seriesID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, p, err := w.open(sourceID, false)
	if err != nil {
		return err
	}
	defer f.Close()

	if exists, err := hasSheet(f, t); err != nil {
		return err
	} else if !exists {
		return common.ErrSeriesNotFound
	}

	rows, err := f.GetRows(t)
	if err != nil {
		return common.ExternalError("read rows", err)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return common.ExternalError("locate next row", err)
	}
	values := append([]string(nil), row...)
	if err := f.SetSheetRow(t, cell, &values); err != nil {
		return common.ExternalError("write row", err)
	}
	if err := f.SaveAs(p); err != nil {
		return common.ExternalError("save workbook", err)
	}
	return nil
}
