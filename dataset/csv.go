// Package dataset はCSVファイルから単回帰用の(x, y)データを読み込む
//
// 読み込みと同時にクリーニングを行い、除外した行の内訳を
// CleaningReportとして返す。数値に変換できない行やNaN/Infを含む行は
// エラーにせず黙って除外する（件数は報告する）。
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/gradgo/pkg/errors"
)

// Options はCSV読み込みの設定
type Options struct {
	// XColumn は特徴量の列名。空なら1列目を使う。
	XColumn string

	// YColumn は目的変数の列名。空なら2列目を使う。
	YColumn string

	// DropDuplicates は(x, y)が完全に一致する行を除外する
	DropDuplicates bool
}

// CleaningReport はクリーニングで除外した行の内訳
type CleaningReport struct {
	TotalRows  int `json:"total_rows"`
	Accepted   int `json:"accepted"`
	Missing    int `json:"missing"`
	NonNumeric int `json:"non_numeric"`
	NonFinite  int `json:"non_finite"`
	Duplicates int `json:"duplicates"`
}

// Dropped は除外された行の総数を返す
func (r CleaningReport) Dropped() int {
	return r.Missing + r.NonNumeric + r.NonFinite + r.Duplicates
}

// Load はCSVストリームから(x, y)列を読み込む
//
// 1行目はヘッダとして扱う。指定された列名が見つからない場合は
// ValueErrorを返す。クリーニング後に有効な行が1件もない場合は
// ErrEmptyDataを返す。
func Load(r io.Reader, opts Options) (x, y []float64, report CleaningReport, err error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// 列数のばらつきはクリーニングで処理する
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, report, errors.NewModelError("dataset.Load", "empty file", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, nil, report, errors.Wrap(err, "dataset.Load: read header")
	}

	xIdx, yIdx, err := resolveColumns(header, opts)
	if err != nil {
		return nil, nil, report, err
	}

	seen := make(map[[2]float64]bool)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, report, errors.Wrap(err, "dataset.Load: read row")
		}
		report.TotalRows++

		if xIdx >= len(record) || yIdx >= len(record) {
			report.Missing++
			continue
		}
		xs := strings.TrimSpace(record[xIdx])
		ys := strings.TrimSpace(record[yIdx])
		if xs == "" || ys == "" {
			report.Missing++
			continue
		}

		xv, errX := strconv.ParseFloat(xs, 64)
		yv, errY := strconv.ParseFloat(ys, 64)
		if errX != nil || errY != nil {
			report.NonNumeric++
			continue
		}
		if math.IsNaN(xv) || math.IsInf(xv, 0) || math.IsNaN(yv) || math.IsInf(yv, 0) {
			report.NonFinite++
			continue
		}

		if opts.DropDuplicates {
			key := [2]float64{xv, yv}
			if seen[key] {
				report.Duplicates++
				continue
			}
			seen[key] = true
		}

		x = append(x, xv)
		y = append(y, yv)
		report.Accepted++
	}

	if report.Accepted == 0 {
		return nil, nil, report, errors.NewModelError("dataset.Load", "no valid rows after cleaning", errors.ErrEmptyData)
	}
	return x, y, report, nil
}

// LoadFile はCSVファイルから(x, y)列を読み込む
func LoadFile(path string, opts Options) (x, y []float64, report CleaningReport, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, report, errors.Wrapf(err, "dataset.LoadFile: open %s", path)
	}
	defer func() { _ = f.Close() }()
	return Load(f, opts)
}

// resolveColumns はヘッダから対象列の位置を決める
func resolveColumns(header []string, opts Options) (xIdx, yIdx int, err error) {
	if opts.XColumn == "" && opts.YColumn == "" {
		if len(header) < 2 {
			return 0, 0, errors.NewValueError("dataset.Load", "need at least two columns")
		}
		return 0, 1, nil
	}

	xIdx, yIdx = -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case opts.XColumn:
			xIdx = i
		case opts.YColumn:
			yIdx = i
		}
	}
	if xIdx < 0 {
		return 0, 0, errors.NewValueError("dataset.Load", "x column not found: "+opts.XColumn)
	}
	if yIdx < 0 {
		return 0, 0, errors.NewValueError("dataset.Load", "y column not found: "+opts.YColumn)
	}
	return xIdx, yIdx, nil
}
