// internal/app/features/payments/export.go
package payments

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dalemusser/clubdesk/internal/app/system/apiclient"
	"github.com/dalemusser/clubdesk/internal/app/system/flash"
	"github.com/dalemusser/clubdesk/internal/app/system/listquery"
	"github.com/dalemusser/clubdesk/internal/app/system/timeouts"
	"github.com/dalemusser/clubdesk/internal/domain/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	exportPageSize = 100
	maxExportPages = 50
	xlsxType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeaders = []string{
	"ID", "Reference", "Member", "Amount", "Currency", "Purpose",
	"Status", "Paid", "Paid on", "Created", "Remarks",
}

// ServeExport downloads every payment matching the list's current keyword
// and filters as an XLSX workbook.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	names := make([]string, len(filters))
	for i, f := range filters {
		names[i] = f.Name
	}
	q := listquery.FromValues(r.URL.Query(), names, exportPageSize)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	rows, total, err := h.fetchAll(ctx, q)
	if err != nil {
		h.ErrLog.APIError(w, r, "export payments", err, "/payments")
		return
	}
	if total > maxExportPages*exportPageSize && h.Flash != nil {
		msg := fmt.Sprintf("The export holds the first %d of %d payments. Narrow the filters to export the rest.", len(rows), total)
		if err := flash.Add(w, r, h.Flash, flash.Warning, msg); err != nil {
			h.Log.Warn("queue toast failed", zap.Error(err))
		}
	}

	body, err := buildWorkbook(rows)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build payments workbook", err, "Could not build the export.", "/payments")
		return
	}

	h.Log.Info("payments exported", zap.Int("rows", len(rows)))
	name := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", "attachment; filename="+name)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}

// fetchAll reads the first page to learn the total, then the remaining
// pages in parallel, up to maxExportPages. It returns the backend's total.
func (h *Handler) fetchAll(ctx context.Context, q listquery.Query) ([]models.Payment, int, error) {
	page := func(ctx context.Context, n int) ([]models.Payment, int, error) {
		var items []models.Payment
		total, err := h.API.List(ctx, apiclient.ListParams{
			Keyword: q.Keyword,
			Page:    n,
			Size:    exportPageSize,
			Filters: q.Filters,
		}, &items)
		return items, total, err
	}

	first, total, err := page(ctx, 1)
	if err != nil {
		return nil, 0, err
	}
	pages := (total + exportPageSize - 1) / exportPageSize
	if pages > maxExportPages {
		h.Log.Warn("payments export truncated", zap.Int("total", total), zap.Int("pages", maxExportPages))
		pages = maxExportPages
	}
	if pages <= 1 {
		return first, total, nil
	}

	results := make([][]models.Payment, pages)
	results[0] = first
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for n := 2; n <= pages; n++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items, _, err := page(gctx, n)
			if err != nil {
				return fmt.Errorf("page %d: %w", n, err)
			}
			mu.Lock()
			results[n-1] = items
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var out []models.Payment
	for _, items := range results {
		out = append(out, items...)
	}
	return out, total, nil
}

func buildWorkbook(rows []models.Payment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payments"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for i, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for i, p := range rows {
		row := i + 2
		paid := "No"
		if p.IsPaid {
			paid = "Yes"
		}
		values := []any{
			p.ID, p.Reference, p.UserName, p.Amount, p.Currency, p.Purpose,
			models.ParseStatus(p.Status).Label(), paid, p.PaidAt, p.CreatedAt, p.Remarks,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
