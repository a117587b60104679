package http

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/velora-beauty/velora/internal/reporting"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

var csvPrinter = message.NewPrinter(language.English)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	if s == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if !strings.HasSuffix(line, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		line += "\r\n"
	}
	if _, err := s.buf.WriteString(line); err != nil {
		return err
	}
	return nil
}

func (s *csvStreamer) writeRow(row []string) error {
	if s == nil || s.csv == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	if s == nil || s.csv == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

func (s *csvStreamer) Close() error {
	return s.Flush()
}

func writeReportCSV(w io.Writer, r *reporting.Report) error {
	streamer := newCSVStreamer(w)
	if err := streamer.writeComment("# Report: Profitability"); err != nil {
		return err
	}
	if err := streamer.writeComment(fmt.Sprintf("# Range: %s .. %s",
		r.Window.From.Format("2006-01-02"), r.Window.To.Format("2006-01-02"))); err != nil {
		return err
	}

	totalsRows := [][]string{
		{"Totals", "Total Revenue", formatAmount(r.TotalRevenue)},
		{"Totals", "Gross Profit", formatAmount(r.GrossProfit)},
		{"Totals", "Total Expenses", formatAmount(r.TotalExpenses)},
		{"Totals", "Net Profit", formatAmount(r.NetProfit)},
		{"Totals", "Orders", strconv.Itoa(r.TotalOrders)},
		{"Totals", "Distinct Buyers", strconv.Itoa(r.DistinctBuyers)},
	}
	for _, row := range totalsRows {
		if err := streamer.writeRow(row); err != nil {
			return err
		}
	}
	if err := streamer.writeRow([]string{"", "", ""}); err != nil {
		return err
	}

	if err := streamer.writeRow([]string{"Daily", "Sales", "Profit"}); err != nil {
		return err
	}
	for _, point := range r.Series {
		if err := streamer.writeRow([]string{point.Date, formatAmount(point.Sales), formatAmount(point.Profit)}); err != nil {
			return err
		}
	}
	if err := streamer.writeRow([]string{"", "", ""}); err != nil {
		return err
	}

	if err := writeRankSection(streamer, "Top Product", r.TopProducts); err != nil {
		return err
	}
	if err := writeRankSection(streamer, "Top Customer", r.TopCustomers); err != nil {
		return err
	}
	if err := writeRankSection(streamer, "Group Revenue", r.RevenueByGroup); err != nil {
		return err
	}

	if err := streamer.writeRow([]string{"Expense", "Date", "Amount"}); err != nil {
		return err
	}
	for _, expense := range r.Expenses {
		if err := streamer.writeRow([]string{
			expense.Name,
			expense.SpentAt.Format("2006-01-02"),
			formatAmount(expense.Amount),
		}); err != nil {
			return err
		}
	}

	return streamer.Close()
}

func writeRankSection(streamer *csvStreamer, section string, entries []reporting.RankEntry) error {
	if err := streamer.writeRow([]string{section, "Revenue", ""}); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := streamer.writeRow([]string{entry.Label, formatAmount(entry.Amount), ""}); err != nil {
			return err
		}
	}
	return streamer.writeRow([]string{"", "", ""})
}

func formatAmount(v decimal.Decimal) string {
	return csvPrinter.Sprintf("%.2f", v.InexactFloat64())
}
