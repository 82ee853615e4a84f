// Package export writes the transaction collection to delimited text.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"compta/internal/core"
)

const dateLayout = "02/01/2006"

var header = []string{"ID", "Date", "Account", "Type", "Category", "Description", "Amount"}

// WriteCSV dumps the transactions as CSV: a fixed 7-column header, one row
// per transaction, every field double-quoted with embedded quotes doubled.
// Amounts are written as raw decimals so the dump stays lossless.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	bw := bufio.NewWriter(w)

	if err := writeRow(bw, header); err != nil {
		return err
	}
	for _, t := range txs {
		row := []string{
			fmt.Sprintf("%d", t.ID),
			t.Date.Format(dateLayout),
			t.Account,
			t.Direction.Label(),
			t.Category.Label(),
			t.Description,
			t.Amount.String(),
		}
		if err := writeRow(bw, row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportFile writes the CSV dump to path. A failure is reported to the
// caller and never touches the in-memory ledger.
func ExportFile(path string, txs []core.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := WriteCSV(f, txs); err != nil {
		f.Close()
		return fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(field)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// quote wraps a field in double quotes, doubling embedded quotes per
// standard CSV quoting.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
