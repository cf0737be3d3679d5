package journal

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{
	"trade_id", "symbol", "side", "exchange", "segment", "broker", "quantity",
	"entry_price", "exit_price", "open_time", "close_time",
	"gross_pnl", "total_charges", "net_pnl", "notes",
}

// WriteCSV exports recs with their derived P&L. Open trades leave the exit
// and P&L columns empty.
func WriteCSV(w io.Writer, recs []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range recs {
		row := []string{
			t.TradeID,
			t.Symbol,
			string(t.Side),
			string(t.Exchange),
			string(t.Segment),
			t.Broker,
			strconv.FormatInt(t.Quantity, 10),
			f(t.EntryPrice),
			"",
			t.OpenTime.UTC().Format(time.RFC3339),
			"",
			"", "", "",
			t.Notes,
		}
		if !t.IsOpen() {
			res, err := t.NetPnl()
			if err != nil {
				return err
			}
			d := res.Rounded()
			row[8] = f(t.ExitPrice)
			row[10] = t.CloseTime.UTC().Format(time.RFC3339)
			row[11] = f(d.GrossPnl)
			row[12] = f(d.Charges.TotalCharges)
			row[13] = f(d.NetPnl)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes recs to path, replacing any existing file.
func ExportCSV(path string, recs []TradeRecord) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(fh, recs); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
