package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/tradebook/risk"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode entry. Structured facts
// go in the PROPERTIES drawer; Thesis/Execution/Review are left for notes.
func FormatTradeOrg(t TradeRecord) string {
	state := "CLOSED"
	if t.IsOpen() {
		state = "OPEN"
	}
	heading := fmt.Sprintf("** %s %s %s (%s)", state, t.Side, t.Symbol, shortID(t.TradeID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", t.TradeID))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":EXCHANGE: %s\n", t.Exchange))
	b.WriteString(fmt.Sprintf(":SEGMENT: %s\n", t.Segment))
	if t.Broker != "" {
		b.WriteString(fmt.Sprintf(":BROKER: %s\n", t.Broker))
	}
	b.WriteString(fmt.Sprintf(":QUANTITY: %d\n", t.Quantity))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %.2f\n", t.EntryPrice))
	if t.StopLoss > 0 {
		b.WriteString(fmt.Sprintf(":STOP_LOSS: %.2f\n", t.StopLoss))
	}
	if t.Target > 0 {
		b.WriteString(fmt.Sprintf(":TARGET: %.2f\n", t.Target))
	}
	b.WriteString(fmt.Sprintf(":OPEN_TIME: %s\n", t.OpenTime.UTC().Format(time.RFC3339)))

	if !t.IsOpen() {
		b.WriteString(fmt.Sprintf(":EXIT_PRICE: %.2f\n", t.ExitPrice))
		b.WriteString(fmt.Sprintf(":CLOSE_TIME: %s\n", t.CloseTime.UTC().Format(time.RFC3339)))
		if res, err := t.NetPnl(); err == nil {
			d := res.Rounded()
			b.WriteString(fmt.Sprintf(":GROSS_PNL: %.2f\n", d.GrossPnl))
			b.WriteString(fmt.Sprintf(":BROKERAGE: %.2f\n", d.Charges.Brokerage))
			b.WriteString(fmt.Sprintf(":STT: %.2f\n", d.Charges.STT))
			b.WriteString(fmt.Sprintf(":EXCHANGE_CHARGES: %.2f\n", d.Charges.ExchangeCharges))
			b.WriteString(fmt.Sprintf(":GST: %.2f\n", d.Charges.GST))
			b.WriteString(fmt.Sprintf(":SEBI: %.2f\n", d.Charges.SEBICharges))
			b.WriteString(fmt.Sprintf(":STAMP_DUTY: %.2f\n", d.Charges.StampDuty))
			b.WriteString(fmt.Sprintf(":TOTAL_CHARGES: %.2f\n", d.Charges.TotalCharges))
			b.WriteString(fmt.Sprintf(":NET_PNL: %.2f\n", d.NetPnl))
		}
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n")
	if t.Notes != "" {
		b.WriteString("- " + t.Notes + "\n\n")
	} else {
		b.WriteString("- \n\n")
	}
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

// FormatSummaryOrg renders s as an Org table.
func FormatSummaryOrg(s Summary) string {
	var b strings.Builder
	b.WriteString("| metric | value |\n|--------+-------|\n")
	row := func(k, v string) { b.WriteString(fmt.Sprintf("| %s | %s |\n", k, v)) }
	row("trades", fmt.Sprintf("%d (%d open)", s.Trades, s.Open))
	row("wins / losses", fmt.Sprintf("%d / %d", s.Wins, s.Losses))
	row("win rate", fmt.Sprintf("%d%%", s.WinRate))
	row("gross P&L", fmt.Sprintf("%.2f", s.GrossPnl))
	row("charges", fmt.Sprintf("%.2f", s.TotalCharges))
	row("net P&L", fmt.Sprintf("%.2f", s.NetPnl))
	if s.PnlPercentStatus == risk.StatusOK {
		row("net P&L %", fmt.Sprintf("%.2f%%", s.PnlPercent))
	} else {
		row("net P&L %", "n/a")
	}
	row("avg / stddev", fmt.Sprintf("%.2f / %.2f", s.AvgNet, s.StdDevNet))
	row("profit factor", fmt.Sprintf("%.2f", s.ProfitFactor))
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
