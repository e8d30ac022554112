package billing

import (
	"os"
	"strconv"

	"github.com/gocarina/gocsv"
)

type ledgerCSVRow struct {
	Index        int    `csv:"index"`
	Month        string `csv:"month"`
	UsageKWh     string `csv:"usage_kwh"`
	EnergyCharge string `csv:"energy_charge"`
	FixedCharge  string `csv:"fixed_charge"`
	Bill         string `csv:"bill"`
	CumBill      string `csv:"cum_bill"`
}

func toCSVRows(ledger []LedgerRow) []*ledgerCSVRow {
	rows := make([]*ledgerCSVRow, 0, len(ledger))
	for _, r := range ledger {
		rows = append(rows, &ledgerCSVRow{
			Index:        r.Index,
			Month:        r.Month.Format("2006-01"),
			UsageKWh:     strconv.FormatFloat(r.UsageKWh, 'f', 1, 64),
			EnergyCharge: r.EnergyCharge.StringFixed(2),
			FixedCharge:  r.FixedCharge.StringFixed(2),
			Bill:         r.Bill.StringFixed(2),
			CumBill:      r.CumBill.StringFixed(2),
		})
	}
	return rows
}

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows := toCSVRows(ledger)
	return gocsv.MarshalFile(&rows, f)
}
