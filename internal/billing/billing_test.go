package billing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"plan-picker/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() model.ValuedPlan {
	return model.ValuedPlan{
		Plan:               model.Plan{PlanID: "a12"},
		MeteredCentsPerKWh: 10.6,
		FixedCentsPerMonth: 400,
	}
}

func TestRun(t *testing.T) {
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	res, err := New().Run(testPlan(), 12000, start, 12)
	require.NoError(t, err)
	require.Len(t, res.Ledger, 12)
	assert.Equal(t, "a12", res.PlanKey)

	jan := res.Ledger[0]
	assert.Equal(t, time.January, jan.Month.Month())
	assert.Equal(t, 1, jan.Month.Day())
	assert.InDelta(t, 840.0, jan.UsageKWh, 1e-9)
	assert.True(t, decimal.RequireFromString("89.04").Equal(jan.EnergyCharge), jan.EnergyCharge.String())
	assert.True(t, decimal.RequireFromString("4").Equal(jan.FixedCharge))
	assert.True(t, decimal.RequireFromString("93.04").Equal(jan.Bill))

	aug := res.Ledger[7]
	assert.Equal(t, time.August, aug.Month.Month())
	assert.InDelta(t, 1680.0, aug.UsageKWh, 1e-9)

	sum := decimal.Zero
	for _, r := range res.Ledger {
		sum = sum.Add(r.Bill)
	}
	assert.True(t, sum.Equal(res.Total))
	assert.True(t, res.Ledger[11].CumBill.Equal(res.Total))
	// 12000 kWh at 10.6¢ plus 12 x $4
	assert.InDelta(t, 1320.0, res.Total.InexactFloat64(), 0.1)
	assert.InDelta(t, 0.11, res.AvgRate, 1e-4)
}

func TestRunWrapsCalendar(t *testing.T) {
	res, err := New().Run(testPlan(), 12000, time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC), 4)
	require.NoError(t, err)
	assert.Equal(t, time.February, res.Ledger[3].Month.Month())
	assert.Equal(t, 2025, res.Ledger[3].Month.Year())
}

func TestRunRejects(t *testing.T) {
	_, err := New().Run(testPlan(), 12000, time.Now(), 0)
	assert.Error(t, err)
	_, err = New().Run(testPlan(), 0, time.Now(), 12)
	assert.Error(t, err)
}

func TestWriteLedgerCSV(t *testing.T) {
	res, err := New().Run(testPlan(), 12000, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 2)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bills.csv")
	require.NoError(t, WriteLedgerCSV(path, res.Ledger))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "index,month,usage_kwh,energy_charge,fixed_charge,bill,cum_bill", lines[0])
	assert.Equal(t, "0,2024-01,840.0,89.04,4.00,93.04,93.04", lines[1])
}
