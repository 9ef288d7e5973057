package aggregate

import "github.com/yurifrl/finsum/pkg/models"

type CashFlowStatus string

const (
	Positive CashFlowStatus = "positive"
	Negative CashFlowStatus = "negative"
)

// CashFlowSnapshot summarizes whether the household saves or burns money on
// average over its active months.
type CashFlowSnapshot struct {
	ActivePeriods int            `json:"activePeriods"`
	AverageNet    float64        `json:"averageNet"`
	TotalNet      float64        `json:"totalNet"`
	Status        CashFlowStatus `json:"status"`
}

// AverageBurn is the average monthly loss, zero when saving.
func (s CashFlowSnapshot) AverageBurn() float64 {
	if s.AverageNet >= 0 {
		return 0
	}
	return -s.AverageNet
}

// CashFlow computes the snapshot. It reports false when no period had any
// activity.
func CashFlow(data *models.ProcessedData) (CashFlowSnapshot, bool) {
	active := 0
	for _, p := range data.PeriodSummaries {
		if p.Active() {
			active++
		}
	}
	if active == 0 {
		return CashFlowSnapshot{}, false
	}

	net := data.Net()
	snapshot := CashFlowSnapshot{
		ActivePeriods: active,
		AverageNet:    net / float64(active),
		TotalNet:      net,
		Status:        Positive,
	}
	if snapshot.AverageNet < 0 {
		snapshot.Status = Negative
	}
	return snapshot, true
}
