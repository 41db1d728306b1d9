package model

import (
	"time"

	"gorm.io/datatypes"
)

// BacktestRun is the persisted record of one completed simulation. The
// bar-level ledger is not stored; it can be rebuilt deterministically from
// the same inputs.
type BacktestRun struct {
	ID          uint           `gorm:"primarykey"`
	Symbol      string         `gorm:"not null;index"`
	Strategy    string         `gorm:"not null"`
	Params      datatypes.JSON `gorm:"type:jsonb"`
	Summary     datatypes.JSON `gorm:"type:jsonb"`
	TradeStats  datatypes.JSON `gorm:"type:jsonb"`
	InitialCash float64        `gorm:"not null"`
	FinalEquity float64        `gorm:"not null"`
	NumTrades   int            `gorm:"not null"`
	StartTime   time.Time
	EndTime     time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (BacktestRun) TableName() string {
	return "backtest_runs"
}

type GetBacktestRunsParam struct {
	Symbol   string
	Strategy string
	Limit    int
}
