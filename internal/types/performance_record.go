package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PerformanceRecord is one line/shift/date observation captured by data
// entry. The KPI pipeline treats it as read-only input; derived metrics are
// computed per request and never written back onto this row.
type PerformanceRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LineShift string    `gorm:"column:line_shift;size:50;not null;index:idx_perf_line_date" json:"line_shift"`
	Date      time.Time `gorm:"type:date;not null;index:idx_perf_line_date" json:"date"`
	Shift     string    `gorm:"size:20;not null" json:"shift"`

	Manpower       int     `gorm:"not null;default:0" json:"manpower"`
	Absent         int     `gorm:"not null;default:0" json:"absent"`
	Separated      int     `gorm:"not null;default:0" json:"separated"`
	NoOTManpower   int     `gorm:"column:no_ot_manpower;not null;default:0" json:"no_ot_manpower"`
	OTManpower     int     `gorm:"column:ot_manpower;not null;default:0" json:"ot_manpower"`
	OTHours        float64 `gorm:"column:ot_hours;not null;default:0" json:"ot_hours"`

	Plan            int     `gorm:"not null;default:0" json:"plan"`
	ActualOutput    int     `gorm:"not null;default:0" json:"actual_output"`
	CircuitOutput   int     `gorm:"not null;default:0" json:"circuit_output"`
	DowntimeMinutes int     `gorm:"not null;default:0" json:"downtime_minutes"`
	UtilizationPct  float64 `gorm:"column:utilization_pct;not null;default:0" json:"utilization_pct"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PerformanceRecord) TableName() string { return "performance_record" }
