package models

// DataProfile is the profiling agent's numeric summary of the dataset,
// persisted as a governance document in the run directory. The trust model
// recomputes data_quality from it when available.
type DataProfile struct {
	RowCount         int     `json:"row_count"`
	ColumnCount      int     `json:"column_count"`
	MissingCellRatio float64 `json:"missing_cell_ratio"` // 0..1
	ConstantColumns  int     `json:"constant_columns"`
	Volatility       float64 `json:"volatility"` // 0..1, cross-column dispersion instability
	MeanAbsSkew      float64 `json:"mean_abs_skew"`
}
