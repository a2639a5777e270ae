package layout

import "math"

// ColumnTimeOffsetPolicy 把列下标映射为该列相对本页起点的时间偏移（秒）。
// 缺省的列偏移为 0。
type ColumnTimeOffsetPolicy map[int]float64

// ShiftedColumns 是临床 4×3 版式：第 k 列显示第 k 个时间段。
func ShiftedColumns(columns int, windowSeconds float64) ColumnTimeOffsetPolicy {
	p := make(ColumnTimeOffsetPolicy, columns)
	for k := 0; k < columns; k++ {
		p[k] = float64(k) * windowSeconds
	}
	return p
}

// AlignedColumns 让所有列显示同一时间段。
func AlignedColumns(columns int) ColumnTimeOffsetPolicy {
	p := make(ColumnTimeOffsetPolicy, columns)
	for k := 0; k < columns; k++ {
		p[k] = 0
	}
	return p
}

// Seconds 返回第 column 列的时间偏移。
func (p ColumnTimeOffsetPolicy) Seconds(column int) float64 { return p[column] }

// Samples 将第 column 列的时间偏移换算为样本数（向下取整）。
func (p ColumnTimeOffsetPolicy) Samples(column int, sampleRate float64) int {
	return int(math.Floor(p.Seconds(column)*sampleRate + 1e-9))
}
