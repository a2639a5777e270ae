package provenance

// Tracker 按绘制顺序累积溯源记录。下游假设 records[i] 对应第 i 个绘制元素，
// 因此不做去重也不重排。单次生成内使用，不需要并发保护。
type Tracker struct {
	records []Record
}

// NewTracker 创建空的记录器。
func NewTracker() *Tracker { return &Tracker{} }

// Record 追加一条记录。
func (t *Tracker) Record(r Record) { t.records = append(t.records, r) }

// All 返回全部记录的副本，顺序与写入顺序一致。
func (t *Tracker) All() []Record {
	out := make([]Record, len(t.records))
	for i, r := range t.records {
		out[i] = r.Clone()
	}
	return out
}

// Len 返回记录数量。
func (t *Tracker) Len() int { return len(t.records) }

// Of 返回指定类型的记录，保持相对顺序。
func Of(records []Record, kind Kind) []Record {
	var out []Record
	for _, r := range records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Waveforms 返回全部波形记录。
func (t *Tracker) Waveforms() []Record { return Of(t.All(), KindWaveform) }

// Labels 返回全部导联名称记录。
func (t *Tracker) Labels() []Record { return Of(t.All(), KindLabel) }
