package signal

import "strings"

// LeadName 是标准化后的导联名称：aVR/aVL/aVF 使用固定大小写，其余一律大写。
type LeadName string

// 十二导联的标准名称（采集顺序）。
const (
	LeadI   LeadName = "I"
	LeadII  LeadName = "II"
	LeadIII LeadName = "III"
	LeadAVR LeadName = "aVR"
	LeadAVL LeadName = "aVL"
	LeadAVF LeadName = "aVF"
	LeadV1  LeadName = "V1"
	LeadV2  LeadName = "V2"
	LeadV3  LeadName = "V3"
	LeadV4  LeadName = "V4"
	LeadV5  LeadName = "V5"
	LeadV6  LeadName = "V6"
)

// Standard12 按采集顺序列出十二导联。
var Standard12 = []LeadName{
	LeadI, LeadII, LeadIII, LeadAVR, LeadAVL, LeadAVF,
	LeadV1, LeadV2, LeadV3, LeadV4, LeadV5, LeadV6,
}

// Standardize 统一导联名称大小写。
func Standardize(raw string) LeadName {
	name := strings.TrimSpace(raw)
	switch strings.ToUpper(name) {
	case "AVR":
		return LeadAVR
	case "AVL":
		return LeadAVL
	case "AVF":
		return LeadAVF
	default:
		return LeadName(strings.ToUpper(name))
	}
}

// StandardizeAll 逐个标准化，保持原有顺序。
func StandardizeAll(raw []string) []LeadName {
	out := make([]LeadName, len(raw))
	for i, r := range raw {
		out[i] = Standardize(r)
	}
	return out
}

// Valid 报告名称是否非空。
func (n LeadName) Valid() bool { return n != "" }

func (n LeadName) String() string { return string(n) }

// IndexOf 返回 name 在 names 中的位置，不存在时返回 -1。
func IndexOf(names []LeadName, name LeadName) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
