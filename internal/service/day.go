package service

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout 投票日期格式
const DayLayout = "2006-01-02"

// DayKey 返回 t 在 loc 时区下的日期
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// ClosedDay 最近一个已截止投票的日期，每日评选与获胜列表默认日期都用它。
// cutoff > 0 且已过截止小时：当天；否则（未到截止或 cutoff 为 0，午夜评选）：前一天。
func ClosedDay(now time.Time, loc *time.Location, cutoffHour int) string {
	local := now.In(loc)
	if cutoffHour > 0 && local.Hour() >= cutoffHour {
		return local.Format(DayLayout)
	}
	return local.AddDate(0, 0, -1).Format(DayLayout)
}

// ParseDay 校验 YYYY-MM-DD
func ParseDay(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(DayLayout, raw)
	if err != nil {
		return "", fmt.Errorf("%w: Invalid date format %q", ErrInvalidInput, raw)
	}
	return t.Format(DayLayout), nil
}
