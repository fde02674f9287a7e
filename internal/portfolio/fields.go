package portfolio

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidDate 表示日期既不是 YYYY-MM-DD 也不是 YYYY-MM。
var ErrInvalidDate = errors.New("dates must use the YYYY-MM-DD or YYYY-MM format")

// ErrDateOrder 表示结束日期早于开始日期。
var ErrDateOrder = errors.New("end date must not be before start date")

// ParseTechnologies 解析逗号分隔的技术栈，保留顺序并丢弃空项。
func ParseTechnologies(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseDate 解析表单日期，空串返回 nil。
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, ErrInvalidDate
}

// ParseDateRange 解析起止日期并校验先后顺序。
func ParseDateRange(start, end string) (*time.Time, *time.Time, error) {
	s, err := ParseDate(start)
	if err != nil {
		return nil, nil, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return nil, nil, err
	}
	if s != nil && e != nil && e.Before(*s) {
		return nil, nil, ErrDateOrder
	}
	return s, e, nil
}
