package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 表示记录不存在或不属于当前用户。
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 表示违反唯一约束。
	ErrDuplicate = errors.New("duplicate record")
	// ErrSlugTaken 表示公开主页 slug 已被其他用户占用。
	ErrSlugTaken = errors.New("slug already taken")
)

// translate 把 gorm/驱动错误归一为包内哨兵错误，其余原样返回。
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrDuplicate
	default:
		return err
	}
}

// isUniqueViolation 同时识别 TranslateError 的结果与驱动原始错误文本。
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "sqlstate 23505")
}
