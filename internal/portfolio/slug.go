package portfolio

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	slugPrefix   = "portfolio-"
	slugRandLen  = 6
	slugAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// NormalizeSlug 转为小写，并把 [a-z0-9-] 以外的每个字符替换为 '-'。
func NormalizeSlug(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// ValidSlug 报告 slug 是否为非空的 URL 安全字符串。
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// GenerateSlug 生成 portfolio- 加 6 位 base36 随机字符。唯一性由存储层在写入时保证。
func GenerateSlug() (string, error) {
	base := big.NewInt(int64(len(slugAlphabet)))
	buf := make([]byte, slugRandLen)
	for i := range buf {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("generate slug: %w", err)
		}
		buf[i] = slugAlphabet[n.Int64()]
	}
	return slugPrefix + string(buf), nil
}
