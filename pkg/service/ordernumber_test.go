package service

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{6}-[0-9A-Z]{5}$`)

func TestGenerateOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)

	number := GenerateOrderNumber(now)
	assert.Regexp(t, orderNumberPattern, number)
	assert.True(t, strings.HasPrefix(number, "ORD-260831-"))
}

func TestGenerateOrderNumberUsesUTCDate(t *testing.T) {
	// 23:30 in UTC+7 is already the next day locally; the generated
	// number must stick to the UTC date.
	loc := time.FixedZone("UTC+7", 7*3600)
	now := time.Date(2026, 1, 2, 6, 30, 0, 0, loc) // 2026-01-01 23:30 UTC

	number := GenerateOrderNumber(now)
	assert.True(t, strings.HasPrefix(number, "ORD-260101-"), "got %s", number)
}

func TestGenerateOrderNumberVaries(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 32; i++ {
		seen[GenerateOrderNumber(now)] = true
	}
	// 36^5 possibilities; 32 draws colliding entirely would mean the
	// randomness is broken.
	assert.Greater(t, len(seen), 1)
}
