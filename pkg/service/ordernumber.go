package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderNumber returns a display identifier of the form
// ORD-YYMMDD-XXXXX. The date part uses the server clock in UTC; the
// suffix is five base-36 characters from crypto/rand. Collisions are
// possible; the orders table carries a unique index and creation
// retries with a fresh number on conflict.
func GenerateOrderNumber(now time.Time) string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("060102"), buf)
}
