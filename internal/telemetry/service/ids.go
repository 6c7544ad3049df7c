package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	idAlphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
	idSuffixSize = 9
)

// NewVisitorID returns visitor_<unix ms>_<9 base36 chars>.
func NewVisitorID(now time.Time) string {
	return newID("visitor", now)
}

// NewSessionID returns session_<unix ms>_<9 base36 chars>.
func NewSessionID(now time.Time) string {
	return newID("session", now)
}

func newID(prefix string, now time.Time) string {
	var b strings.Builder
	base := big.NewInt(int64(len(idAlphabet)))
	for i := 0; i < idSuffixSize; i++ {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			// crypto/rand does not fail on supported platforms.
			panic(err)
		}
		b.WriteByte(idAlphabet[n.Int64()])
	}
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), b.String())
}
