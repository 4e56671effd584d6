package random

import "crypto/rand"

var seq [62]rune

func init() {
	copy(seq[:10], []rune("0123456789"))
	copy(seq[10:36], []rune("abcdefghijklmnopqrstuvwxyz"))
	copy(seq[36:], []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
}

// Seq returns a random alphanumeric string of length n. Used for payment
// idempotency keys.
func Seq(n int) string {
	buf := make([]byte, n)
	rand.Read(buf)
	runes := make([]rune, n)
	for i, b := range buf {
		runes[i] = seq[int(b)%len(seq)]
	}
	return string(runes)
}
