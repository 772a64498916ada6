package attendance

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	codeMin  = 100000
	codeSpan = 900000
)

// randomJoinCode draws a uniform 6-digit code. crypto/rand keeps codes
// unguessable; math/rand would let an observer predict upcoming codes.
func randomJoinCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("drawing join code: %w", err)
	}
	return fmt.Sprintf("%06d", codeMin+n.Int64()), nil
}
