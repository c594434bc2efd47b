package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// base36 alphabet, lower case only. Matches the format of passwords mailed
// out by the reset flow.
const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// OneTimeLength is the length of generated one-time passwords.
const OneTimeLength = 8

// OneTime generates a random 8-character lowercase base36 password. It is
// intentionally low entropy: it is mailed to the account owner and expected
// to be replaced on the next update.
func OneTime() (string, error) {
	b := make([]byte, OneTimeLength)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("generate one-time password: %w", err)
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}
