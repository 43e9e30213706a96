package util

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// PinSeparator joins salt and PIN before hashing. Changing it invalidates
// every stored partner credential.
const PinSeparator = ":"

// HashPIN returns the hex SHA-256 of salt+PinSeparator+pin. It is
// deterministic so stored hashes can be compared on every redemption.
// An empty salt is accepted; config validation warns about it.
func HashPIN(pin, salt string) string {
	hash := sha256.Sum256([]byte(salt + PinSeparator + pin))
	return hex.EncodeToString(hash[:])
}

func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
