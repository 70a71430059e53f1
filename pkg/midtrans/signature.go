package midtrans

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// ComputeSignature hashes orderID + statusCode + grossAmount + serverKey.
// This is the provider's notification authenticity scheme.
func ComputeSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature compares the supplied signature against the expected one
// in constant time.
func VerifySignature(n Notification, serverKey string) bool {
	if n.SignatureKey == "" {
		return false
	}
	expected := ComputeSignature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}
