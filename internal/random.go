package internal

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	activationCodeMin = 1000
	activationCodeMax = 9999
)

// NewActivationCode returns a uniformly random 4-digit code in [1000, 9999].
func NewActivationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(activationCodeMax-activationCodeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+activationCodeMin, 10), nil
}
