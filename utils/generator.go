package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const meetingCodeLength = 10
const letterBytes = "abcdefghijkmnpqrstuvwxyz23456789"

// GenerateMeetingCode returns a random room code like "k3b9-xq7m-tp".
func GenerateMeetingCode() (string, error) {
	b := make([]byte, meetingCodeLength)
	max := big.NewInt(int64(len(letterBytes)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = letterBytes[n.Int64()]
	}
	code := string(b)
	return code[:4] + "-" + code[4:8] + "-" + code[8:], nil
}

// MeetingLink joins a base URL and a fresh room code.
func MeetingLink(baseURL string) (string, error) {
	code, err := GenerateMeetingCode()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(baseURL, "/") + "/" + code, nil
}
