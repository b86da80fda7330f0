package utils

import (
	"crypto/rand"
	"math/big"
)

const meetingIDLength = 12
const letterBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewMeetingID returns a random lowercase alphanumeric room id.
func NewMeetingID() string {
	max := big.NewInt(int64(len(letterBytes)))
	b := make([]byte, meetingIDLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = letterBytes[n.Int64()]
	}
	return string(b)
}
