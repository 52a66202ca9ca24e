// Package datautils generates throwaway names for test resources.
package datautils

import (
	"fmt"
	"math/rand/v2"
)

// RandName appends a random positive int31 to prefix, e.g. "ServerTest-instance-1804289383".
func RandName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, rand.Int32N(0x7fffffff)+1)
}
