// Package ident generates and inspects worklog identifiers.
//
// An identifier is a fixed-width 15-character token "rrrr-tttttttttt":
// a 16-bit random value and a 40-bit Unix-seconds timestamp, both lowercase
// hex. The random prefix keeps two creations within the same second apart;
// the timestamp component makes ids of one prefix sort by creation time.
// Identifiers are practically unique on one machine, not globally unique.
package ident

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// randWidth and timeWidth are the hex-digit widths of the two components.
	randWidth = 4
	timeWidth = 10
	// Length is the total identifier length, including the separator.
	Length = randWidth + 1 + timeWidth
)

var idRe = regexp.MustCompile(`^[0-9a-f]{4}-[0-9a-f]{10}$`)

// New returns a fresh identifier for the current time.
func New() string {
	var b [2]byte
	// crypto/rand.Read does not fail on supported platforms.
	_, _ = rand.Read(b[:])
	return format(binary.BigEndian.Uint16(b[:]), time.Now().Unix())
}

// format renders the two components at fixed width. unix must fit in 40 bits,
// which holds for any wall-clock second until the year 36812.
func format(r uint16, unix int64) string {
	return fmt.Sprintf("%0*x-%0*x", randWidth, r, timeWidth, unix)
}

// Valid reports whether s has the exact shape of an identifier.
func Valid(s string) bool {
	return idRe.MatchString(s)
}

// Time recovers the creation instant embedded in id.
func Time(id string) (time.Time, error) {
	if !Valid(id) {
		return time.Time{}, fmt.Errorf("ident: malformed id %q", id)
	}
	unix, err := strconv.ParseInt(id[randWidth+1:], 16, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("ident: parse timestamp of %q: %w", id, err)
	}
	return time.Unix(unix, 0), nil
}
