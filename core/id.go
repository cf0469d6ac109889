package core

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"hash/fnv"

	"pkt.systems/pinacle/schema"
)

// tabIDFor derives the stable tab identifier from the fields that define a
// tab's identity. The hash is not cryptographic; collisions surface as
// duplicate-tab rejections rather than silent merges.
func tabIDFor(name string, service schema.ServiceKey, url string) schema.TabID {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(service))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(url))
	return schema.TabID(fmt.Sprintf("%08x", h.Sum32()))
}

func newToken() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "token-unknown"
	}
	return hex.EncodeToString(buf[:])
}
