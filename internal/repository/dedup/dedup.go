// Package dedup holds the stores used to drop chat messages whose client id
// was already relayed in a room.
package dedup

import "time"

type Config struct {
	// Window is how long an id is remembered.
	Window time.Duration
	// Size bounds the number of remembered ids where the store supports it.
	Size int
}
