// Package cache provides single-slot translation caches.
//
// A chat translates the same text twice in a row far more often than it
// revisits older text (re-rendered messages, regenerated replies), so each
// direction keeps only its most recent input and result. A lookup hits only
// when the text is byte-for-byte equal to the stored input.
package cache

import chatlate "github.com/ZaguanLabs/chatlate"

// directions lists the slots every cache keeps.
var directions = [...]chatlate.Direction{chatlate.Incoming, chatlate.Outgoing}

func validDirection(dir chatlate.Direction) bool {
	return dir == chatlate.Incoming || dir == chatlate.Outgoing
}
