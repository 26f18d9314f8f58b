package dialogs

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Fingerprint returns a short, stable content hash of a step's identity
// (kind, name, version, and for send_message steps their payload). It
// is a low-cardinality label for callers to key logs or metrics on when
// a dialog's raw Name is considered noisy (e.g. captured from a closure
// in a loop); nothing in this module calls it itself.
func Fingerprint(step Step) string {
	h := blake3.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s", step.Kind(), step.Name(), step.Version())
	if step.Kind() == KindSendMessage {
		fmt.Fprintf(h, "\x00%v", step.Message())
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8])
}
