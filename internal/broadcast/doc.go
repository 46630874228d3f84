// Package broadcast holds the subscription registry: which live connections
// are interested in which symbol, and the fan-out that pushes one envelope to
// all of them.
//
// A single RWMutex guards the symbol→connection-set map. Fan-out snapshots
// the target set under the read lock and sends outside it; connections whose
// Send fails are unsubscribed after the pass.
package broadcast
