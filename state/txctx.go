package state

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/tianjianchn/stas/debug"
)

// maxTxID bounds transaction ids; ids wrap back to 1 after it.
const maxTxID = math.MaxInt32

// TxContext is the single slot a transaction must hold while it runs. At
// most one transaction is live per context. Stores that share a context
// exclude each other; a store that does not share one still rejects
// nested transactions on itself.
type TxContext struct {
	mu  sync.Mutex
	id  uint32
	cur *Tx
}

// NewTxContext returns an idle context. Ids start at a random offset so
// tags minted by an earlier context in the same process are unlikely to
// collide with new ones.
func NewTxContext() *TxContext {
	return &TxContext{id: uint32(rand.Int32N(1_000_000_000))}
}

// Begin claims the slot for holder and returns the new transaction.
func (c *TxContext) Begin(holder any) (*Tx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur != nil {
		return nil, fmt.Errorf("%w: tx %d is still open", ErrTransactionInProgress, c.cur.id)
	}
	c.id = c.id%maxTxID + 1
	tx := &Tx{ctx: c, id: c.id, holder: holder}
	c.cur = tx
	if debug.Tx() {
		debug.Logf("begin tx %d\n", tx.id)
	}
	return tx, nil
}

// Active returns the live transaction, or nil.
func (c *TxContext) Active() *Tx {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

// Tx is one transaction. Nodes cloned or created while it is live carry a
// pointer to it; once it ends those nodes are read-only.
type Tx struct {
	ctx    *TxContext
	id     uint32
	holder any

	// gen counts writes made in this transaction. Cached projections of
	// nodes minted by the transaction record the gen they were built at.
	gen uint64
}

func (tx *Tx) ID() uint32 {
	return tx.id
}

// Holder returns the value passed to Begin.
func (tx *Tx) Holder() any {
	return tx.holder
}

// Live reports whether tx still holds its context.
func (tx *Tx) Live() bool {
	if tx == nil {
		return false
	}
	c := tx.ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur == tx
}

// End releases the context. It is safe to call more than once.
func (tx *Tx) End() {
	c := tx.ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur != tx {
		return
	}
	c.cur = nil
	if debug.Tx() {
		debug.Logf("end tx %d after %d writes\n", tx.id, tx.gen)
	}
}

// Clone returns the copy of n owned by tx, making one if n has not been
// cloned into tx yet.
func (tx *Tx) Clone(n *Node) (*Node, error) {
	if !tx.Live() {
		return nil, fmt.Errorf("%w: tx %d has ended", ErrNotInTransaction, tx.id)
	}
	return n.cloneFor(tx), nil
}

// Writes returns the number of writes made so far.
func (tx *Tx) Writes() uint64 {
	return tx.gen
}
