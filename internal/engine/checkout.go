package engine

import (
	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

// CheckoutResult is the outcome of applying a basket of confirmed
// purchases to the pantry.
type CheckoutResult struct {
	// Items is the full post-checkout item set.
	Items []*models.PantryItem
	// CreatedKeys identifies items that did not exist before checkout.
	CreatedKeys []string
}

// Checkout stocks the pantry from confirmed purchases, applying them
// sequentially against a snapshot of the ledger so that two purchases of
// the same item accumulate instead of racing. Each purchase carries its
// own destination, category, quantity and optional expiry, as corrected
// by the user at confirmation. Blank or non-positive purchases are
// skipped. The caller's ledger is untouched; persist from the result.
func Checkout(l *Ledger, purchases []models.Purchase) *CheckoutResult {
	snap := l.Snapshot()
	result := &CheckoutResult{}
	for _, p := range purchases {
		if p.Name == "" || p.Quantity <= 0 {
			continue
		}
		_, created := snap.UpsertFromPurchase(p)
		if created {
			result.CreatedKeys = append(result.CreatedKeys, Key(p.Name, p.Unit))
		}
	}
	result.Items = snap.Items()
	return result
}
