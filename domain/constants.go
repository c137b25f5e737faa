package domain

import (
	"time"

	"github.com/tonkeeper/tongo/tlb"
)

// Fixed tax taken from every owner-initiated transfer. The treasury receives
// TaxAmount and the gas pool receives TaxHalf. These are never configurable.
const (
	TaxAmount tlb.Grams = 100_000_000
	TaxHalf   tlb.Grams = TaxAmount / 2
	TaxTotal            = TaxAmount + TaxHalf
)

// TimelockPeriod is the minimum delay between requesting and confirming a
// pointer change on the gas proxy or a treasury change on the gas pool.
const TimelockPeriod = 172800 * time.Second

const ShareBase = 10_000

// Giver indexes in the issuer's fan-out table.
const (
	GiverAllodium = iota
	GiverDefi
	GiverDao
	GiverDominum
	GiverCount
)

var GiverNames = [GiverCount]string{"allodium", "defi", "dao", "dominum"}

// GiverShares is the mint fan-out in basis points of ShareBase.
var GiverShares = [GiverCount]uint32{3000, 2000, 2500, 2500}

const (
	DomDecimals = 6
	TonDecimals = 9
)
