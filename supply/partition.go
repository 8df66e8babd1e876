package supply

import "math/big"

// Partition splits a complete balance mapping into treasury and consumer holdings
type Partition struct {
	Treasury       *Balances
	Consumer       *Balances
	NonCirculating *big.Int
}

// PartitionBalances classifies every account of all without mutating it.
// Treasury ids keep the caller's order and are reported at zero when they hold
// nothing. Each occurrence of a treasury id adds its balance to NonCirculating,
// so a repeated id is subtracted more than once.
func PartitionBalances(all *Balances, treasuries []string) Partition {
	treasurySet := make(map[string]struct{}, len(treasuries))
	treasury := NewBalances()
	nonCirculating := new(big.Int)

	for _, id := range treasuries {
		treasurySet[id] = struct{}{}
		if amount, ok := all.Get(id); ok {
			treasury.Set(id, new(big.Int).Set(amount))
			nonCirculating.Add(nonCirculating, amount)
		} else {
			treasury.Set(id, new(big.Int))
		}
	}

	consumer := NewBalances()
	all.Range(func(account string, amount *big.Int) bool {
		if _, isTreasury := treasurySet[account]; !isTreasury {
			consumer.Set(account, new(big.Int).Set(amount))
		}
		return true
	})

	return Partition{
		Treasury:       treasury,
		Consumer:       consumer,
		NonCirculating: nonCirculating,
	}
}

// Circulating returns total minus nonCirculating. A negative result is
// returned as-is: it signals misconfigured treasuries, not something to clamp.
func Circulating(total, nonCirculating *big.Int) *big.Int {
	return new(big.Int).Sub(total, nonCirculating)
}
