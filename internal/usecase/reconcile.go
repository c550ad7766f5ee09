package usecase

import (
	"github.com/shopspring/decimal"
	"github.com/user/resale-arbitrage/internal/entity"
)

var (
	protectionFlatFee = decimal.RequireFromString("1.00")
	protectionRate    = decimal.RequireFromString("0.05")
)

// BuyerProtectionFee is the marketplace's fee on a purchase at price.
func BuyerProtectionFee(price decimal.Decimal) decimal.Decimal {
	return protectionFlatFee.Add(protectionRate.Mul(price))
}

// Reconcile prices a listing against a resolved offer. Without postage or an
// offer nothing is computed.
func Reconcile(l *entity.Listing, offer *entity.ResolvedOffer) entity.Verdict {
	if l == nil || offer == nil || l.Postage == nil {
		return entity.Verdict{}
	}
	fee := BuyerProtectionFee(l.Price)
	total := l.Price.Add(*l.Postage).Add(fee)
	profit := offer.Price.Sub(total)
	return entity.Verdict{
		Computed:   true,
		Fee:        fee,
		TotalCost:  total,
		Profit:     profit,
		Recordable: profit.IsPositive(),
	}
}
