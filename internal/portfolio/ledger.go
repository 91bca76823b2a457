package portfolio

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-core/internal/types"
	"github.com/shopspring/decimal"
)

var quantityTolerance = decimal.NewFromFloat(types.QuantityTolerance)

// fillOutcome is the result of applying one fill to one position. It is
// computed on copies and committed by the caller.
type fillOutcome struct {
	position optional.Option[types.Position]
	events   []types.AccountEvent
	realised decimal.Decimal
	exited   bool
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func flt(v decimal.Decimal) float64 {
	f, _ := v.Float64()

	return f
}

// applyFill folds a trade into the existing position. A fill that crosses
// zero first closes the whole position, then opens a new one with the
// remainder; fees are split by quantity between the two legs.
func applyFill(existing optional.Option[types.Position], trade types.Trade) fillOutcome {
	signed := dec(trade.SignedQuantity())
	fees := dec(trade.Fees.Total())

	if existing.IsNone() {
		opened := openPosition(trade, signed, fees)

		return fillOutcome{
			position: optional.Some(opened),
			events:   []types.AccountEvent{positionEvent(types.AccountEventPositionOpened, opened, trade.Timestamp)},
			realised: decimal.Zero,
		}
	}

	position := existing.Unwrap()
	quantity := dec(position.Quantity)
	price := dec(trade.Price)

	if quantity.Sign() == signed.Sign() {
		held := quantity.Abs()
		added := signed.Abs()
		average := dec(position.AverageEntryPrice).Mul(held).Add(price.Mul(added)).Div(held.Add(added))

		position.Quantity = flt(quantity.Add(signed))
		position.AverageEntryPrice = flt(average)
		position.EntryFees = flt(dec(position.EntryFees).Add(fees))
		mark(&position, trade.Price, trade.Timestamp)

		return fillOutcome{
			position: optional.Some(position),
			events:   []types.AccountEvent{positionEvent(types.AccountEventPositionUpdated, position, trade.Timestamp)},
			realised: decimal.Zero,
		}
	}

	held := quantity.Abs()
	filled := signed.Abs()
	closed := decimal.Min(held, filled)
	closedSigned := closed.Mul(decimal.NewFromInt(int64(quantity.Sign())))

	exitFees := fees.Mul(closed).Div(filled)
	entryFees := dec(position.EntryFees).Mul(closed).Div(held)
	realised := price.Sub(dec(position.AverageEntryPrice)).Mul(closedSigned).Sub(exitFees).Sub(entryFees)
	remaining := quantity.Sub(closedSigned)

	if remaining.Abs().LessThan(quantityTolerance) {
		remaining = decimal.Zero
	}

	exit := types.PositionExit{
		PositionID:  position.ID,
		Quantity:    flt(closedSigned),
		EntryPrice:  position.AverageEntryPrice,
		ExitPrice:   trade.Price,
		ExitFees:    flt(exitFees),
		RealisedPnL: flt(realised),
		ExitMeta:    trade.MarketMeta,
		Remaining:   flt(remaining),
	}

	outcome := fillOutcome{
		position: optional.None[types.Position](),
		events:   []types.AccountEvent{exitEvent(exit, trade.Timestamp)},
		realised: realised,
		exited:   remaining.IsZero(),
	}

	if !remaining.IsZero() {
		position.Quantity = flt(remaining)
		position.EntryFees = flt(dec(position.EntryFees).Sub(entryFees))
		position.RealisedPnL = flt(dec(position.RealisedPnL).Add(realised))
		mark(&position, trade.Price, trade.Timestamp)

		outcome.position = optional.Some(position)
		outcome.events = append(outcome.events, positionEvent(types.AccountEventPositionUpdated, position, trade.Timestamp))

		return outcome
	}

	if leftover := filled.Sub(closed); leftover.GreaterThanOrEqual(quantityTolerance) {
		reopened := openPosition(trade, leftover.Mul(decimal.NewFromInt(int64(signed.Sign()))), fees.Sub(exitFees))
		outcome.position = optional.Some(reopened)
		outcome.events = append(outcome.events, positionEvent(types.AccountEventPositionOpened, reopened, trade.Timestamp))
	}

	return outcome
}

func openPosition(trade types.Trade, signed decimal.Decimal, fees decimal.Decimal) types.Position {
	position := types.Position{
		ID:                trade.PositionID(),
		Exchange:          trade.Exchange,
		Instrument:        trade.Instrument,
		Quantity:          flt(signed),
		AverageEntryPrice: trade.Price,
		EntryFees:         flt(fees),
		EntryMeta:         trade.MarketMeta,
	}
	mark(&position, trade.Price, trade.Timestamp)

	return position
}

// mark revalues a position at price: (price - average entry) * quantity - entry fees.
func mark(position *types.Position, price float64, ts time.Time) {
	unrealised := dec(price).Sub(dec(position.AverageEntryPrice)).Mul(dec(position.Quantity)).Sub(dec(position.EntryFees))

	position.CurrentPrice = price
	position.UnrealisedPnL = flt(unrealised)
	position.UpdatedAt = ts
}

func positionEvent(kind types.AccountEventKind, position types.Position, ts time.Time) types.AccountEvent {
	return types.AccountEvent{Kind: kind, Timestamp: ts, Position: &position}
}

func exitEvent(exit types.PositionExit, ts time.Time) types.AccountEvent {
	return types.AccountEvent{Kind: types.AccountEventPositionExited, Timestamp: ts, Exit: &exit}
}

func balanceEvent(balance types.Balance, ts time.Time) types.AccountEvent {
	return types.AccountEvent{Kind: types.AccountEventBalanceUpdated, Timestamp: ts, Balance: &balance}
}

func orderEvent(order types.Order, ts time.Time) types.AccountEvent {
	return types.AccountEvent{Kind: types.AccountEventOrderUpdated, Timestamp: ts, Order: &order}
}
