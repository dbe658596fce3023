package share

import "github.com/shopspring/decimal"

// percentPlaces is the display precision for percentage movement.
// decimal.Round rounds half away from zero.
const percentPlaces = 2

// Direction classifies a price movement.
type Direction int

const (
	Flat Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "flat"
}

// Movement is the computed change between the current price and one
// historical price. PercentDefined is false when the historical price is
// zero: the percentage is undefined and no division is performed.
type Movement struct {
	Delta          decimal.Decimal
	Percent        decimal.Decimal
	PercentDefined bool
	Direction      Direction
}

// MomentMovement pairs a moment with its movement. HasData is false when no
// qualifying historical record exists; Historical and Movement are zero
// values in that case.
type MomentMovement struct {
	Moment     Moment
	Historical Share
	HasData    bool
	Movement   Movement
}

// Movements computes the movement for every moment in fixed column order.
// Pure computation: no I/O, same timeline in, same movements out.
func (t *Timeline) Movements() []MomentMovement {
	out := make([]MomentMovement, 0, len(Moments()))
	for _, m := range Moments() {
		hist, ok := t.History[m]
		if !ok {
			out = append(out, MomentMovement{Moment: m})
			continue
		}
		out = append(out, MomentMovement{
			Moment:     m,
			Historical: hist,
			HasData:    true,
			Movement:   compare(t.Current.Price, hist.Price),
		})
	}
	return out
}

func compare(current, historical decimal.Decimal) Movement {
	mv := Movement{Delta: current.Sub(historical)}

	switch mv.Delta.Sign() {
	case 1:
		mv.Direction = Up
	case -1:
		mv.Direction = Down
	default:
		mv.Direction = Flat
	}

	if historical.IsZero() {
		return mv
	}
	mv.Percent = current.Div(historical).
		Mul(decimal.NewFromInt(100)).
		Sub(decimal.NewFromInt(100)).
		Round(percentPlaces)
	mv.PercentDefined = true
	return mv
}
