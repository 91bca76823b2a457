package feed

import (
	"fmt"
	"iter"
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-core/internal/types"
)

// RandomWalkConfig configures a synthetic candle series.
type RandomWalkConfig struct {
	Seed       int64
	Exchange   string
	Instrument string
	// StartTime is the beginning of the series
	StartTime time.Time
	// Interval is the duration between each candle
	Interval time.Duration
	// Count is the number of candles to generate
	Count        int
	InitialPrice float64
	// Volatility controls price movement per candle (0.01 = 1%)
	Volatility float64
	// Trend is the total drift over the series (-0.01 to 0.01 for bearish to bullish)
	Trend      float64
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultRandomWalkConfig returns a sensible default configuration.
func DefaultRandomWalkConfig() RandomWalkConfig {
	return RandomWalkConfig{
		Seed:           42,
		Exchange:       "binance",
		Instrument:     "btc_usdt",
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       time.Minute,
		Count:          1000,
		InitialPrice:   100.0,
		Volatility:     0.002,
		Trend:          0.0,
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// RandomWalk yields a reproducible geometric Brownian motion candle series.
// The same config always yields the same sequence, and each range over the
// sequence restarts it from the seed.
func RandomWalk(config RandomWalkConfig) iter.Seq[types.MarketEvent] {
	return func(yield func(types.MarketEvent) bool) {
		rng := rand.New(rand.NewSource(config.Seed)) //nolint:gosec // reproducible test data
		currentPrice := config.InitialPrice
		currentTime := config.StartTime

		for i := 0; i < config.Count; i++ {
			open := currentPrice

			// Box-Muller transform
			u1 := rng.Float64()
			u2 := rng.Float64()
			z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

			drift := config.Trend / float64(config.Count)

			closePrice := open * (1 + config.Volatility*z + drift)
			if closePrice <= 0 {
				closePrice = open * 0.99
			}

			highExtension := math.Abs(rng.Float64() * config.Volatility * open * 0.5)
			lowExtension := math.Abs(rng.Float64() * config.Volatility * open * 0.5)

			high := math.Max(open, closePrice) + highExtension

			low := math.Min(open, closePrice) - lowExtension
			if low <= 0 {
				low = math.Min(open, closePrice) * 0.99
			}

			volume := config.VolumeBase * (1.0 + (rng.Float64()*2-1)*config.VolumeVariance)
			if volume < 0 {
				volume = config.VolumeBase * 0.1
			}

			event := types.MarketEvent{
				ID:         fmt.Sprintf("%s-%d", config.Instrument, i),
				Timestamp:  currentTime,
				Exchange:   config.Exchange,
				Instrument: config.Instrument,
				Open:       roundToDecimals(open, 4),
				High:       roundToDecimals(high, 4),
				Low:        roundToDecimals(low, 4),
				Close:      roundToDecimals(closePrice, 4),
				Volume:     roundToDecimals(volume, 2),
			}

			if !yield(event) {
				return
			}

			currentPrice = closePrice
			currentTime = currentTime.Add(config.Interval)
		}
	}
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
