package service

import (
	"math"
	"math/rand"
)

const (
	DefaultMinPrice = 5.0
	DefaultMaxPrice = 50.0
)

// RandomPriceCalculator draws a price uniformly from [Min, Max] with one
// decimal of precision.
type RandomPriceCalculator struct {
	Min float64
	Max float64
}

func NewRandomPriceCalculator(minPrice, maxPrice float64) *RandomPriceCalculator {
	if minPrice <= 0 || maxPrice < minPrice {
		minPrice, maxPrice = DefaultMinPrice, DefaultMaxPrice
	}
	return &RandomPriceCalculator{Min: minPrice, Max: maxPrice}
}

func (c *RandomPriceCalculator) Calculate() float64 {
	lo := int(math.Round(c.Min * 10))
	hi := int(math.Round(c.Max * 10))
	if hi <= lo {
		return float64(lo) / 10
	}
	return float64(lo+rand.Intn(hi-lo+1)) / 10
}
