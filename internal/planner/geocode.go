package planner

import (
	"context"
	"hash/fnv"
	"strings"

	"arcade/internal/opt"
)

// Geocoder turns an address into a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (opt.Point, error)
}

// HashGeocoder derives stable pseudo-coordinates from the address text,
// scattered within about 0.1 degrees of Base. It stands in for a real
// geocoding service.
type HashGeocoder struct {
	Base opt.Point
}

// NewHashGeocoder centers generated points on San Francisco.
func NewHashGeocoder() *HashGeocoder {
	return &HashGeocoder{Base: opt.Point{X: 37.7749, Y: -122.4194}}
}

func (g *HashGeocoder) Geocode(ctx context.Context, address string) (opt.Point, error) {
	if err := ctx.Err(); err != nil {
		return opt.Point{}, err
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.TrimSpace(strings.ToLower(address))))
	v := h.Sum64() % 1000000
	return opt.Point{
		X: g.Base.X + float64(v%1000)/10000,
		Y: g.Base.Y + float64((v/1000)%1000)/10000,
	}, nil
}
