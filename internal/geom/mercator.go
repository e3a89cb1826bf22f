package geom

import "math"

// MercatorY projects a latitude in degrees onto the spherical Mercator y
// axis (radians). Latitudes are clamped to the usual web map limit.
func MercatorY(lat float64) float64 {
	lat = math.Max(-85.05112878, math.Min(85.05112878, lat))
	return math.Log(math.Tan(math.Pi/4 + lat*math.Pi/360))
}

// InverseMercatorY maps a Mercator y back to degrees of latitude.
func InverseMercatorY(y float64) float64 {
	return (2*math.Atan(math.Exp(y)) - math.Pi/2) * 180 / math.Pi
}
