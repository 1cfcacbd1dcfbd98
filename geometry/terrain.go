package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FractalTerrain layers sine noise at several scales into an Earth-like
// elevation distribution: mostly ocean floor, coastal lowlands, occasional
// mountain ranges. Seed rotates the noise field so different seeds give
// different continents.
func FractalTerrain(seed int64) Terrain {
	angle := float64(seed%360) * math.Pi / 180
	rot := mgl64.Rotate3DY(angle).Mul3(mgl64.Rotate3DX(angle * 0.61))

	return func(pos mgl64.Vec3) float64 {
		p := rot.Mul3x1(pos)
		x, y, z := p[0], p[1], p[2]

		continental := terrainNoise(x*1.5, y*1.5, z*1.5)
		regional := terrainNoise(x*4, y*4, z*4) * 0.5
		local := terrainNoise(x*10, y*10, z*10) * 0.2
		detail := terrainNoise(x*25, y*25, z*25) * 0.05

		n := continental + regional + local + detail
		if n > 0.2 {
			n += ridgeNoise(x*3, y*3, z*3) * 0.3 * (n - 0.2)
		}
		return hypsometry(n)
	}
}

// hypsometry maps combined noise to feet.
func hypsometry(n float64) float64 {
	switch {
	case n > 0.4:
		// high mountains
		return math.Min(29000, 9000+(n-0.4)*40000)
	case n > 0.15:
		// hills and plateaus
		return 1500 + (n-0.15)/0.25*7500
	case n > 0:
		// coastal plains
		return -50 + n/0.15*1550
	case n > -0.3:
		// continental shelf
		return -600 + (n+0.3)/0.3*550
	case n > -0.6:
		// slopes
		return -13000 + (n+0.6)/0.3*12400
	default:
		// basins and trenches
		return math.Max(-36000, -13000+(n+0.6)*20000)
	}
}

func terrainNoise(x, y, z float64) float64 {
	n1 := math.Sin(x*3.14159) * math.Cos(y*2.71828) * math.Sin(z*1.41421)
	n2 := math.Sin(x*1.73205) * math.Sin(y*2.23607) * math.Cos(z*3.16227)
	n3 := math.Cos(x*2.44949) * math.Sin(y*1.61803) * math.Sin(z*2.64575)
	return (n1 + n2*0.5 + n3*0.25) / 1.75
}

// ridgeNoise peaks along the zero crossings of terrainNoise.
func ridgeNoise(x, y, z float64) float64 {
	return 1.0 - math.Abs(terrainNoise(x, y, z))
}
