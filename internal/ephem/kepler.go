package ephem

import (
	"math"

	"github.com/litescript/ls-ephemeris/internal/astro"
)

// keplerElements are mean orbital elements and their rates per Julian
// century, from Standish's "Keplerian Elements for Approximate Positions
// of the Major Planets" (valid 1800-2050 AD).
type keplerElements struct {
	a, e, i   [2]float64 // AU, -, deg
	l, lp, om [2]float64 // mean longitude, longitude of perihelion, node; deg
}

var planetElements = map[Body]keplerElements{
	Mercury: {
		a: [2]float64{0.38709927, 0.00000037}, e: [2]float64{0.20563593, 0.00001906}, i: [2]float64{7.00497902, -0.00594749},
		l: [2]float64{252.25032350, 149472.67411175}, lp: [2]float64{77.45779628, 0.16047689}, om: [2]float64{48.33076593, -0.12534081},
	},
	Venus: {
		a: [2]float64{0.72333566, 0.00000390}, e: [2]float64{0.00677672, -0.00004107}, i: [2]float64{3.39467605, -0.00078890},
		l: [2]float64{181.97909950, 58517.81538729}, lp: [2]float64{131.60246718, 0.00268329}, om: [2]float64{76.67984255, -0.27769418},
	},
	Mars: {
		a: [2]float64{1.52371034, 0.00001847}, e: [2]float64{0.09339410, 0.00007882}, i: [2]float64{1.84969142, -0.00813131},
		l: [2]float64{-4.55343205, 19140.30268499}, lp: [2]float64{-23.94362959, 0.44441088}, om: [2]float64{49.55953891, -0.29257343},
	},
	Jupiter: {
		a: [2]float64{5.20288700, -0.00011607}, e: [2]float64{0.04838624, -0.00013253}, i: [2]float64{1.30439695, -0.00183714},
		l: [2]float64{34.39644051, 3034.74612775}, lp: [2]float64{14.72847983, 0.21252668}, om: [2]float64{100.47390909, 0.20469106},
	},
	Saturn: {
		a: [2]float64{9.53667594, -0.00125060}, e: [2]float64{0.05386179, -0.00050991}, i: [2]float64{2.48599187, 0.00193609},
		l: [2]float64{49.95424423, 1222.49362201}, lp: [2]float64{92.59887831, -0.41897216}, om: [2]float64{113.66242448, -0.28867794},
	},
	Uranus: {
		a: [2]float64{19.18916464, -0.00196176}, e: [2]float64{0.04725744, -0.00004397}, i: [2]float64{0.77263783, -0.00242939},
		l: [2]float64{313.23810451, 428.48202785}, lp: [2]float64{170.95427630, 0.40805281}, om: [2]float64{74.01692503, 0.04240589},
	},
	Neptune: {
		a: [2]float64{30.06992276, 0.00026291}, e: [2]float64{0.00859048, 0.00005105}, i: [2]float64{1.77004347, 0.00035372},
		l: [2]float64{-55.12002969, 218.45945325}, lp: [2]float64{44.96476227, -0.32241464}, om: [2]float64{131.78422574, -0.00508664},
	},
	Pluto: {
		a: [2]float64{39.48211675, -0.00031596}, e: [2]float64{0.24882730, 0.00005170}, i: [2]float64{17.14001206, 0.00004818},
		l: [2]float64{238.92903833, 145.20780515}, lp: [2]float64{224.06891629, -0.04062942}, om: [2]float64{110.30393684, -0.01183482},
	},
}

func at(el [2]float64, T float64) float64 {
	return el[0] + el[1]*T
}

// heliocentric returns the heliocentric position in AU in the J2000
// ecliptic, T Julian centuries of TDB after J2000.
func (k keplerElements) heliocentric(T float64) astro.Vec3 {
	a := at(k.a, T)
	e := at(k.e, T)
	inc := astro.DegToRad(at(k.i, T))
	l := at(k.l, T)
	lp := at(k.lp, T)
	om := at(k.om, T)

	w := astro.DegToRad(lp - om)
	node := astro.DegToRad(om)
	m := astro.DegToRad(math.Remainder(l-lp, 360))

	E := solveKepler(m, e)
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cw, sw := math.Cos(w), math.Sin(w)
	cn, sn := math.Cos(node), math.Sin(node)
	ci, si := math.Cos(inc), math.Sin(inc)

	return astro.Vec3{
		X: (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp,
		Y: (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp,
		Z: (sw*si)*xp + (cw*si)*yp,
	}
}

// solveKepler solves E - e·sin(E) = M for the eccentric anomaly (radians)
// by Newton iteration.
func solveKepler(m, e float64) float64 {
	E := m + e*math.Sin(m)
	for i := 0; i < 30; i++ {
		dE := (E - e*math.Sin(E) - m) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-12 {
			break
		}
	}
	return E
}
