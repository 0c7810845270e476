package coint

// Confidence selects a column in the asymptotic critical-value tables.
type Confidence int

const (
	Confidence90 Confidence = iota
	Confidence95
	Confidence99
)

func (c Confidence) String() string {
	switch c {
	case Confidence90:
		return "90%"
	case Confidence95:
		return "95%"
	case Confidence99:
		return "99%"
	default:
		return "UNKNOWN"
	}
}

// Osterwald-Lenum (1992) asymptotic critical values for the Johansen trace
// and maximum-eigenvalue statistics, model with an unrestricted constant.
// Row index is k-r-1 where k is the system dimension and r the rank under
// the null, columns are 90/95/99 percent.
var traceCriticalValues = [12][3]float64{
	{2.69, 3.76, 6.65},
	{13.33, 15.41, 20.04},
	{26.79, 29.68, 35.65},
	{43.95, 47.21, 54.46},
	{64.84, 68.52, 76.07},
	{89.48, 94.15, 103.18},
	{118.50, 124.24, 133.57},
	{150.53, 156.00, 168.36},
	{186.39, 192.89, 204.95},
	{225.85, 233.13, 247.18},
	{269.96, 277.71, 293.44},
	{318.14, 326.17, 343.53},
}

var maxEigCriticalValues = [12][3]float64{
	{2.69, 3.76, 6.65},
	{12.07, 14.07, 18.63},
	{18.60, 20.97, 25.52},
	{24.73, 27.07, 32.24},
	{30.90, 33.46, 38.77},
	{36.76, 39.37, 45.10},
	{42.32, 45.28, 51.57},
	{48.33, 51.42, 57.69},
	{53.98, 57.12, 62.80},
	{59.62, 62.81, 69.09},
	{65.38, 68.83, 75.95},
	{71.20, 74.62, 82.22},
}

// Augmented Dickey-Fuller critical values, regression with constant,
// asymptotic sample size.
var adfCriticalValues = [3]float64{-2.57, -2.86, -3.43}

// MaxDimension is the largest system size the critical-value tables cover.
const MaxDimension = 12
