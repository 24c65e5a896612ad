package sweep

import (
	"math"
	"sort"
)

// First 100 primes. Trial division stops early for numbers found
// here; larger primes are caught by the product check afterwards.
var smallPrimes = map[int]struct{}{}

func init() {
	for _, p := range []int{
		2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59,
		61, 67, 71, 73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131,
		137, 139, 149, 151, 157, 163, 167, 173, 179, 181, 191, 193, 197,
		199, 211, 223, 227, 229, 233, 239, 241, 251, 257, 263, 269, 271,
		277, 281, 283, 293, 307, 311, 313, 317, 331, 337, 347, 349, 353,
		359, 367, 373, 379, 383, 389, 397, 401, 409, 419, 421, 431, 433,
		439, 443, 449, 457, 461, 463, 467, 479, 487, 491, 499, 503, 509,
		521, 523, 541,
	} {
		smallPrimes[p] = struct{}{}
	}
}

// factorizer accumulates prime factors of number and condenses them
// to the requested dimensionality.
type factorizer struct {
	number     int
	dimensions int
	factors    []int
}

// primeFactors extracts the smallest factor of n repeatedly until a
// prime remainder is reached.
func (f *factorizer) primeFactors(n int) {
	if _, prime := smallPrimes[n]; prime {
		f.factors = append(f.factors, n)
		return
	}
	for v := 2; v <= n/2; v++ {
		if n%v != 0 {
			continue
		}
		f.factors = append(f.factors, v)
		f.primeFactors(n / v)
		break
	}
}

// validate appends a corrective remainder when the collected factors
// do not multiply back to the input (large primes fall out of the
// small-prime table and leave the list incomplete).
func (f *factorizer) validate() {
	product := 1
	for _, v := range f.factors {
		product *= v
	}
	if product != f.number {
		f.factors = append(f.factors, f.number/product)
	}
}

// condense reduces the factor list to exactly dimensions entries.
//
// The merge order is deliberate and load-bearing:
//  1. exactly one factor too many: merge the two smallest;
//  2. some factor at or above the dimensions-th root of the ORIGINAL
//     input: merge the smallest with the second-largest, keeping the
//     oversized factor isolated so it is not inflated further;
//  3. otherwise: merge the smallest and largest.
//
// Note the large-value test always compares against the root of the
// original input, not the remaining product.
func (f *factorizer) condense() {
	list := f.factors
	length := len(list)
	root := math.Pow(float64(f.number), 1.0/float64(f.dimensions))

	for length > f.dimensions {
		if length == f.dimensions+1 {
			merged := list[0] * list[1]
			list = append([]int{merged}, list[2:]...)
			f.factors = list
			return
		}

		largeVal := 0
		containsLarge := false
		for _, item := range list {
			if float64(item) >= root {
				containsLarge = true
				largeVal = item
			}
		}

		if containsLarge {
			merged := list[0] * list[length-2]
			list = append(append(list[1:length-2:length-2], merged), largeVal)
			length--
		} else {
			merged := list[0] * list[length-1]
			list = append(list[1:length-1:length-1], merged)
			length--
		}
	}

	if length < f.dimensions {
		for len(list) < f.dimensions {
			list = append(list, 1)
		}
	}
	f.factors = list
}

// Factorize decomposes n into exactly dims factors approximating a
// balanced grid shape, sorted in descending order. The product of the
// returned factors reconstructs n when no padding was needed; if n
// has fewer than dims prime factors the list is padded with 1s.
func Factorize(n, dims int) ([]int, error) {
	if n < 1 || dims < 1 {
		return nil, ErrNonPositive
	}
	f := &factorizer{number: n, dimensions: dims}
	f.primeFactors(n)
	f.validate()
	f.condense()
	sort.Sort(sort.Reverse(sort.IntSlice(f.factors)))
	return f.factors, nil
}
