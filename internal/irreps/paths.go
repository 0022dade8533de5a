package irreps

// LinearWeightCount returns the number of weights in an equivariant linear
// map between two descriptors. Only groups of equal degree and parity mix,
// contributing mulIn * mulOut weights each.
func LinearWeightCount(in, out Irreps) int {
	n := 0
	for _, a := range in {
		for _, b := range out {
			if a.L == b.L && a.P == b.P {
				n += a.Mul * b.Mul
			}
		}
	}
	return n
}

// ConvPathCount returns the number of allowed coupling paths in a
// channelwise tensor product feat (x) sh -> out. A triple of groups couples
// when the degrees satisfy the triangle rule and the parities multiply:
// |l1-l2| <= l3 <= l1+l2 and p1*p2 == p3. Multiplicities do not enter; the
// caller scales by the channel count.
func ConvPathCount(feat, sh, out Irreps) int {
	n := 0
	for _, a := range feat {
		for _, b := range sh {
			for _, c := range out {
				if c.L < a.L-b.L || c.L < b.L-a.L || c.L > a.L+b.L {
					continue
				}
				if a.P*b.P != c.P {
					continue
				}
				n++
			}
		}
	}
	return n
}

// CouplingPathCount returns the number of ordered degree sequences
// (l_1, ..., l_nu), each l_i <= lmax, whose sequential angular-momentum
// coupling reaches total degree L. This sizes the weight tensors of a
// degree-nu symmetric contraction: one weight per path per species per
// channel.
func CouplingPathCount(nu, lmax, L int) int {
	if nu < 1 || lmax < 0 || L < 0 {
		return 0
	}
	// ways[l] = number of length-k sequences coupling to total degree l.
	ways := make([]int, nu*lmax+1)
	for l := 0; l <= lmax && l < len(ways); l++ {
		ways[l] = 1
	}
	for k := 2; k <= nu; k++ {
		next := make([]int, len(ways))
		for cur, w := range ways {
			if w == 0 {
				continue
			}
			for l := 0; l <= lmax; l++ {
				lo := cur - l
				if lo < 0 {
					lo = l - cur
				}
				for total := lo; total <= cur+l && total < len(next); total++ {
					next[total] += w
				}
			}
		}
		ways = next
	}
	if L >= len(ways) {
		return 0
	}
	return ways[L]
}
