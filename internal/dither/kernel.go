package dither

// Tap is one neighbor receiving a share of the quantization error, offset
// from the current pixel. Dy is never negative and Dx is positive when Dy
// is zero, so taps only reach pixels not yet visited.
type Tap struct {
	Dx, Dy int
	Weight float64
}

// Kernel is an error-diffusion matrix. The weights of its taps sum to 1.
type Kernel []Tap

func taps(divisor float64, cells ...[3]int) Kernel {
	k := make(Kernel, len(cells))
	for i, c := range cells {
		k[i] = Tap{Dx: c[0], Dy: c[1], Weight: float64(c[2]) / divisor}
	}
	return k
}

var (
	floydSteinbergKernel = taps(16,
		[3]int{1, 0, 7},
		[3]int{-1, 1, 3}, [3]int{0, 1, 5}, [3]int{1, 1, 1},
	)

	jarvisJudiceNinkeKernel = taps(48,
		[3]int{1, 0, 7}, [3]int{2, 0, 5},
		[3]int{-2, 1, 3}, [3]int{-1, 1, 5}, [3]int{0, 1, 7}, [3]int{1, 1, 5}, [3]int{2, 1, 3},
		[3]int{-2, 2, 1}, [3]int{-1, 2, 3}, [3]int{0, 2, 5}, [3]int{1, 2, 3}, [3]int{2, 2, 1},
	)

	stuckiKernel = taps(42,
		[3]int{1, 0, 8}, [3]int{2, 0, 4},
		[3]int{-2, 1, 2}, [3]int{-1, 1, 4}, [3]int{0, 1, 8}, [3]int{1, 1, 4}, [3]int{2, 1, 2},
		[3]int{-2, 2, 1}, [3]int{-1, 2, 2}, [3]int{0, 2, 4}, [3]int{1, 2, 2}, [3]int{2, 2, 1},
	)

	burkesKernel = taps(32,
		[3]int{1, 0, 8}, [3]int{2, 0, 4},
		[3]int{-2, 1, 2}, [3]int{-1, 1, 4}, [3]int{0, 1, 8}, [3]int{1, 1, 4}, [3]int{2, 1, 2},
	)

	sierraKernel = taps(32,
		[3]int{1, 0, 5}, [3]int{2, 0, 3},
		[3]int{-2, 1, 2}, [3]int{-1, 1, 4}, [3]int{0, 1, 5}, [3]int{1, 1, 4}, [3]int{2, 1, 2},
		[3]int{-1, 2, 2}, [3]int{0, 2, 3}, [3]int{1, 2, 2},
	)

	twoRowSierraKernel = taps(16,
		[3]int{1, 0, 4}, [3]int{2, 0, 3},
		[3]int{-2, 1, 1}, [3]int{-1, 1, 2}, [3]int{0, 1, 3}, [3]int{1, 1, 2}, [3]int{2, 1, 1},
	)

	sierraLiteKernel = taps(4,
		[3]int{1, 0, 2},
		[3]int{-1, 1, 1}, [3]int{0, 1, 1},
	)
)

// Sum returns the total weight of k.
func (k Kernel) Sum() float64 {
	var s float64
	for _, t := range k {
		s += t.Weight
	}
	return s
}
