package halfband

import "fmt"

func ExampleUpsampler_ProcessBlock() {
	coeffs, err := Design(DefaultAttenuationDB, DefaultTransition)
	if err != nil {
		panic(err)
	}

	up, err := NewUpsampler(coeffs)
	if err != nil {
		panic(err)
	}

	src := make([]float64, 4096)
	for i := range src {
		src[i] = 1
	}

	dst := make([]float64, 2*len(src))
	if err := up.ProcessBlock(dst, src); err != nil {
		panic(err)
	}

	fmt.Printf("%.6f %.6f\n", dst[len(dst)-2], dst[len(dst)-1])
	// Output: 1.000000 1.000000
}
