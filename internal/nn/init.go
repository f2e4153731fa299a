package nn

import (
	"math"
	"math/rand"

	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// XavierUniform initializes a tensor with values drawn uniformly from
// [-limit, limit] where limit = sqrt(6 / (fanIn + fanOut)).
func XavierUniform[B tensor.Backend](shape tensor.Shape, fanIn, fanOut int, b B) *tensor.Tensor[float32, B] {
	t := tensor.Zeros[float32, B](shape, b)
	limit := math.Sqrt(6.0 / float64(fanIn+fanOut))

	data := t.Data()
	for i := range data {
		data[i] = float32((rand.Float64()*2 - 1) * limit)
	}
	return t
}
