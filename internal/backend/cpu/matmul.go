package cpu

import (
	"fmt"

	"github.com/lorentz-ml/lorentz/internal/tensor"
)

// matmulBlockSize is the tile edge for the cache-blocked kernel.
const matmulBlockSize = 64

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
func (c *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	result := newRaw(tensor.Shape{m, n}, a.DType(), c.device)

	// Blocking only pays off for matrices that overflow L1; small batches
	// of narrow features go through the straight triple loop.
	useBlocked := c.blocked && m*n*k >= matmulBlockSize*matmulBlockSize*matmulBlockSize

	switch a.DType() {
	case tensor.Float32:
		if useBlocked {
			matmulBlocked(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
		} else {
			matmulNaive(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
		}
	case tensor.Float64:
		if useBlocked {
			matmulBlocked(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n)
		} else {
			matmulNaive(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n)
		}
	}

	return result
}

// matmulNaive computes C[i,j] = sum_k A[i,k] * B[k,j] with the loop order
// (i, k, j) so the inner loop streams both B and C.
func matmulNaive[T tensor.DType](c, a, b []T, m, k, n int) {
	for i := 0; i < m; i++ {
		ci := c[i*n : (i+1)*n]
		for kk := 0; kk < k; kk++ {
			aik := a[i*k+kk]
			bk := b[kk*n : (kk+1)*n]
			for j := range ci {
				ci[j] += aik * bk[j]
			}
		}
	}
}

// matmulBlocked tiles the iteration space so working sets stay cache-resident.
func matmulBlocked[T tensor.DType](c, a, b []T, m, k, n int) {
	bs := matmulBlockSize
	for i0 := 0; i0 < m; i0 += bs {
		iMax := min(i0+bs, m)
		for k0 := 0; k0 < k; k0 += bs {
			kMax := min(k0+bs, k)
			for j0 := 0; j0 < n; j0 += bs {
				jMax := min(j0+bs, n)
				for i := i0; i < iMax; i++ {
					for kk := k0; kk < kMax; kk++ {
						aik := a[i*k+kk]
						for j := j0; j < jMax; j++ {
							c[i*n+j] += aik * b[kk*n+j]
						}
					}
				}
			}
		}
	}
}
