package beefi

import "math"

// Reconstruct converts BfaData to BfmData by applying the inverse
// Givens-rotation procedure of spec.md 4.D to every subcarrier
// independently, producing a complex (Nr, Nc, S) array whose columns are
// orthonormal (Vᴴ V ≈ I_Nc per subcarrier).
//
// It fails with ErrShapeMismatch when the number of angles per subcarrier
// disagrees with the count the metadata implies, which can only indicate a
// bug in the caller or the parser that produced x, and with the AngleBitsFor
// error when the metadata names a feedback type or codebook that has no
// angle bit widths. The subcarrier count is taken from x.Angles as stored
// and is not checked against the metadata's bandwidth.
func Reconstruct(x BfaData) (BfmData, error) {
	nr, nc := x.Metadata.Nr(), x.Metadata.Nc()
	bits, err := x.Metadata.AngleBits()
	if err != nil {
		return BfmData{}, err
	}
	layout := AngleLayout(nr, nc, bits)

	s, a := x.Shape()
	if a != len(layout) {
		return BfmData{}, ErrShapeMismatch
	}

	v := make([][][]complex128, nr)
	for r := 0; r < nr; r++ {
		v[r] = make([][]complex128, nc)
		for c := 0; c < nc; c++ {
			v[r][c] = make([]complex128, s)
		}
	}

	for sc := 0; sc < s; sc++ {
		phis, psis := dequantizeRow(x.Angles[sc], layout, bits)
		col := reconstructSubcarrier(nr, nc, phis, psis)
		for r := 0; r < nr; r++ {
			for c := 0; c < nc; c++ {
				v[r][c][sc] = col[r][c]
			}
		}
	}

	return BfmData{
		Metadata:    x.Metadata,
		Timestamp:   x.Timestamp,
		TokenNumber: x.TokenNumber,
		V:           v,
	}, nil
}

// dequantizeRow splits one subcarrier's raw angle row into per-column phi
// and psi sequences (each indexed [col][k], k running over the Nr-1-col
// rows of that column, in ascending row order), dequantizing each with the
// uniform-quantizer midpoint formula of spec.md 4.D step 1:
//
//	phi = (2*pi * (q + 1)) / 2^(bphi+1)
//	psi = (2*pi * (q + 1)) / 2^(bpsi+2) + pi/4
func dequantizeRow(row []uint64, layout []AngleSlot, bits AngleBits) (phis, psis [][]float64) {
	maxCol := 0
	for _, slot := range layout {
		if slot.Col > maxCol {
			maxCol = slot.Col
		}
	}
	phis = make([][]float64, maxCol+1)
	psis = make([][]float64, maxCol+1)

	for i, slot := range layout {
		q := float64(row[i])
		if slot.IsPhi {
			phi := (2 * math.Pi * (q + 1)) / math.Pow(2, float64(bits.Phi+1))
			phis[slot.Col] = append(phis[slot.Col], phi)
		} else {
			psi := (2*math.Pi*(q+1))/math.Pow(2, float64(bits.Psi+2)) + math.Pi/4
			psis[slot.Col] = append(psis[slot.Col], psi)
		}
	}

	return phis, psis
}

// reconstructSubcarrier applies spec.md 4.D steps 2-3 for one subcarrier,
// given the per-column phi/psi sequences produced by dequantizeRow.
// Returns an (Nr x Nc) complex matrix.
//
// Both building blocks used here -- the diagonal phase matrix D_i and the
// real Givens rotation G_{l,i} -- are unitary by construction, so composing
// them onto the truncated identity preserves column orthonormality
// regardless of how many columns are involved (spec.md 8, property 3).
func reconstructSubcarrier(nr, nc int, phis, psis [][]float64) [][]complex128 {
	v := identityColumns(nr, nc)

	for col := 0; col < nc; col++ {
		v = applyDiagonal(v, nr, col, phis[col])
		for k, psi := range psis[col] {
			row := col + k
			v = applyGivens(v, col, row+1, psi)
		}
	}

	return v
}

// identityColumns returns the first nc columns of the nr x nr identity
// matrix, as an nr x nc complex matrix.
func identityColumns(nr, nc int) [][]complex128 {
	v := make([][]complex128, nr)
	for r := 0; r < nr; r++ {
		v[r] = make([]complex128, nc)
		if r < nc {
			v[r][r] = 1
		}
	}
	return v
}

// applyDiagonal left-multiplies v by D_col(phis[0], ..., phis[len-1], 0):
// an nr x nr diagonal matrix whose entries from row `col` onward are
// e^{j*phi} for the given phi sequence, followed by a final e^{j*0} = 1 for
// the last row, and 1 (untouched) for every row above `col`.
func applyDiagonal(v [][]complex128, nr, col int, phis []float64) [][]complex128 {
	for i, phi := range phis {
		row := col + i
		phase := complex(math.Cos(phi), math.Sin(phi))
		for c := range v[row] {
			v[row][c] *= phase
		}
	}
	return v
}

// applyGivens left-multiplies v by the real Givens rotation mixing rows i
// and l (0-indexed) by angle psi:
//
//	G[i,i] =  cos(psi)   G[i,l] = sin(psi)
//	G[l,i] = -sin(psi)   G[l,l] = cos(psi)
//
// and the identity everywhere else.
func applyGivens(v [][]complex128, i, l int, psi float64) [][]complex128 {
	c := complex(math.Cos(psi), 0)
	s := complex(math.Sin(psi), 0)

	for col := range v[i] {
		vi, vl := v[i][col], v[l][col]
		v[i][col] = c*vi + s*vl
		v[l][col] = -s*vi + c*vl
	}
	return v
}
