package service

import "encoding/binary"

const gcmBlockSize = 16

// fieldElement is an element of GF(2^128) in GCM's bit-reflected representation.
// low holds the first eight bytes of a block, high the last eight.
type fieldElement struct {
	low, high uint64
}

// ghash is an incremental GHASH over a single run of ciphertext with no AAD.
// Data may arrive in writes of any size; only the final partial block is padded.
type ghash struct {
	productTable [16]fieldElement
	y            fieldElement
	buf          [gcmBlockSize]byte
	nbuf         int
}

// newGHASH precomputes the 16 multiples of the hash key h (h = E(K, 0^128)).
// Lookups use bits taken from a field element, so entries are stored at bit-reversed indexes.
func newGHASH(h []byte) *ghash {
	g := &ghash{}
	x := fieldElement{
		low:  binary.BigEndian.Uint64(h[:8]),
		high: binary.BigEndian.Uint64(h[8:]),
	}
	g.productTable[reverseBits(1)] = x

	for i := 2; i < 16; i += 2 {
		g.productTable[reverseBits(i)] = gcmDouble(&g.productTable[reverseBits(i/2)])
		g.productTable[reverseBits(i+1)] = gcmAdd(&g.productTable[reverseBits(i)], &x)
	}
	return g
}

// write absorbs p, holding back any trailing partial block until more data or finish.
func (g *ghash) write(p []byte) {
	if g.nbuf > 0 {
		n := copy(g.buf[g.nbuf:], p)
		g.nbuf += n
		p = p[n:]
		if g.nbuf < gcmBlockSize {
			return
		}
		g.updateBlocks(g.buf[:])
		g.nbuf = 0
	}

	full := len(p) &^ (gcmBlockSize - 1)
	g.updateBlocks(p[:full])
	g.nbuf = copy(g.buf[:], p[full:])
}

// finish pads the pending partial block, absorbs the length block and returns GHASH.
func (g *ghash) finish(aadLen, ciphertextLen uint64) [gcmBlockSize]byte {
	if g.nbuf > 0 {
		clear(g.buf[g.nbuf:])
		g.updateBlocks(g.buf[:])
		g.nbuf = 0
	}

	g.y.low ^= aadLen * 8
	g.y.high ^= ciphertextLen * 8
	g.mul(&g.y)

	var out [gcmBlockSize]byte
	binary.BigEndian.PutUint64(out[:8], g.y.low)
	binary.BigEndian.PutUint64(out[8:], g.y.high)
	return out
}

func (g *ghash) updateBlocks(blocks []byte) {
	for len(blocks) > 0 {
		g.y.low ^= binary.BigEndian.Uint64(blocks)
		g.y.high ^= binary.BigEndian.Uint64(blocks[8:])
		g.mul(&g.y)
		blocks = blocks[gcmBlockSize:]
	}
}

// gcmReductionTable is used to reduce a field element after a four-bit shift.
var gcmReductionTable = []uint16{
	0x0000, 0x1c20, 0x3840, 0x2460, 0x7080, 0x6ca0, 0x48c0, 0x54e0,
	0xe100, 0xfd20, 0xd940, 0xc560, 0x9180, 0x8da0, 0xa9c0, 0xb5e0,
}

// mul sets y to y*H, consuming y four bits at a time.
func (g *ghash) mul(y *fieldElement) {
	var z fieldElement

	for i := 0; i < 2; i++ {
		word := y.high
		if i == 1 {
			word = y.low
		}

		for j := 0; j < 64; j += 4 {
			msw := z.high & 0xf
			z.high >>= 4
			z.high |= z.low << 60
			z.low >>= 4
			z.low ^= uint64(gcmReductionTable[msw]) << 48

			t := &g.productTable[word&0xf]

			z.low ^= t.low
			z.high ^= t.high
			word >>= 4
		}
	}

	*y = z
}

func reverseBits(i int) int {
	i = ((i << 2) & 0xc) | ((i >> 2) & 0x3)
	i = ((i << 1) & 0xa) | ((i >> 1) & 0x5)
	return i
}

func gcmAdd(x, y *fieldElement) fieldElement {
	return fieldElement{x.low ^ y.low, x.high ^ y.high}
}

// gcmDouble returns x*2 in GF(2^128).
func gcmDouble(x *fieldElement) (double fieldElement) {
	msbSet := x.high&1 == 1

	double.high = x.high >> 1
	double.high |= x.low << 63
	double.low = x.low >> 1

	if msbSet {
		double.low ^= 0xe100000000000000
	}
	return
}
