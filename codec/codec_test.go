package codec

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/delaunay/mesh"
	"github.com/hupe1980/delaunay/pointset"
	"github.com/hupe1980/delaunay/testutil"
	"github.com/hupe1980/delaunay/triangulate"
)

func buildMesh(t testing.TB, pts [][]float64) *mesh.Mesh {
	t.Helper()

	ps, err := pointset.FromSlice(pts)
	require.NoError(t, err)

	indices := make([]int, ps.Len())
	for i := range indices {
		indices[i] = i
	}

	m, err := triangulate.Triangulate(ps, indices)
	require.NoError(t, err)
	return m
}

func allCodecs() []Codec {
	return []Codec{
		Binary{},
		Binary{Compression: CompressionLZ4},
		Binary{Compression: CompressionZSTD},
		JSON{},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(7)
	m := buildMesh(t, rng.UniformPoints(200, 3))

	for _, c := range allCodecs() {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(m)
			require.NoError(t, err)

			got, err := c.Unmarshal(data)
			require.NoError(t, err)
			assert.True(t, m.Equal(got))
			assert.Equal(t, m.Vertices(), got.Vertices())
		})
	}
}

func TestCodecKeepsCoplanar(t *testing.T) {
	pts := append(testutil.UnitSquareWithCentre(), []float64{0.5, 0.5})
	m := buildMesh(t, pts)
	require.Equal(t, []int{5}, m.Coplanar())

	for _, c := range allCodecs() {
		got, err := c.Unmarshal(MustMarshal(c, m))
		require.NoError(t, err, c.Name())
		assert.Equal(t, []int{5}, got.Coplanar(), c.Name())
		assert.True(t, m.Lift().Equal(got.Lift()), c.Name())
	}
}

func TestBinaryDeterministic(t *testing.T) {
	pts := testutil.NewRNG(3).UniformPoints(100, 4)

	a := buildMesh(t, pts)
	b := buildMesh(t, pts)

	for _, c := range allCodecs() {
		assert.Equal(t, MustMarshal(c, a), MustMarshal(c, b), c.Name())
	}
}

func TestBinaryHeader(t *testing.T) {
	m := buildMesh(t, testutil.UnitSquareWithCentre())

	data := MustMarshal(Binary{}, m)
	require.Greater(t, len(data), binaryHeaderSize)

	assert.Equal(t, []byte("DLNY"), data[:4])
	assert.Equal(t, uint16(binaryVersion), binary.LittleEndian.Uint16(data[4:6]))
	assert.Equal(t, byte(CompressionNone), data[6])
	assert.Equal(t, len(data)-binaryHeaderSize, int(binary.LittleEndian.Uint32(data[16:20])))
}

func TestBinaryRejectsCorruption(t *testing.T) {
	m := buildMesh(t, testutil.NewRNG(11).UniformPoints(50, 2))

	for _, c := range []Binary{{}, {Compression: CompressionZSTD}, {Compression: CompressionLZ4}} {
		t.Run(c.Name(), func(t *testing.T) {
			data := MustMarshal(c, m)

			t.Run("flipped payload byte", func(t *testing.T) {
				bad := append([]byte(nil), data...)
				bad[len(bad)-1] ^= 0xff
				_, err := c.Unmarshal(bad)
				assert.ErrorIs(t, err, ErrCorrupt)
			})

			t.Run("bad magic", func(t *testing.T) {
				bad := append([]byte(nil), data...)
				bad[0] = 'X'
				_, err := c.Unmarshal(bad)
				assert.ErrorIs(t, err, ErrCorrupt)
			})

			t.Run("truncated", func(t *testing.T) {
				_, err := c.Unmarshal(data[:len(data)-3])
				assert.ErrorIs(t, err, ErrCorrupt)

				_, err = c.Unmarshal(data[:10])
				assert.ErrorIs(t, err, ErrCorrupt)
			})

			t.Run("inflated payload length", func(t *testing.T) {
				bad := append([]byte(nil), data...)
				binary.LittleEndian.PutUint32(bad[12:16], 0xfffffff0)
				_, err := c.Unmarshal(bad)
				assert.ErrorIs(t, err, ErrCorrupt)
			})

			t.Run("future version", func(t *testing.T) {
				bad := append([]byte(nil), data...)
				binary.LittleEndian.PutUint16(bad[4:6], binaryVersion+1)
				_, err := c.Unmarshal(bad)
				assert.ErrorIs(t, err, ErrUnsupportedVersion)
			})
		})
	}
}

func TestDecompressBoundsLength(t *testing.T) {
	stored := []byte{0x10, 0x00}

	for _, c := range []Compression{CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			_, err := decompress(stored, c, len(stored)*maxRatio+1)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "exceeds")
		})
	}
}

func TestLengthField(t *testing.T) {
	v, err := lengthField(1234)
	require.NoError(t, err)
	assert.Equal(t, uint32(1234), v)

	_, err = lengthField(math.MaxUint32 + 1)
	assert.Error(t, err)
}

func TestBinaryDecodesAnyCompression(t *testing.T) {
	m := buildMesh(t, testutil.NewRNG(5).UniformPoints(80, 3))

	data := MustMarshal(Binary{Compression: CompressionZSTD}, m)
	got, err := Binary{}.Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, m.Equal(got))
}

func TestZSTDShrinksLargeMeshes(t *testing.T) {
	m := buildMesh(t, testutil.GridPoints(12, 2))

	raw := MustMarshal(Binary{}, m)
	packed := MustMarshal(Binary{Compression: CompressionZSTD}, m)
	assert.Less(t, len(packed), len(raw))
}

func TestJSONRejectsInvalidTopology(t *testing.T) {
	doc := `{"dim":2,"points":[[0,0],[1,0],[0,1],[1,1]],"simplices":[[0,1,2],[1,2,3]],"neighbors":[[1,-1,-1],[-1,-1,-1]]}`
	_, err := JSON{}.Unmarshal([]byte(doc))
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.ErrorIs(t, err, mesh.ErrInvalidMesh)

	_, err = JSON{}.Unmarshal([]byte(`{"dim":1}`))
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = JSON{}.Unmarshal([]byte(`not json`))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestByName(t *testing.T) {
	for _, c := range allCodecs() {
		got, ok := ByName(c.Name())
		require.True(t, ok, c.Name())
		assert.Equal(t, c, got)
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
	assert.Equal(t, "binary+zstd", Default.Name())
}

func BenchmarkBinaryMarshal(b *testing.B) {
	m := buildMesh(b, testutil.NewRNG(1).UniformPoints(2000, 3))

	for _, c := range []Binary{{}, {Compression: CompressionLZ4}, {Compression: CompressionZSTD}} {
		b.Run(c.Name(), func(b *testing.B) {
			for b.Loop() {
				_ = MustMarshal(c, m)
			}
		})
	}
}
