package codec

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"

	"github.com/hupe1980/delaunay/mesh"
	"github.com/hupe1980/delaunay/pointset"
)

const (
	binaryMagic      = 0x594e4c44 // "DLNY"
	binaryVersion    = 1
	binaryHeaderSize = 20

	maxDim = 1 << 12
)

// Binary is the compact little-endian mesh codec.
//
// Format:
//
//	Magic (4 bytes)
//	Version (2 bytes)
//	Compression (1 byte)
//	Reserved (1 byte)
//	Checksum (4 bytes) - CRC32 of the uncompressed payload
//	PayloadLength (4 bytes) - uncompressed
//	StoredLength (4 bytes)
//	Payload (possibly compressed):
//	  Dim (4 bytes)
//	  NumPoints (4 bytes)
//	  NumSimplices (4 bytes)
//	  NumCoplanar (4 bytes)
//	  LiftScale (8 bytes)
//	  LiftCentre (Dim x 8 bytes, only if LiftScale != 0)
//	  Coords (NumPoints x Dim x 8 bytes)
//	  Simplices (NumSimplices x (Dim+1) x 4 bytes)
//	  Neighbors (NumSimplices x (Dim+1) x 4 bytes, -1 for none)
//	  Coplanar (NumCoplanar x 4 bytes)
//
// Output is a pure function of the mesh, so equal meshes encode to equal bytes.
type Binary struct {
	Compression Compression
}

// Name returns "binary", suffixed with the compression if any.
func (b Binary) Name() string {
	if b.Compression == CompressionNone {
		return "binary"
	}
	return "binary+" + b.Compression.String()
}

// Marshal encodes m.
func (b Binary) Marshal(m *mesh.Mesh) ([]byte, error) {
	dim, n, ns := m.Dim(), m.Points().Len(), m.Len()
	coplanar := m.Coplanar()
	lift := m.Lift()

	if n > math.MaxUint32 || ns > math.MaxUint32 {
		return nil, fmt.Errorf("codec: mesh too large (%d points, %d simplices)", n, ns)
	}

	size := 24 + 8*dim + 8*n*dim + 8*ns*(dim+1) + 4*len(coplanar)
	pb := newPayloadBuffer(make([]byte, 0, size))

	pb.writeUint32(uint32(dim))
	pb.writeUint32(uint32(n))
	pb.writeUint32(uint32(ns))
	pb.writeUint32(uint32(len(coplanar)))
	pb.writeFloat64(lift.Scale)
	if !lift.IsZero() {
		for _, c := range lift.Centre {
			pb.writeFloat64(c)
		}
	}

	for _, x := range m.Points().Coords() {
		pb.writeFloat64(x)
	}
	for s := range ns {
		for _, v := range m.Simplex(s) {
			pb.writeUint32(uint32(v))
		}
	}
	for s := range ns {
		for _, t := range m.Neighbors(s) {
			pb.writeUint32(uint32(int32(t)))
		}
	}
	for _, v := range coplanar {
		pb.writeUint32(uint32(v))
	}

	payload := pb.buf
	stored, used, err := compress(payload, b.Compression)
	if err != nil {
		return nil, fmt.Errorf("codec: compress: %w", err)
	}

	payloadLen, err := lengthField(len(payload))
	if err != nil {
		return nil, err
	}
	storedLen, err := lengthField(len(stored))
	if err != nil {
		return nil, err
	}

	out := make([]byte, binaryHeaderSize, binaryHeaderSize+len(stored))
	binary.LittleEndian.PutUint32(out[0:4], binaryMagic)
	binary.LittleEndian.PutUint16(out[4:6], binaryVersion)
	out[6] = byte(used)
	binary.LittleEndian.PutUint32(out[8:12], crc32.ChecksumIEEE(payload))
	binary.LittleEndian.PutUint32(out[12:16], payloadLen)
	binary.LittleEndian.PutUint32(out[16:20], storedLen)

	return append(out, stored...), nil
}

// lengthField converts a byte count to its 32-bit header field.
func lengthField(n int) (uint32, error) {
	if uint64(n) > math.MaxUint32 {
		return 0, fmt.Errorf("codec: payload of %d bytes exceeds the 4 GiB length field", n)
	}
	return uint32(n), nil
}

// Unmarshal decodes data produced by Marshal with any compression.
// The decoded mesh is validated before it is returned.
func (Binary) Unmarshal(data []byte) (*mesh.Mesh, error) {
	if len(data) < binaryHeaderSize {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, io.ErrUnexpectedEOF)
	}

	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != binaryMagic {
		return nil, fmt.Errorf("%w: invalid magic %x", ErrCorrupt, magic)
	}
	if version := binary.LittleEndian.Uint16(data[4:6]); version != binaryVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	compression := Compression(data[6])
	checksum := binary.LittleEndian.Uint32(data[8:12])
	length := int(binary.LittleEndian.Uint32(data[12:16]))
	storedLength := int(binary.LittleEndian.Uint32(data[16:20]))

	if len(data)-binaryHeaderSize != storedLength {
		return nil, fmt.Errorf("%w: stored length %d, have %d bytes", ErrCorrupt, storedLength, len(data)-binaryHeaderSize)
	}

	payload, err := decompress(data[binaryHeaderSize:], compression, length)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if crc32.ChecksumIEEE(payload) != checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	return decodePayload(payload)
}

func decodePayload(payload []byte) (*mesh.Mesh, error) {
	pb := newPayloadBuffer(payload)

	dim := int(pb.readUint32())
	n := int(pb.readUint32())
	ns := int(pb.readUint32())
	nc := int(pb.readUint32())

	if pb.err == nil && (dim < 1 || dim > maxDim) {
		return nil, fmt.Errorf("%w: dimension %d", ErrCorrupt, dim)
	}

	var lift mesh.Lift
	lift.Scale = pb.readFloat64()
	if lift.Scale != 0 {
		lift.Centre = make([]float64, 0, dim)
		for range dim {
			lift.Centre = append(lift.Centre, pb.readFloat64())
		}
	}

	if pb.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, pb.err)
	}

	// Reject counts that cannot fit before allocating for them.
	rem := pb.remaining()
	if n > rem/(8*dim) || ns > rem/(8*(dim+1)) || nc > rem/4 {
		return nil, fmt.Errorf("%w: counts exceed payload of %d bytes", ErrCorrupt, rem)
	}
	if need := 8*n*dim + 8*ns*(dim+1) + 4*nc; need != rem {
		return nil, fmt.Errorf("%w: payload holds %d bytes, header implies %d", ErrCorrupt, rem, need)
	}

	ps, err := pointset.New(dim, func(o *pointset.Options) { o.Capacity = n })
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	p := make([]float64, dim)
	for range n {
		for k := range p {
			p[k] = pb.readFloat64()
		}
		if _, err := ps.Add(p); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}

	k := dim + 1
	flat := make([]int, 2*ns*k)
	for i := range flat[:ns*k] {
		flat[i] = int(pb.readUint32())
	}
	for i := range flat[ns*k:] {
		flat[ns*k+i] = int(int32(pb.readUint32()))
	}

	simplices := make([][]int, ns)
	neighbors := make([][]int, ns)
	for s := range ns {
		simplices[s] = flat[s*k : (s+1)*k : (s+1)*k]
		neighbors[s] = flat[(ns+s)*k : (ns+s+1)*k : (ns+s+1)*k]
	}

	coplanar := make([]int, nc)
	for i := range coplanar {
		coplanar[i] = int(pb.readUint32())
	}

	if pb.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, pb.err)
	}

	m, err := mesh.New(ps, simplices, neighbors, func(o *mesh.Options) {
		o.Lift = lift
		o.Coplanar = coplanar
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	return m, nil
}

type payloadBuffer struct {
	buf []byte
	pos int
	err error
}

func newPayloadBuffer(b []byte) *payloadBuffer {
	return &payloadBuffer{buf: b}
}

func (p *payloadBuffer) remaining() int { return len(p.buf) - p.pos }

func (p *payloadBuffer) writeUint32(v uint32) {
	p.buf = binary.LittleEndian.AppendUint32(p.buf, v)
}

func (p *payloadBuffer) writeFloat64(v float64) {
	p.buf = binary.LittleEndian.AppendUint64(p.buf, math.Float64bits(v))
}

func (p *payloadBuffer) readUint32() uint32 {
	if p.err != nil {
		return 0
	}
	if p.pos+4 > len(p.buf) {
		p.err = io.ErrUnexpectedEOF
		return 0
	}
	v := binary.LittleEndian.Uint32(p.buf[p.pos:])
	p.pos += 4
	return v
}

func (p *payloadBuffer) readFloat64() float64 {
	if p.err != nil {
		return 0
	}
	if p.pos+8 > len(p.buf) {
		p.err = io.ErrUnexpectedEOF
		return 0
	}
	v := binary.LittleEndian.Uint64(p.buf[p.pos:])
	p.pos += 8
	return math.Float64frombits(v)
}
