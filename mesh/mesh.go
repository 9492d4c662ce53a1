package mesh

import (
	"errors"
	"fmt"

	"github.com/richinsley/goglharness/graphics"
)

const floatSize = 4

// Device is what a Mesh needs from the GPU.
type Device interface {
	graphics.BufferDevice
	graphics.DrawDevice
}

// Layout lists the component count of each interleaved float attribute, in
// attribute index order. {3, 3, 2} is position, color, texcoord.
type Layout []int32

// Stride is the size of one vertex in floats.
func (l Layout) Stride() int32 {
	var n int32
	for _, s := range l {
		n += s
	}
	return n
}

// Mesh is a vertex array with its vertex buffer and optional index buffer.
type Mesh struct {
	device  Device
	vao     uint32
	vbo     uint32
	ebo     uint32
	count   int32
	indexed bool
	mode    graphics.Primitive
}

// New uploads interleaved vertices and, when indices is non-empty, an index
// buffer. The vertex array is left unbound.
func New(d Device, vertices []float32, layout Layout, indices []uint32) (*Mesh, error) {
	stride := layout.Stride()
	if stride == 0 {
		return nil, errors.New("mesh layout has no components")
	}
	if len(vertices) == 0 || len(vertices)%int(stride) != 0 {
		return nil, fmt.Errorf("mesh has %d floats, not a multiple of the %d-float stride", len(vertices), stride)
	}
	numVertices := uint32(len(vertices) / int(stride))
	for i, idx := range indices {
		if idx >= numVertices {
			return nil, fmt.Errorf("index %d at position %d is out of range for %d vertices", idx, i, numVertices)
		}
	}

	m := &Mesh{device: d, mode: graphics.Triangles}
	m.vao = d.GenVertexArray()
	d.BindVertexArray(m.vao)

	m.vbo = d.GenBuffer()
	d.BindBuffer(graphics.ArrayBuffer, m.vbo)
	d.BufferFloats(graphics.ArrayBuffer, vertices)

	if len(indices) > 0 {
		m.ebo = d.GenBuffer()
		d.BindBuffer(graphics.ElementArrayBuffer, m.ebo)
		d.BufferIndices(graphics.ElementArrayBuffer, indices)
		m.indexed = true
		m.count = int32(len(indices))
	} else {
		m.count = int32(numVertices)
	}

	offset := 0
	for i, size := range layout {
		d.VertexAttribPointer(uint32(i), size, stride*floatSize, offset)
		d.EnableVertexAttribArray(uint32(i))
		offset += int(size) * floatSize
	}

	d.BindBuffer(graphics.ArrayBuffer, 0)
	// the element buffer binding is vertex array state, so unbind the vao first
	d.BindVertexArray(0)
	return m, nil
}

// SetPrimitive changes the topology used by Draw.
func (m *Mesh) SetPrimitive(p graphics.Primitive) {
	m.mode = p
}

// Count is the number of indices, or vertices for a non-indexed mesh.
func (m *Mesh) Count() int32 {
	return m.count
}

// Bind makes the vertex array current.
func (m *Mesh) Bind() {
	m.device.BindVertexArray(m.vao)
}

// Draw binds the vertex array and issues one draw call.
func (m *Mesh) Draw() {
	m.Bind()
	if m.indexed {
		m.device.DrawElements(m.mode, m.count)
	} else {
		m.device.DrawArrays(m.mode, 0, m.count)
	}
}

// Delete releases the vertex array and buffers.
func (m *Mesh) Delete() {
	if m.vao == 0 {
		return
	}
	m.device.DeleteVertexArray(m.vao)
	m.device.DeleteBuffer(m.vbo)
	if m.ebo != 0 {
		m.device.DeleteBuffer(m.ebo)
	}
	m.vao, m.vbo, m.ebo = 0, 0, 0
}
