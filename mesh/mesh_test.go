package mesh

import (
	"testing"

	"github.com/richinsley/goglharness/graphics"
	"github.com/richinsley/goglharness/graphics/graphicstest"
)

var quad = []float32{
	0.5, 0.5, 0.0, 1.0, 0.0, 0.0, 1.0, 1.0,
	0.5, -0.5, 0.0, 0.0, 1.0, 0.0, 1.0, 0.0,
	-0.5, -0.5, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0,
	-0.5, 0.5, 0.0, 1.0, 1.0, 0.0, 0.0, 1.0,
}

func TestNewIndexed(t *testing.T) {
	d := graphicstest.NewDevice()
	m, err := New(d, quad, Layout{3, 3, 2}, []uint32{0, 1, 3, 1, 2, 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(d.Errors) != 0 {
		t.Fatalf("device errors: %v", d.Errors)
	}
	if m.Count() != 6 {
		t.Fatalf("count = %d, want 6", m.Count())
	}
	if d.BoundVAO != 0 {
		t.Fatal("vertex array left bound")
	}

	attrs := d.VertexArrays[m.vao]
	want := []graphicstest.Attrib{
		{Size: 3, Stride: 32, Offset: 0, Enabled: true, Buffer: m.vbo},
		{Size: 3, Stride: 32, Offset: 12, Enabled: true, Buffer: m.vbo},
		{Size: 2, Stride: 32, Offset: 24, Enabled: true, Buffer: m.vbo},
	}
	for i, w := range want {
		a := attrs[uint32(i)]
		if a == nil || *a != w {
			t.Fatalf("attribute %d = %+v, want %+v", i, a, w)
		}
	}
	if got := d.Buffers[m.vbo].Floats; len(got) != len(quad) {
		t.Fatalf("vertex buffer holds %d floats", len(got))
	}
	if got := d.Buffers[m.ebo].Indices; len(got) != 6 {
		t.Fatalf("index buffer holds %d indices", len(got))
	}

	d.ResetCalls()
	d.UseProgram(1)
	m.Draw()
	draws := d.CallsTo("DrawElements")
	if len(draws) != 1 || draws[0].Args[1] != int32(6) {
		t.Fatalf("draws = %v", draws)
	}

	m.Delete()
	m.Delete()
	if len(d.Buffers) != 0 || len(d.VertexArrays) != 0 {
		t.Fatalf("leaked %d buffers, %d vertex arrays", len(d.Buffers), len(d.VertexArrays))
	}
}

func TestNewArrays(t *testing.T) {
	d := graphicstest.NewDevice()
	m, err := New(d, []float32{0, 0, 1, 0, 0, 1}, Layout{2}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.SetPrimitive(graphics.TriangleStrip)
	m.Draw()
	draws := d.CallsTo("DrawArrays")
	if len(draws) != 1 || draws[0].Args[0] != graphics.TriangleStrip || draws[0].Args[2] != int32(3) {
		t.Fatalf("draws = %v", draws)
	}
	if m.ebo != 0 {
		t.Fatal("index buffer created for a non-indexed mesh")
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		layout   Layout
		indices  []uint32
	}{
		{"empty layout", quad, nil, nil},
		{"ragged", quad[:7], Layout{3, 3, 2}, nil},
		{"no vertices", nil, Layout{3}, nil},
		{"index out of range", quad, Layout{3, 3, 2}, []uint32{0, 1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := graphicstest.NewDevice()
			if _, err := New(d, tt.vertices, tt.layout, tt.indices); err == nil {
				t.Fatal("expected an error")
			}
			if len(d.Calls) != 0 {
				t.Fatalf("device touched: %v", d.Calls)
			}
		})
	}
}
