// Package memory manages the GPU vertex buffer the scene is drawn from.
//
// The scene is small (a handful of images, their masks and decorations), so
// it is rebuilt and re-uploaded whole whenever it changes. The buffer keeps
// one VAO/VBO pair and doubles the VBO when a frame no longer fits.
package memory

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
)

var memoryLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("CROPPER_DEBUG_MEMORY") == "1" {
		memoryLogger = log.New(os.Stdout, "[memory] ", log.Ltime|log.Lmsgprefix)
	}
}

const (
	// FloatsPerVertex is the vertex layout: x, y, r, g, b, a.
	FloatsPerVertex = 6
	bytesPerVertex  = FloatsPerVertex * 4

	// InitialCapacity is the number of vertices the buffer starts with.
	InitialCapacity = 16384
	// MaxBufferBytes bounds growth.
	MaxBufferBytes = 256 * 1024 * 1024 // 256 MiB
)

// Stats tracks the buffer's use.
type Stats struct {
	Vertices          int64
	Capacity          int64
	GPUBytes          int64
	Uploads           int
	GrowthEvents      int
	LastGrowthTimeUs  float64
	LastUploadTimeUs  float64
	DrawCallsPerFrame int
}

// Buffer is a growable dynamic VBO with its VAO.
type Buffer struct {
	vao, vbo     uint32
	capacity     int // in vertices
	count        int
	growthCycles int
	stats        Stats
}

// NewBuffer allocates the GPU objects. It requires a current GL context.
func NewBuffer() *Buffer {
	b := &Buffer{}
	b.create(InitialCapacity)
	return b
}

// create sets up the VAO and a VBO with room for capacity vertices.
func (b *Buffer) create(capacity int) {
	if b.vao == 0 {
		gl.GenVertexArrays(1, &b.vao)
	}
	var vbo uint32
	gl.GenBuffers(1, &vbo)

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*bytesPerVertex, nil, gl.DYNAMIC_DRAW)

	// - Attribute 0: position (vec2)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, bytesPerVertex, gl.PtrOffset(0))
	// - Attribute 1: color (vec4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, bytesPerVertex, gl.PtrOffset(8))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
	}
	b.vbo = vbo
	b.capacity = capacity
}

// Upload replaces the buffer's contents, growing it if needed.
func (b *Buffer) Upload(vertices []float32) error {
	start := time.Now()
	count, err := vertexCount(vertices)
	if err != nil {
		return err
	}
	if count > b.capacity {
		capacity, err := grownCapacity(b.capacity, count)
		if err != nil {
			return err
		}
		memoryLogger.Printf("growing buffer %s -> %s vertices", formatNumber(int64(b.capacity)), formatNumber(int64(capacity)))
		b.create(capacity)
		b.growthCycles++
		b.stats.GrowthEvents++
		b.stats.LastGrowthTimeUs = float64(time.Since(start).Microseconds())
	}

	if count > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	}
	b.count = count
	b.stats.Uploads++
	b.stats.LastUploadTimeUs = float64(time.Since(start).Microseconds())
	return nil
}

// Draw renders the uploaded triangles.
func (b *Buffer) Draw() error {
	if b.count == 0 {
		b.stats.DrawCallsPerFrame = 0
		return nil
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(b.count))
	gl.BindVertexArray(0)
	b.stats.DrawCallsPerFrame = 1
	return nil
}

// Cleanup releases the GPU objects.
func (b *Buffer) Cleanup() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
}

// Stats returns current buffer statistics.
func (b *Buffer) Stats() Stats {
	b.stats.Vertices = int64(b.count)
	b.stats.Capacity = int64(b.capacity)
	b.stats.GPUBytes = int64(b.capacity * bytesPerVertex)
	return b.stats
}

// PrintStats logs the buffer statistics with a utilization bar.
func (b *Buffer) PrintStats() {
	stats := b.Stats()
	util := 0.0
	if stats.Capacity > 0 {
		util = float64(stats.Vertices) / float64(stats.Capacity)
	}
	memoryLogger.Printf("%s %.1f%% used (%s/%s vertices, %s triangles), %s GPU, %d uploads, %d growth events (%.2fμs last)",
		makeUtilizationBar(util, 12),
		util*100,
		formatNumber(stats.Vertices),
		formatNumber(stats.Capacity),
		formatNumber(stats.Vertices/3),
		formatNumber(stats.GPUBytes),
		stats.Uploads,
		stats.GrowthEvents,
		stats.LastGrowthTimeUs,
	)
}

func vertexCount(vertices []float32) (int, error) {
	if len(vertices)%FloatsPerVertex != 0 {
		return 0, fmt.Errorf("vertex data must be multiple of %d floats (x,y,r,g,b,a), got %d", FloatsPerVertex, len(vertices))
	}
	if n := len(vertices) / FloatsPerVertex; n%3 != 0 {
		return 0, fmt.Errorf("vertex count must be a multiple of 3 (triangles), got %d", n)
	}
	return len(vertices) / FloatsPerVertex, nil
}

// grownCapacity doubles current until it holds needed vertices.
func grownCapacity(current, needed int) (int, error) {
	capacity := max(current, 1)
	for capacity < needed {
		capacity *= 2
	}
	if capacity*bytesPerVertex > MaxBufferBytes {
		return 0, fmt.Errorf("cannot grow buffer to %d vertices (%s, max %s)",
			needed, formatNumber(int64(capacity*bytesPerVertex)), formatNumber(MaxBufferBytes))
	}
	return capacity, nil
}

// makeUtilizationBar creates a visual bar for utilization percentage.
func makeUtilizationBar(utilization float64, width int) string {
	if utilization < 0 {
		utilization = 0
	}
	if utilization > 1 {
		utilization = 1
	}

	filled := int(utilization * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return bar
}

// formatNumber formats large numbers with K/M suffixes for readability.
func formatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000.0)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000.0)
}
