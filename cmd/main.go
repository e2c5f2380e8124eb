package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/irfansharif/cropper/internal/app"
	"github.com/irfansharif/cropper/internal/crop"
	"github.com/irfansharif/cropper/internal/geom"
	"github.com/irfansharif/cropper/internal/memory"
	"github.com/irfansharif/cropper/internal/palette"
	"github.com/irfansharif/cropper/internal/render"
)

const logFlags = log.Ltime | log.Lshortfile

var runtimeLogger *log.Logger = log.New(io.Discard, "", 0)

var (
	minWidth       = flag.Float64("min-width", crop.DefaultOptions().MinWidth, "minimum crop width, in image pixels")
	minHeight      = flag.Float64("min-height", crop.DefaultOptions().MinHeight, "minimum crop height, in image pixels")
	cornerLength   = flag.Float64("corner-length", crop.DefaultOptions().CornerLength, "length of the crop corner marks")
	cornerWidth    = flag.Float64("corner-width", crop.DefaultOptions().CornerWidth, "width of the crop corner marks, in screen pixels")
	originalOpaque = flag.Float64("original-opacity", crop.DefaultOptions().OriginalImageOpacity, "opacity of the uncropped image while cropping")
)

func init() {
	// OpenGL contexts are tied to specific OS threads - let's pin to just one.
	runtime.LockOSThread()
	log.SetFlags(logFlags)

	if os.Getenv("CROPPER_DEBUG_RUNTIME") == "1" {
		runtimeLogger = log.New(os.Stdout, "[runtime] ", log.Ltime|log.Lmsgprefix)
	}
}

func makeTitle(title string, fps float64, avgFrameTime float64, renderStats render.Stats, memStats memory.Stats) string {
	return fmt.Sprintf("%s [%.1f FPS, %.2fms/frame, %d triangles, %.2fµs/draw, %.2fms/prepare, %.1fMiB GPU]",
		title,
		fps,
		avgFrameTime,
		renderStats.Triangles,
		renderStats.LastDrawTimeUs,
		renderStats.LastPrepareTimeMs,
		float64(memStats.GPUBytes)/(1024.0*1024.0),
	)
}

func main() {
	flag.Parse()
	opts := options()

	if err := glfw.Init(); err != nil {
		log.Fatalf("Failed to initialize GLFW: %v", err)
	}
	defer glfw.Terminate()

	// Configure GLFW window hints - use OpenGL 4.1.
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	window, err := glfw.CreateWindow(
		1280, // width
		960,  // height
		"Cropper",
		nil, nil,
	)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		log.Fatalf("Failed to initialize OpenGL: %v", err)
	}

	cw, ch := window.GetFramebufferSize()
	application := app.NewApp(
		window,
		app.NewView(cw, ch),
		opts,
		seed(),
	)
	defer application.Buffer.Cleanup()

	// Start with two images around the center of the canvas.
	application.Populate(geom.MakePoint(float64(cw)/2.0, float64(ch)/2.0))

	// Initialize event handlers.
	eventHandlers := NewEventHandlers(application)

	background := palette.Floats(application.Renderer.Theme().Background)
	frameCount, frameTimeSum := 0, 0.0
	lastFPSUpdate := time.Now()
	var lastTitle string

	// Main loop.
	for !application.Window.ShouldClose() {
		frameStart := time.Now()

		eventHandlers.handleContinuousPanning()

		w, h := application.Window.GetFramebufferSize()
		application.Frame(w, h)

		gl.Viewport(0, 0, int32(w), int32(h))
		gl.ClearColor(background[0], background[1], background[2], background[3])
		gl.Clear(gl.COLOR_BUFFER_BIT)

		application.Renderer.Draw()
		application.Window.SwapBuffers()
		glfw.PollEvents()

		frameTime := time.Since(frameStart).Seconds() * 1000.0 // ms
		frameTimeSum += frameTime

		frameCount++
		now := time.Now()
		if title := application.Title(); title != lastTitle || now.Sub(lastFPSUpdate) >= time.Second {
			lastTitle = title
			elapsed := now.Sub(lastFPSUpdate).Seconds()
			fps := float64(frameCount) / elapsed
			avgFrameTime := frameTimeSum / float64(frameCount)

			memStats := application.Buffer.Stats()
			renderStats := application.Renderer.Stats()
			application.Window.SetTitle(
				makeTitle(title, fps, avgFrameTime, renderStats, memStats),
			)
			if elapsed < 1 {
				continue
			}
			frameCount, frameTimeSum = 0, 0.0
			lastFPSUpdate = now

			runtimeLogger.Println("=== Performance statistics ===")
			runtimeLogger.Printf("Frame rate:     %.1f FPS (%.2f ms/frame, %d draw calls/frame)", fps, avgFrameTime, memStats.DrawCallsPerFrame)
			runtimeLogger.Printf("Scene:          %d objects, %d triangles, %d vertices", len(application.Canvas.Objects()), renderStats.Triangles, memStats.Vertices)
			runtimeLogger.Printf("GPU memory:     %.2f MiB", float64(memStats.GPUBytes)/(1024.0*1024.0))
			runtimeLogger.Printf("Render time:    %.2f µs (last draw), %.2f ms (last prepare)", renderStats.LastDrawTimeUs, renderStats.LastPrepareTimeMs)
			runtimeLogger.Printf("Crop:           %s", application.Title())
			runtimeLogger.Println("==============================")

			application.Buffer.PrintStats()
		}
	}
}

func seed() int64 {
	seedStr := os.Getenv("CROPPER_SEED")
	now := time.Now().Unix()
	if seedStr == "" {
		return now
	}
	seed, err := strconv.ParseInt(seedStr, 10, 64)
	if err != nil {
		log.Fatalf("Invalid CROPPER_SEED value '%s': %v", seedStr, err)
	}
	return seed
}

// options builds the crop options from flags, overridden by environment
// variables where set.
func options() crop.Options {
	opts := crop.Options{
		MinWidth:             *minWidth,
		MinHeight:            *minHeight,
		CornerLength:         *cornerLength,
		CornerWidth:          *cornerWidth,
		OriginalImageOpacity: *originalOpaque,
	}
	for _, o := range []struct {
		env string
		dst *float64
	}{
		{"CROPPER_MIN_WIDTH", &opts.MinWidth},
		{"CROPPER_MIN_HEIGHT", &opts.MinHeight},
		{"CROPPER_CORNER_LENGTH", &opts.CornerLength},
		{"CROPPER_CORNER_WIDTH", &opts.CornerWidth},
		{"CROPPER_ORIGINAL_OPACITY", &opts.OriginalImageOpacity},
	} {
		str := os.Getenv(o.env)
		if str == "" {
			continue
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			log.Fatalf("Invalid %s value '%s': %v", o.env, str, err)
		}
		*o.dst = v
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid crop options: %v", err)
	}
	return opts
}
