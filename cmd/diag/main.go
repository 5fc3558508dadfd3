package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/OpenSciViz/zodipy/internal/coords"
	"github.com/OpenSciViz/zodipy/internal/emission"
	"github.com/OpenSciViz/zodipy/internal/ephem"
	"github.com/OpenSciViz/zodipy/internal/ipd"
)

// Computes an ecliptic-plane elongation strip in the 25 um DIRBE band and
// prints the per-component radiance, as a quick end-to-end sanity check of
// the model.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	model, err := ipd.Get("DIRBE")
	if err != nil {
		fmt.Println("ERROR loading model:", err)
		os.Exit(1)
	}

	provider := ephem.NewCachedProvider(ephem.NewAnalyticProvider())
	sim := emission.NewSimulator(model, provider, emission.Config{Workers: runtime.NumCPU()}, logger)

	obsTime := time.Now().UTC()
	earth, err := provider.EarthPosition(obsTime)
	if err != nil {
		fmt.Println("ERROR resolving Earth position:", err)
		os.Exit(1)
	}
	fmt.Printf("Observation time: %v\n", obsTime.Format(time.RFC3339))
	fmt.Printf("Earth at [%.4f, %.4f, %.4f] AU (r=%.4f)\n", earth.X, earth.Y, earth.Z, earth.Norm())

	// Directions in the ecliptic plane at increasing solar elongation.
	sunward := earth.Scale(-1).Normalized()
	var directions []coords.Vec3
	elongations := []float64{30, 60, 90, 120, 150, 180}
	for _, elong := range elongations {
		a := elong * math.Pi / 180
		// Rotate the sunward direction by the elongation angle in the plane.
		directions = append(directions, coords.Vec3{
			X: sunward.X*math.Cos(a) - sunward.Y*math.Sin(a),
			Y: sunward.X*math.Sin(a) + sunward.Y*math.Cos(a),
			Z: 0,
		})
	}

	result, err := sim.Emission(context.Background(), emission.Request{
		Directions: directions,
		Times:      []time.Time{obsTime},
		Frequency:  emission.Frequency{Value: 25, Unit: emission.UnitMicron},
		Options:    emission.Options{ReturnComponents: true},
	})
	if err != nil {
		fmt.Println("ERROR computing emission:", err)
		os.Exit(1)
	}

	fmt.Printf("\nZodiacal emission at %.0f GHz [MJy/sr]:\n", result.FreqGHz)
	for i, elong := range elongations {
		fmt.Printf("  elongation %3.0f deg: total=%.6f", elong, result.Radiance[i])
		for _, c := range model.Components() {
			fmt.Printf("  %s=%.6f", c.Name(), result.Components[c.Name()][i])
		}
		fmt.Println()
	}

	if len(result.Failed) > 0 {
		fmt.Printf("\n%d samples failed:\n", len(result.Failed))
		for _, f := range result.Failed {
			fmt.Printf("  sample %d: %s\n", f.Index, f.Reason)
		}
	}
}
