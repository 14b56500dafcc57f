// rigtool is a CLI utility for validating and profiling rig description files.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/Faultbox/armature/internal/scene"
	"github.com/Faultbox/armature/pkg/ik"
	"github.com/Faultbox/armature/pkg/skeleton"
)

var (
	phase  float32
	steps  int
	frames int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rigtool",
		Short: "armature rig description utility",
	}

	validateCmd := &cobra.Command{
		Use:   "validate [rig.yaml]",
		Short: "check a rig description against the demo humanoid",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runValidate,
	}

	poseCmd := &cobra.Command{
		Use:   "pose [rig.yaml]",
		Short: "solve one pose and print the bone positions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPose,
	}
	poseCmd.Flags().Float32Var(&phase, "phase", 0, "target animation phase (radians)")
	poseCmd.Flags().IntVar(&steps, "steps", 1, "solver steps to run")

	benchCmd := &cobra.Command{
		Use:   "bench [rig.yaml]",
		Short: "profile solver steps over an animated target cycle",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 240, "frames to profile")

	rootCmd.AddCommand(validateCmd, poseCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadComponents builds the rig description at path, or the built-in
// full-body rig when path is empty.
func loadComponents(path string) ([]ik.Component, ik.Settings, error) {
	if path == "" {
		return scene.DefaultComponents(), ik.DefaultSettings(), nil
	}

	rc, err := ik.LoadRigConfig(path)
	if err != nil {
		return nil, ik.Settings{}, err
	}
	components, err := rc.Build()
	if err != nil {
		return nil, ik.Settings{}, err
	}
	return components, rc.Settings, nil
}

func argPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func describe(path string) string {
	if path == "" {
		return "(built-in)"
	}
	return path
}

func solverName(c ik.Component) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", c), "*ik.")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := argPath(args)
	components, _, err := loadComponents(path)
	if err != nil {
		return err
	}

	root, _ := scene.New()
	rig := ik.NewRig(root)

	fmt.Printf("rig: %s\n", describe(path))
	fmt.Printf("solvers: %d\n\n", len(components))

	failed := 0
	for i, c := range components {
		if err := c.Initialize(rig); err != nil {
			fmt.Printf("  %d  %-20s %v\n", i+1, solverName(c), err)
			failed++
			continue
		}
		fmt.Printf("  %d  %-20s ok\n", i+1, solverName(c))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d solvers failed to initialize", failed, len(components))
	}

	fmt.Println("\nall solvers initialized")
	return nil
}

func runPose(cmd *cobra.Command, args []string) error {
	path := argPath(args)
	components, settings, err := loadComponents(path)
	if err != nil {
		return err
	}

	root, targets := scene.New()
	solver := ik.New(root)
	for _, c := range components {
		solver.Add(c)
	}

	targets.Pose(phase)
	for i := 0; i < steps; i++ {
		solver.Step(settings)
	}

	fmt.Printf("rig: %s\n", describe(path))
	fmt.Printf("phase: %.3f, steps: %d\n\n", phase, steps)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BONE\tX\tY\tZ")

	hips := root.FindDescendant(skeleton.BoneHips)
	hips.Walk(func(n *skeleton.Node) {
		p := n.WorldPosition()
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\n", n.Name, p.X, p.Y, p.Z)
	})

	return w.Flush()
}

func runBench(cmd *cobra.Command, args []string) error {
	if frames < 1 {
		return fmt.Errorf("frames must be positive")
	}

	path := argPath(args)
	components, settings, err := loadComponents(path)
	if err != nil {
		return err
	}

	root, targets := scene.New()
	solver := ik.New(root)
	for _, c := range components {
		solver.Add(c)
	}

	fmt.Printf("rig: %s\n", describe(path))
	fmt.Printf("profiling %d frames...\n\n", frames)

	samples := make([]float64, frames)
	var total time.Duration
	min := time.Duration(-1)
	max := time.Duration(0)

	for i := range samples {
		targets.Pose(float32(i) * 0.05)

		start := time.Now()
		solver.Step(settings)
		elapsed := time.Since(start)

		samples[i] = float64(elapsed.Microseconds())
		total += elapsed
		if min < 0 || elapsed < min {
			min = elapsed
		}
		if elapsed > max {
			max = elapsed
		}
	}

	graph := asciigraph.Plot(samples,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("solver step time (µs)"),
	)
	fmt.Println(graph)
	fmt.Println()

	fmt.Printf("frames: %d\n", frames)
	fmt.Printf("min:    %v\n", min)
	fmt.Printf("avg:    %v\n", total/time.Duration(frames))
	fmt.Printf("max:    %v\n", max)

	return nil
}
