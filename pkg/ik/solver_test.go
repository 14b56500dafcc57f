package ik

import (
	"errors"
	"testing"

	"github.com/Faultbox/armature/pkg/math"
	"github.com/Faultbox/armature/pkg/skeleton"
)

func humanoidWithTarget(name string, at math.Vec3) (*skeleton.Node, *skeleton.Node) {
	root := skeleton.NewHumanoid()
	target := root.NewChild(name)
	target.Position = at
	return root, target
}

func worldOf(t *testing.T, root *skeleton.Node, name string) math.Vec3 {
	t.Helper()
	bone := root.FindDescendant(name)
	if bone == nil {
		t.Fatalf("bone %q not found", name)
	}
	return bone.WorldPosition()
}

func TestSolverStepTrigonometry(t *testing.T) {
	root, target := humanoidWithTarget("leftHandTarget", math.Vec3{X: 0.5, Y: 1.2, Z: 0.1})

	solver := New(root)
	solver.Add(NewTrigonometrySolver(
		skeleton.BoneLeftUpperArm, skeleton.BoneLeftLowerArm, skeleton.BoneLeftHand,
		"leftHandTarget"))
	solver.Step(DefaultSettings())

	hand := worldOf(t, root, skeleton.BoneLeftHand)
	if d := hand.Distance(target.WorldPosition()); d > 0.001 {
		t.Errorf("expected hand on target, got distance %f", d)
	}

	upper := worldOf(t, root, skeleton.BoneLeftUpperArm)
	lower := worldOf(t, root, skeleton.BoneLeftLowerArm)
	if !vecNear(upper, math.Vec3{X: 0.18, Y: 1.38}, 0.0001) {
		t.Errorf("expected chain root unmoved, got %v", upper)
	}
	if d := lower.Distance(upper); math.Abs(d-0.26) > 0.001 {
		t.Errorf("expected upper segment length 0.26, got %f", d)
	}
	if d := hand.Distance(lower); math.Abs(d-0.24) > 0.001 {
		t.Errorf("expected lower segment length 0.24, got %f", d)
	}
}

func TestSolverStepIdempotent(t *testing.T) {
	root, _ := humanoidWithTarget("leftHandTarget", math.Vec3{X: 0.5, Y: 1.2, Z: 0.1})

	solver := New(root)
	solver.Add(NewTrigonometrySolver(
		skeleton.BoneLeftUpperArm, skeleton.BoneLeftLowerArm, skeleton.BoneLeftHand,
		"leftHandTarget"))

	solver.Step(DefaultSettings())
	hand := worldOf(t, root, skeleton.BoneLeftHand)
	lower := worldOf(t, root, skeleton.BoneLeftLowerArm)

	solver.Step(DefaultSettings())

	if got := worldOf(t, root, skeleton.BoneLeftHand); !vecNear(got, hand, 0.001) {
		t.Errorf("hand drifted from %v to %v on a steady target", hand, got)
	}
	if got := worldOf(t, root, skeleton.BoneLeftLowerArm); !vecNear(got, lower, 0.001) {
		t.Errorf("elbow drifted from %v to %v on a steady target", lower, got)
	}
}

func TestSolverSkipsBrokenComponent(t *testing.T) {
	root, target := humanoidWithTarget("headTarget", math.Vec3{X: 0.2, Y: 1.6})
	footBefore := worldOf(t, root, skeleton.BoneLeftFoot)

	solver := New(root)
	solver.Add(NewLegSolver(
		skeleton.BoneLeftUpperLeg, skeleton.BoneLeftLowerLeg, skeleton.BoneLeftFoot,
		"missingToe", "headTarget"))
	solver.Add(NewIdentitySolver(skeleton.BoneHead, "headTarget"))

	solver.Step(DefaultSettings())

	// The misconfigured leg sits out; the healthy head pin still runs.
	if got := worldOf(t, root, skeleton.BoneHead); !vecNear(got, target.WorldPosition(), 0.0001) {
		t.Errorf("expected head pinned to target, got %v", got)
	}
	if got := worldOf(t, root, skeleton.BoneLeftFoot); !vecNear(got, footBefore, 0.0001) {
		t.Errorf("expected foot untouched, got %v", got)
	}
}

func TestComponentInitializeErrors(t *testing.T) {
	root, _ := humanoidWithTarget("target", math.Vec3{Y: 1})
	rig := NewRig(root)

	leg := NewLegSolver(
		skeleton.BoneLeftUpperLeg, skeleton.BoneLeftLowerLeg, skeleton.BoneLeftFoot,
		"missingToe", "target")
	if err := leg.Initialize(rig); !errors.Is(err, ErrBoneNotFound) {
		t.Errorf("expected ErrBoneNotFound, got %v", err)
	}

	chain := NewChainSolver([]string{skeleton.BoneHips}, "target")
	if err := chain.Initialize(rig); !errors.Is(err, ErrChainTooShort) {
		t.Errorf("expected ErrChainTooShort, got %v", err)
	}

	spine := NewSpineSolver([]string{skeleton.BoneHips}, "target")
	if err := spine.Initialize(rig); !errors.Is(err, ErrChainTooShort) {
		t.Errorf("expected ErrChainTooShort, got %v", err)
	}
}

func TestIdentitySolverDerivedOffset(t *testing.T) {
	root := skeleton.NewNode("root")
	bone := root.NewChild("prop")
	bone.Position = math.Vec3{X: 1}
	bone.Rotation = math.QuatFromAxisAngle(math.Vec3{Y: 1}, math.DegToRad(45))
	anchor := root.NewChild("anchor")
	anchor.Position = math.Vec3{X: 2, Y: 0.5}
	anchor.Rotation = math.QuatFromAxisAngle(math.Vec3{Z: 1}, math.DegToRad(30))

	solver := New(root)
	solver.Add(NewIdentitySolver("prop", "anchor"))
	solver.Step(DefaultSettings())

	if got := bone.WorldPosition(); !vecNear(got, math.Vec3{X: 2, Y: 0.5}, 0.0001) {
		t.Errorf("expected bone at the anchor, got %v", got)
	}

	// The derived offset reproduces the bone's own axes on top of the
	// anchor rotation. Compare rotated bases, not raw quaternions.
	want := anchor.Rotation.Mul(math.QuatFromAxisAngle(math.Vec3{Y: 1}, math.DegToRad(45)))
	got := bone.WorldRotation()
	for _, basis := range []math.Vec3{{X: 1}, {Y: 1}, {Z: 1}} {
		if !vecNear(got.Rotate(basis), want.Rotate(basis), 0.001) {
			t.Errorf("axis %v carried to %v, expected %v", basis, got.Rotate(basis), want.Rotate(basis))
		}
	}
}

func TestSolverStepLegToeOnTarget(t *testing.T) {
	root, target := humanoidWithTarget("leftFootTarget", math.Vec3{X: 0.10, Y: 0.15, Z: 0.20})

	solver := New(root)
	solver.Add(NewLegSolver(
		skeleton.BoneLeftUpperLeg, skeleton.BoneLeftLowerLeg, skeleton.BoneLeftFoot,
		skeleton.BoneLeftToes, "leftFootTarget"))
	solver.Step(DefaultSettings())

	toes := worldOf(t, root, skeleton.BoneLeftToes)
	if d := toes.Distance(target.WorldPosition()); d > 0.001 {
		t.Errorf("expected toes on target, got distance %f", d)
	}

	thigh := worldOf(t, root, skeleton.BoneLeftUpperLeg)
	calf := worldOf(t, root, skeleton.BoneLeftLowerLeg)
	heel := worldOf(t, root, skeleton.BoneLeftFoot)
	if !vecNear(thigh, math.Vec3{X: 0.10, Y: 0.85}, 0.0001) {
		t.Errorf("expected thigh unmoved, got %v", thigh)
	}
	if d := calf.Distance(thigh); math.Abs(d-0.40) > 0.001 {
		t.Errorf("expected thigh length 0.40, got %f", d)
	}
	if d := heel.Distance(calf); math.Abs(d-0.37) > 0.001 {
		t.Errorf("expected calf length 0.37, got %f", d)
	}
	if d := toes.Distance(heel); math.Abs(d-0.152315) > 0.001 {
		t.Errorf("expected foot length 0.1523, got %f", d)
	}
}

func TestLegSolverHypothesisEndpoints(t *testing.T) {
	root, target := humanoidWithTarget("leftFootTarget", math.Vec3{X: 0.10, Y: 0.15, Z: 0.20})

	rig := NewRig(root)
	leg := NewLegSolver(
		skeleton.BoneLeftUpperLeg, skeleton.BoneLeftLowerLeg, skeleton.BoneLeftFoot,
		skeleton.BoneLeftToes, "leftFootTarget")
	if err := leg.Initialize(rig); err != nil {
		t.Fatal(err)
	}
	leg.UpdateLengths()
	rig.Arena().Snapshot()

	toeTarget := target.WorldPosition()
	bend := leg.currentBendDirection(toeTarget)
	straight := leg.footDirectionStraight(toeTarget, bend)
	bent := leg.footDirectionBent(toeTarget, bend)

	footLength := float32(0.152315)
	if math.Abs(straight.Length()-footLength) > 0.001 {
		t.Errorf("expected grounded offset of foot length, got %f", straight.Length())
	}
	if math.Abs(bent.Length()-footLength) > 0.001 {
		t.Errorf("expected bent offset of foot length, got %f", bent.Length())
	}

	// Weight 0 puts the heel exactly on the grounded hypothesis.
	leg.BendWeight = 0
	leg.Solve(DefaultSettings())
	if got := leg.legChain.EndNode().Position; !vecNear(got, toeTarget.Add(straight), 0.001) {
		t.Errorf("expected heel at %v, got %v", toeTarget.Add(straight), got)
	}

	// Weight 1 puts it on the bent hypothesis.
	rig.Arena().Snapshot()
	leg.BendWeight = 1
	leg.Solve(DefaultSettings())
	if got := leg.legChain.EndNode().Position; !vecNear(got, toeTarget.Add(bent), 0.001) {
		t.Errorf("expected heel at %v, got %v", toeTarget.Add(bent), got)
	}
}

func TestLegSolverBendWeightBlends(t *testing.T) {
	toeTarget := math.Vec3{X: 0.10, Y: 0.15, Z: 0.20}

	solveHeelDir := func(weight float32) math.Vec3 {
		root, _ := humanoidWithTarget("leftFootTarget", toeTarget)
		leg := NewLegSolver(
			skeleton.BoneLeftUpperLeg, skeleton.BoneLeftLowerLeg, skeleton.BoneLeftFoot,
			skeleton.BoneLeftToes, "leftFootTarget")
		leg.BendWeight = weight

		solver := New(root)
		solver.Add(leg)
		solver.Step(DefaultSettings())

		return worldOf(t, root, skeleton.BoneLeftFoot).Sub(toeTarget)
	}

	grounded := solveHeelDir(0)
	half := solveHeelDir(0.5)
	lifted := solveHeelDir(1)

	full := grounded.Angle(lifted)
	if full < 1 {
		t.Fatalf("expected hypotheses far apart, got %f radians", full)
	}
	if got := grounded.Angle(half); math.Abs(got-full/2) > 0.02 {
		t.Errorf("expected half weight halfway along the arc, got %f of %f", got, full)
	}
	for _, dir := range []math.Vec3{grounded, half, lifted} {
		if math.Abs(dir.Length()-0.152315) > 0.001 {
			t.Errorf("expected heel at foot length from the toe, got %f", dir.Length())
		}
	}
}

func TestSolverStepArmDefaultWeight(t *testing.T) {
	root, target := humanoidWithTarget("leftHandTarget", math.Vec3{X: 0.5, Y: 1.2, Z: 0.1})

	solver := New(root)
	solver.Add(NewArmSolver(
		skeleton.BoneLeftShoulder, skeleton.BoneLeftUpperArm, skeleton.BoneLeftLowerArm,
		skeleton.BoneLeftHand, "leftHandTarget"))
	solver.Step(DefaultSettings())

	// Zero shoulder weight keeps the shoulder still; the arm chain does
	// all the reaching.
	if got := worldOf(t, root, skeleton.BoneLeftUpperArm); !vecNear(got, math.Vec3{X: 0.18, Y: 1.38}, 0.0001) {
		t.Errorf("expected upper arm unmoved, got %v", got)
	}
	if got := worldOf(t, root, skeleton.BoneLeftShoulder); !vecNear(got, math.Vec3{X: 0.06, Y: 1.38}, 0.0001) {
		t.Errorf("expected shoulder unmoved, got %v", got)
	}
	hand := worldOf(t, root, skeleton.BoneLeftHand)
	if d := hand.Distance(target.WorldPosition()); d > 0.001 {
		t.Errorf("expected hand on target, got distance %f", d)
	}
}

func TestArmSolverFullShoulderWeight(t *testing.T) {
	handTarget := math.Vec3{X: 0.5, Y: 1.2, Z: 0.1}
	root, _ := humanoidWithTarget("leftHandTarget", handTarget)
	shoulderPos := worldOf(t, root, skeleton.BoneLeftShoulder)

	arm := NewArmSolver(
		skeleton.BoneLeftShoulder, skeleton.BoneLeftUpperArm, skeleton.BoneLeftLowerArm,
		skeleton.BoneLeftHand, "leftHandTarget")
	arm.ShoulderWeight = math.Vec2{X: 1, Y: 1}

	solver := New(root)
	solver.Add(arm)
	solver.Step(DefaultSettings())

	// Full weight points the shoulder segment straight at the target.
	armWant := shoulderPos.Add(handTarget.Sub(shoulderPos).Renormalized(0.12, 0.12))
	if got := worldOf(t, root, skeleton.BoneLeftUpperArm); !vecNear(got, armWant, 0.001) {
		t.Errorf("expected upper arm at %v, got %v", armWant, got)
	}
	if got := worldOf(t, root, skeleton.BoneLeftShoulder); !vecNear(got, shoulderPos, 0.0001) {
		t.Errorf("expected shoulder pivot fixed, got %v", got)
	}

	hand := worldOf(t, root, skeleton.BoneLeftHand)
	if d := hand.Distance(handTarget); d > 0.001 {
		t.Errorf("expected hand on target, got distance %f", d)
	}
	lower := worldOf(t, root, skeleton.BoneLeftLowerArm)
	upper := worldOf(t, root, skeleton.BoneLeftUpperArm)
	if d := lower.Distance(upper); math.Abs(d-0.26) > 0.001 {
		t.Errorf("expected upper segment length 0.26, got %f", d)
	}
	if d := hand.Distance(lower); math.Abs(d-0.24) > 0.001 {
		t.Errorf("expected lower segment length 0.24, got %f", d)
	}
}

func TestSolverStepSpineColumn(t *testing.T) {
	root, _ := humanoidWithTarget("spineTarget", math.Vec3{Y: 1.2, Z: 0.8})

	solver := New(root)
	solver.Add(NewSpineSolver(
		[]string{skeleton.BoneHips, skeleton.BoneSpine, skeleton.BoneChest, skeleton.BoneNeck},
		"spineTarget"))
	solver.Step(DefaultSettings())

	hips := worldOf(t, root, skeleton.BoneHips)
	chest := worldOf(t, root, skeleton.BoneChest)
	neck := worldOf(t, root, skeleton.BoneNeck)

	if !vecNear(hips, math.Vec3{Y: 0.90}, 0.0001) {
		t.Errorf("expected hips unmoved, got %v", hips)
	}
	if neck.Z < 0.2 {
		t.Errorf("expected neck leaning toward +Z, got %v", neck)
	}
	if math.Abs(neck.X) > 0.0001 {
		t.Errorf("expected bend in the YZ plane, got %v", neck)
	}
	if d := neck.Distance(chest); math.Abs(d-0.25) > 0.001 {
		t.Errorf("expected chest segment length 0.25, got %f", d)
	}
}

func TestSolverStepChainReachesTarget(t *testing.T) {
	root, target := humanoidWithTarget("leftHandTarget", math.Vec3{X: 0.5, Y: 1.2, Z: 0.1})

	solver := New(root)
	solver.Add(NewChainSolver(
		[]string{skeleton.BoneLeftUpperArm, skeleton.BoneLeftLowerArm, skeleton.BoneLeftHand},
		"leftHandTarget"))
	solver.Step(Settings{MaxIterations: 50, Tolerance: 0.00001})

	hand := worldOf(t, root, skeleton.BoneLeftHand)
	if d := hand.Distance(target.WorldPosition()); d > 0.001 {
		t.Errorf("expected hand on target, got distance %f", d)
	}
	upper := worldOf(t, root, skeleton.BoneLeftUpperArm)
	lower := worldOf(t, root, skeleton.BoneLeftLowerArm)
	if d := lower.Distance(upper); math.Abs(d-0.26) > 0.001 {
		t.Errorf("expected upper segment length 0.26, got %f", d)
	}
	if d := hand.Distance(lower); math.Abs(d-0.24) > 0.001 {
		t.Errorf("expected lower segment length 0.24, got %f", d)
	}
}

func TestSolverMarkDirtyRecovers(t *testing.T) {
	root := skeleton.NewHumanoid()
	headBefore := worldOf(t, root, skeleton.BoneHead)

	solver := New(root)
	solver.Add(NewIdentitySolver(skeleton.BoneHead, "headTarget"))
	solver.Step(DefaultSettings())

	if got := worldOf(t, root, skeleton.BoneHead); !vecNear(got, headBefore, 0.0001) {
		t.Fatalf("expected head untouched while the target is missing, got %v", got)
	}

	target := root.NewChild("headTarget")
	target.Position = math.Vec3{X: 0.2, Y: 1.6}
	solver.MarkDirty()
	solver.Step(DefaultSettings())

	if got := worldOf(t, root, skeleton.BoneHead); !vecNear(got, target.WorldPosition(), 0.0001) {
		t.Errorf("expected head pinned after the rebuild, got %v", got)
	}
}

func BenchmarkSolverStep(b *testing.B) {
	root := skeleton.NewHumanoid()
	place := func(name string, at math.Vec3) {
		n := root.NewChild(name)
		n.Position = at
	}
	place("leftFootTarget", math.Vec3{X: 0.10, Y: 0.15, Z: 0.20})
	place("rightFootTarget", math.Vec3{X: -0.10, Y: 0.15, Z: 0.20})
	place("leftHandTarget", math.Vec3{X: 0.5, Y: 1.2, Z: 0.1})
	place("rightHandTarget", math.Vec3{X: -0.5, Y: 1.2, Z: 0.1})
	place("spineTarget", math.Vec3{Y: 1.2, Z: 0.5})
	place("headTarget", math.Vec3{Y: 1.55, Z: 0.1})

	solver := New(root)
	solver.Add(NewSpineSolver(
		[]string{skeleton.BoneHips, skeleton.BoneSpine, skeleton.BoneChest, skeleton.BoneNeck},
		"spineTarget"))
	solver.Add(NewLegSolver(
		skeleton.BoneLeftUpperLeg, skeleton.BoneLeftLowerLeg, skeleton.BoneLeftFoot,
		skeleton.BoneLeftToes, "leftFootTarget"))
	solver.Add(NewLegSolver(
		skeleton.BoneRightUpperLeg, skeleton.BoneRightLowerLeg, skeleton.BoneRightFoot,
		skeleton.BoneRightToes, "rightFootTarget"))
	solver.Add(NewArmSolver(
		skeleton.BoneLeftShoulder, skeleton.BoneLeftUpperArm, skeleton.BoneLeftLowerArm,
		skeleton.BoneLeftHand, "leftHandTarget"))
	solver.Add(NewArmSolver(
		skeleton.BoneRightShoulder, skeleton.BoneRightUpperArm, skeleton.BoneRightLowerArm,
		skeleton.BoneRightHand, "rightHandTarget"))
	solver.Add(NewIdentitySolver(skeleton.BoneHead, "headTarget"))

	settings := DefaultSettings()
	solver.Step(settings)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		solver.Step(settings)
	}
}
