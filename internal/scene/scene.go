// Package scene builds the demo humanoid, its animated targets and the
// built-in full-body rig shared by the viewer and the rig tool.
package scene

import (
	"github.com/Faultbox/armature/pkg/ik"
	"github.com/Faultbox/armature/pkg/math"
	"github.com/Faultbox/armature/pkg/skeleton"
)

// Target node names the built-in rig binds to. Rig description files
// resolved against the demo humanoid can reference them as well.
const (
	TargetLeftHand  = "leftHandTarget"
	TargetRightHand = "rightHandTarget"
	TargetLeftToe   = "leftToeTarget"
	TargetRightToe  = "rightToeTarget"
	TargetChestAim  = "chestAimTarget"
	TargetHeadPin   = "headPinTarget"
)

// TargetRig is the set of animated target nodes the demo drives. Targets
// hang off the skeleton root so solvers resolve them by name.
type TargetRig struct {
	leftHand  *skeleton.Node
	rightHand *skeleton.Node
	leftToe   *skeleton.Node
	rightToe  *skeleton.Node
	chestAim  *skeleton.Node
	headPin   *skeleton.Node
}

// New builds the humanoid plus its target nodes, posed at phase 0.
func New() (*skeleton.Node, *TargetRig) {
	root := skeleton.NewHumanoid()

	tr := &TargetRig{
		leftHand:  root.NewChild(TargetLeftHand),
		rightHand: root.NewChild(TargetRightHand),
		leftToe:   root.NewChild(TargetLeftToe),
		rightToe:  root.NewChild(TargetRightToe),
		chestAim:  root.NewChild(TargetChestAim),
		headPin:   root.NewChild(TargetHeadPin),
	}
	tr.Pose(0)

	return root, tr
}

// Pose places every target for the given animation phase (radians).
func (tr *TargetRig) Pose(p float32) {
	// Hands trace circles in front of each shoulder, half a turn apart.
	tr.leftHand.SetWorldPosition(math.Vec3{
		X: 0.30 + 0.10*math.Cos(p),
		Y: 1.15 + 0.12*math.Sin(p),
		Z: 0.25 + 0.08*math.Sin(p*0.7),
	})
	tr.rightHand.SetWorldPosition(math.Vec3{
		X: -0.30 - 0.10*math.Cos(p+math.Pi),
		Y: 1.15 + 0.12*math.Sin(p+math.Pi),
		Z: 0.25 + 0.08*math.Sin(p*0.7+math.Pi),
	})

	// Feet alternate small steps; the lift is clamped so the planted
	// half of the cycle stays on the floor.
	lift := func(s float32) float32 {
		if s < 0 {
			return 0
		}
		return s
	}
	tr.leftToe.SetWorldPosition(math.Vec3{
		X: 0.10,
		Y: 0.02 + 0.10*lift(math.Sin(p)),
		Z: 0.14 + 0.08*math.Cos(p),
	})
	tr.rightToe.SetWorldPosition(math.Vec3{
		X: -0.10,
		Y: 0.02 + 0.10*lift(math.Sin(p+math.Pi)),
		Z: 0.14 + 0.08*math.Cos(p+math.Pi),
	})

	// The chest aim sways side to side in front of the figure.
	tr.chestAim.SetWorldPosition(math.Vec3{
		X: 0.6 * math.Sin(p*0.5),
		Y: 1.25,
		Z: 0.9,
	})

	// The head pin bobs near the bind head position.
	tr.headPin.SetWorldPosition(math.Vec3{
		X: 0.10 * math.Sin(p*0.5),
		Y: 1.50 + 0.02*math.Sin(p*0.9),
		Z: 0.04 + 0.04*math.Sin(p*0.5)*math.Sin(p*0.5),
	})
}

// DefaultComponents is the built-in full-body rig: spine first so the
// limb solvers start from the swayed torso, head pin last so it wins
// for the head bone.
func DefaultComponents() []ik.Component {
	spine := ik.NewSpineSolver(
		[]string{skeleton.BoneHips, skeleton.BoneSpine, skeleton.BoneChest, skeleton.BoneNeck},
		TargetChestAim,
	)
	spine.MaxAngle = 25

	leftArm := ik.NewArmSolver(
		skeleton.BoneLeftShoulder, skeleton.BoneLeftUpperArm,
		skeleton.BoneLeftLowerArm, skeleton.BoneLeftHand,
		TargetLeftHand,
	)
	rightArm := ik.NewArmSolver(
		skeleton.BoneRightShoulder, skeleton.BoneRightUpperArm,
		skeleton.BoneRightLowerArm, skeleton.BoneRightHand,
		TargetRightHand,
	)

	leftLeg := ik.NewLegSolver(
		skeleton.BoneLeftUpperLeg, skeleton.BoneLeftLowerLeg,
		skeleton.BoneLeftFoot, skeleton.BoneLeftToes,
		TargetLeftToe,
	)
	rightLeg := ik.NewLegSolver(
		skeleton.BoneRightUpperLeg, skeleton.BoneRightLowerLeg,
		skeleton.BoneRightFoot, skeleton.BoneRightToes,
		TargetRightToe,
	)

	head := ik.NewIdentitySolver(skeleton.BoneHead, TargetHeadPin)

	return []ik.Component{spine, leftArm, rightArm, leftLeg, rightLeg, head}
}
