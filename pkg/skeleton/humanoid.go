package skeleton

import (
	"github.com/Faultbox/armature/pkg/math"
)

// Humanoid bone names follow the VRM humanoid naming convention so rigs
// built here work with rig descriptions written against VRM avatars.
const (
	BoneHips          = "hips"
	BoneSpine         = "spine"
	BoneChest         = "chest"
	BoneNeck          = "neck"
	BoneHead          = "head"
	BoneLeftShoulder  = "leftShoulder"
	BoneLeftUpperArm  = "leftUpperArm"
	BoneLeftLowerArm  = "leftLowerArm"
	BoneLeftHand      = "leftHand"
	BoneRightShoulder = "rightShoulder"
	BoneRightUpperArm = "rightUpperArm"
	BoneRightLowerArm = "rightLowerArm"
	BoneRightHand     = "rightHand"
	BoneLeftUpperLeg  = "leftUpperLeg"
	BoneLeftLowerLeg  = "leftLowerLeg"
	BoneLeftFoot      = "leftFoot"
	BoneLeftToes      = "leftToes"
	BoneRightUpperLeg = "rightUpperLeg"
	BoneRightLowerLeg = "rightLowerLeg"
	BoneRightFoot     = "rightFoot"
	BoneRightToes     = "rightToes"
)

// NewHumanoid builds a T-posed biped about 1.6 units tall, facing +Z with Y
// up and arms along the X axis. The returned root sits at the origin with
// the hips as its first child. All rotations start at identity, so the bind
// pose is the rest pose.
func NewHumanoid() *Node {
	root := NewNode("root")

	place := func(parent *Node, name string, world math.Vec3) *Node {
		n := parent.NewChild(name)
		// Identity rotations everywhere, so the local offset is just the
		// difference of world positions.
		n.Position = world.Sub(parent.WorldPosition())
		return n
	}

	hips := place(root, BoneHips, math.Vec3{X: 0, Y: 0.90, Z: 0})

	spine := place(hips, BoneSpine, math.Vec3{X: 0, Y: 1.00, Z: 0})
	chest := place(spine, BoneChest, math.Vec3{X: 0, Y: 1.15, Z: 0})
	neck := place(chest, BoneNeck, math.Vec3{X: 0, Y: 1.40, Z: 0})
	place(neck, BoneHead, math.Vec3{X: 0, Y: 1.50, Z: 0})

	buildArm := func(shoulder, upper, lower, hand string, side float32) {
		s := place(chest, shoulder, math.Vec3{X: side * 0.06, Y: 1.38, Z: 0})
		u := place(s, upper, math.Vec3{X: side * 0.18, Y: 1.38, Z: 0})
		l := place(u, lower, math.Vec3{X: side * 0.44, Y: 1.38, Z: 0})
		place(l, hand, math.Vec3{X: side * 0.68, Y: 1.38, Z: 0})
	}
	buildArm(BoneLeftShoulder, BoneLeftUpperArm, BoneLeftLowerArm, BoneLeftHand, 1)
	buildArm(BoneRightShoulder, BoneRightUpperArm, BoneRightLowerArm, BoneRightHand, -1)

	buildLeg := func(upper, lower, foot, toes string, side float32) {
		u := place(hips, upper, math.Vec3{X: side * 0.10, Y: 0.85, Z: 0})
		l := place(u, lower, math.Vec3{X: side * 0.10, Y: 0.45, Z: 0})
		f := place(l, foot, math.Vec3{X: side * 0.10, Y: 0.08, Z: 0})
		place(f, toes, math.Vec3{X: side * 0.10, Y: 0.02, Z: 0.14})
	}
	buildLeg(BoneLeftUpperLeg, BoneLeftLowerLeg, BoneLeftFoot, BoneLeftToes, 1)
	buildLeg(BoneRightUpperLeg, BoneRightLowerLeg, BoneRightFoot, BoneRightToes, -1)

	return root
}
