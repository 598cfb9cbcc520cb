package app

import (
	"testing"

	"github.com/gonewx/ghostframe/pkg/config"
	"github.com/gonewx/ghostframe/pkg/game"
	"github.com/gonewx/ghostframe/pkg/geom"
	"github.com/stretchr/testify/assert"
)

func TestDesktopRigInitialPose(t *testing.T) {
	rig := NewDesktopRig(geom.V(0, config.PlayerEyeHeight, 0), nil)

	pos, rot := rig.Pose()
	assert.Equal(t, geom.V(0, config.PlayerEyeHeight, 0), pos)
	f := rot.Forward()
	assert.InDelta(t, 0, f.X, 1e-9)
	assert.InDelta(t, 0, f.Y, 1e-9)
	assert.InDelta(t, 1, f.Z, 1e-9)
}

func TestDesktopRigWalk(t *testing.T) {
	tests := []struct {
		name    string
		yaw     float64
		forward float64
		strafe  float64
		want    geom.Vec3
	}{
		{"向前", 0, 1, 0, geom.V(0, 0, config.PlayerWalkSpeed)},
		{"向后", 0, -1, 0, geom.V(0, 0, -config.PlayerWalkSpeed)},
		{"向右平移", 0, 0, 1, geom.V(config.PlayerWalkSpeed, 0, 0)},
		{"右转后向前", 90, 1, 0, geom.V(config.PlayerWalkSpeed, 0, 0)},
		{"右转后向右平移", 90, 0, 1, geom.V(0, 0, -config.PlayerWalkSpeed)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := NewDesktopRig(geom.Zero, nil)
			rig.Turn(tt.yaw, 0)
			rig.Walk(tt.forward, tt.strafe, 1)

			pos, _ := rig.Pose()
			assert.InDelta(t, tt.want.X, pos.X, 1e-9)
			assert.InDelta(t, tt.want.Y, pos.Y, 1e-9)
			assert.InDelta(t, tt.want.Z, pos.Z, 1e-9)
		})
	}
}

func TestDesktopRigDiagonalNotFaster(t *testing.T) {
	rig := NewDesktopRig(geom.Zero, nil)
	rig.Walk(1, 1, 1)

	pos, _ := rig.Pose()
	assert.InDelta(t, config.PlayerWalkSpeed, pos.Length(), 1e-9)
}

func TestDesktopRigTurnMatchesForward(t *testing.T) {
	rig := NewDesktopRig(geom.Zero, nil)
	rig.Turn(90, 0)

	_, rot := rig.Pose()
	f := rot.Forward()
	assert.InDelta(t, 1, f.X, 1e-9)
	assert.InDelta(t, 0, f.Z, 1e-9)

	// 抬头时前方向量向上
	rig.Turn(0, 30)
	_, rot = rig.Pose()
	assert.Greater(t, rot.Forward().Y, 0.0)
}

func TestDesktopRigPitchClamp(t *testing.T) {
	rig := NewDesktopRig(geom.Zero, nil)

	rig.Turn(0, 200)
	assert.Equal(t, config.MaxPitch, rig.Pitch())

	rig.Turn(0, -500)
	assert.Equal(t, -config.MaxPitch, rig.Pitch())
}

func TestDesktopRigYawWraps(t *testing.T) {
	rig := NewDesktopRig(geom.Zero, nil)

	rig.Turn(270, 0)
	assert.InDelta(t, -90, rig.Yaw(), 1e-9)

	rig.Turn(-180, 0)
	assert.InDelta(t, 90, rig.Yaw(), 1e-9)
}

func TestDesktopRigInvertFreeLook(t *testing.T) {
	settings := game.NewSettingsManager(nil)
	settings.SetInvertFreeLook(true)
	rig := NewDesktopRig(geom.Zero, settings)

	rig.Turn(0, 20)
	assert.InDelta(t, -20, rig.Pitch(), 1e-9)
}

func TestDesktopRigSetPoseRoundTrip(t *testing.T) {
	rig := NewDesktopRig(geom.Zero, nil)
	rig.Turn(45, 10)
	_, rot := rig.Pose()

	other := NewDesktopRig(geom.Zero, nil)
	other.SetPose(geom.V(1, 2, 3), rot)

	pos, _ := other.Pose()
	assert.Equal(t, geom.V(1, 2, 3), pos)
	assert.InDelta(t, 45, other.Yaw(), 1e-6)
	assert.InDelta(t, 10, other.Pitch(), 1e-6)
}

func TestDesktopRigReset(t *testing.T) {
	rig := NewDesktopRig(geom.Zero, nil)
	rig.Turn(30, 20)
	rig.Walk(1, 0, 2)

	rig.Reset(geom.V(0, 1.6, 0))

	pos, _ := rig.Pose()
	assert.Equal(t, geom.V(0, 1.6, 0), pos)
	assert.Zero(t, rig.Yaw())
	assert.Zero(t, rig.Pitch())
}

func TestViewfinderToggle(t *testing.T) {
	v := NewViewfinder(config.DefaultEncounterConfig().Camera)
	assert.False(t, v.Enabled())

	v.UseDetectionCamera(true)
	assert.True(t, v.Enabled())

	v.UseDetectionCamera(false)
	assert.False(t, v.Enabled())
}

func TestGamepadHapticsIgnoresEmptyPulse(t *testing.T) {
	h := &GamepadHaptics{}
	assert.NotPanics(t, func() {
		h.Pulse(0, 0.1)
		h.Pulse(0.5, 0)
	})
}
