package main

import (
	"go.uber.org/zap/zapcore"

	"github.com/milk9111/touchbrawler/system"
)

type enemyTrace struct {
	*system.EnemyAgent
}

func (t enemyTrace) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	pos := t.Position()
	enc.AddString("id", t.ID())
	enc.AddString("state", t.State().String())
	enc.AddFloat64("x", pos.X)
	enc.AddFloat64("z", pos.Z)
	enc.AddFloat64("distance", t.Distance())
	enc.AddInt("waypoint", t.Index())
	enc.AddInt("attacks", t.Animator.TriggerCount("StartAttack"))
	return nil
}
