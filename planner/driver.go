package planner

import (
	"github.com/sdycore/reshard/collective"
	"github.com/sdycore/reshard/sharding"
)

// Plan synthesizes the minimal collective chain that reshards in into out
// over their shared mesh (spec §4.1). It is the package's main entry point;
// PlanWithEmitter is its generalization for callers supplying their own IR
// builder instead of the in-memory collective.Recorder.
func Plan(in, out *sharding.Sharding) (*collective.Chain, error) {
	rec := collective.NewRecorder()
	if err := PlanWithEmitter(in, out, rec); err != nil {
		return nil, err
	}
	return rec.Chain(), nil
}

// PlanWithEmitter runs the driver (spec §4.1) against an arbitrary Emitter,
// the seam spec §6 calls the "builder callback" external collaborator.
func PlanWithEmitter(in, out *sharding.Sharding, emitter collective.Emitter) error {
	if err := sharding.CheckCompatible(in, out); err != nil {
		return err
	}

	s := newState(in, out, emitter)

	s.tryAllSlice()
	s.tryCollectivePermute()
	s.tryAllToAlls()
	s.tryAllGather()

	if !s.isDone() {
		return ErrResidualState
	}
	return nil
}
