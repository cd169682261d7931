package orchestrator

import "errors"

// errLoopDone is a sentinel for a finished loop. No function in this
// package returns it: step reports completion through its done result,
// which Run checks after each iteration.
var errLoopDone = errors.New("orchestrator: loop done")
