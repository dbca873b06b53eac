package assert

import "github.com/oomph-ac/grasp/oerror"

// IsTrue panics with a GraspError if ok is false. It guards collaborators the rig cannot run without.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

