package callback

import (
	"errors"
	"sync/atomic"
)

// ErrAlreadyRegistered is returned by SetMethod after the first registration.
var ErrAlreadyRegistered = errors.New("callback method already registered")

// VMContext is an opaque handle identifying the calling VM instance.
type VMContext uintptr

// Method is the VM entry point. The VM may write results back into args.
type Method interface {
	CallInt(vm VMContext, methodID int32, args []Arg) int32
}

// MethodFunc adapts a function to Method.
type MethodFunc func(vm VMContext, methodID int32, args []Arg) int32

// CallInt calls f.
func (f MethodFunc) CallInt(vm VMContext, methodID int32, args []Arg) int32 {
	return f(vm, methodID, args)
}

type methodBox struct{ m Method }

// Dispatcher owns the process-wide method table. Register the method once at
// startup; it is read-only afterwards and safe to read from any goroutine.
//
// Invoking before SetMethod is a precondition violation and panics.
type Dispatcher struct {
	method atomic.Pointer[methodBox]
}

// SetMethod registers the VM entry point. Only the first call succeeds.
func (d *Dispatcher) SetMethod(m Method) error {
	if m == nil {
		return errors.New("nil callback method")
	}
	if !d.method.CompareAndSwap(nil, &methodBox{m: m}) {
		return ErrAlreadyRegistered
	}
	return nil
}

// Registered reports whether a method has been set.
func (d *Dispatcher) Registered() bool {
	return d.method.Load() != nil
}

// Invoke packs call, sends it to the VM under customID and decodes the
// reply. For measure calls Result.Size comes from slots 0 and 1.
func (d *Dispatcher) Invoke(vm VMContext, customID int32, call Call) Result {
	args := call.Args()
	status := d.method.Load().m.CallInt(vm, customID, args)
	res := Result{Status: status}
	if call.Op == OpMeasure {
		res.Size.Width = args[0].F32()
		res.Size.Height = args[1].F32()
	}
	return res
}

// InvokeRaw sends pre-packed arguments. It is used by callers outside the
// phase protocol, such as lazy range updaters.
func (d *Dispatcher) InvokeRaw(vm VMContext, methodID int32, args []Arg) int32 {
	return d.method.Load().m.CallInt(vm, methodID, args)
}
