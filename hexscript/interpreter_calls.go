package hexscript

// evalCallExpr implements §4.2's call resolution order:
//  1. identifier bound to a Callback in scope -> invoke locally.
//  2. member-call on a primitive whose method is in the built-in table
//     for the receiver's type -> dispatch to the built-in.
//  3. otherwise, the callee name is a remote function -> suspend on
//     the bridge.
//
// A callee expression that evaluates to a Callback value through any
// other path (a callback stored in an object/array slot, or returned
// from another call) is also invoked locally — this generalizes case 1
// to "the callee value is a Callback", which is the only reading under
// which a callback passed around as a value remains callable.
func (exec *Execution) evalCallExpr(call *CallExpr, env *Scope) (Value, error) {
	args, err := exec.evalCallArgs(call, env)
	if err != nil {
		return NewNull(), err
	}

	switch callee := call.Callee.(type) {
	case *Identifier:
		if val, ok := env.Lookup(callee.Name); ok {
			if val.Kind() == KindCallback {
				return exec.invokeCallback(val.Callback(), args, call.position)
			}
		}
		return exec.callRemote(callee.Name, args, call.position)

	case *MemberExpr:
		if err := exec.checkFeature(callee.position, NoObjectNavigation, featMemberAccess); err != nil {
			return NewNull(), err
		}
		receiver, err := exec.evalExpression(callee.Object, env)
		if err != nil {
			return NewNull(), err
		}
		methodName, err := exec.memberKey(callee, env)
		if err != nil {
			return NewNull(), err
		}
		if fn, ok := lookupBuiltin(receiver.Kind(), methodName); ok {
			return fn(exec, receiver, args, call.position)
		}
		member, err := exec.getMember(receiver, callee, env)
		if err != nil {
			return NewNull(), err
		}
		if member.Kind() == KindCallback {
			return exec.invokeCallback(member.Callback(), args, call.position)
		}
		return NewNull(), exec.errorAt(call.position, ErrNoSuchMethod, "no method %q on %s", methodName, receiver.Kind())

	default:
		calleeVal, err := exec.evalExpression(call.Callee, env)
		if err != nil {
			return NewNull(), err
		}
		if calleeVal.Kind() == KindCallback {
			return exec.invokeCallback(calleeVal.Callback(), args, call.position)
		}
		return NewNull(), exec.errorAt(call.position, ErrTypeError, "value is not callable")
	}
}

func (exec *Execution) evalCallArgs(call *CallExpr, env *Scope) ([]Value, error) {
	args := make([]Value, len(call.Args))
	for i, a := range call.Args {
		val, err := exec.evalExpression(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}
	return args, nil
}

// invokeCallback pushes a fresh scope whose parent is the callback's
// captured scope (§3, §4.2). Missing args bind to null; extra args are
// discarded.
func (exec *Execution) invokeCallback(cb *Callback, args []Value, pos Position) (Value, error) {
	if len(exec.callStack) >= exec.engine.config.RecursionLimit {
		return NewNull(), exec.errorAt(pos, ErrRecursionTooDeep, "exceeded recursion limit of %d", exec.engine.config.RecursionLimit)
	}

	frameName := cb.Name
	if frameName == "" {
		frameName = "<anonymous>"
	}
	exec.callStack = append(exec.callStack, StackFrame{Function: frameName, Pos: pos})
	defer func() { exec.callStack = exec.callStack[:len(exec.callStack)-1] }()

	activation := cb.Captured.Child()
	for i, name := range cb.Params {
		if i < len(args) {
			activation.Declare(name, args[i])
		} else {
			activation.Declare(name, NewNull())
		}
	}

	val, returned, err := exec.evalStatements(cb.Body.Statements, activation)
	if err != nil {
		if _, ok := err.(breakSignal); ok {
			return NewNull(), exec.errorAt(pos, ErrInternalError, "break cannot cross call boundary")
		}
		if _, ok := err.(continueSignal); ok {
			return NewNull(), exec.errorAt(pos, ErrInternalError, "continue cannot cross call boundary")
		}
		return NewNull(), err
	}
	if returned {
		return val, nil
	}
	return val, nil
}

// callRemote suspends the current evaluation on the remote-function
// bridge (§4.4) and classifies its outcome into the §7 error kinds.
func (exec *Execution) callRemote(name string, args []Value, pos Position) (Value, error) {
	result, err := exec.remote.CallRemote(exec.ctx, name, args, exec.secretContext)
	if err == nil {
		return result, nil
	}
	switch e := err.(type) {
	case *RemoteFunctionNotFoundError:
		return NewNull(), exec.errorAt(pos, ErrFunctionNotFound, "%s", e.Name)
	case *RemoteCallError:
		return NewNull(), exec.errorAt(pos, ErrRemoteError, "%s", e.Message)
	case *RemoteTimeoutError:
		return NewNull(), exec.errorAt(pos, ErrTimeout, "%s", e.Name)
	default:
		return NewNull(), exec.errorAt(pos, ErrInternalError, "%s", err.Error())
	}
}
