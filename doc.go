/*
Package moore is an editable Moore machine with batch and step-by-step word processing.

A Moore machine attaches an output symbol to every state. Each step follows the transition for
the current input symbol and emits the output of the state it lands on, so a word of n symbols
yields n output symbols.

# Concept

The automaton is edited through a session.Manager. Every successful mutation publishes one typed
event on a notify.Bus, which is how renderers, metrics and the HTTP event stream stay in sync.
Words are processed either in batch (Engine.Process) or one symbol at a time through the live
session (Manager.StartLive, Manager.StepLive).

# Usage

	engine, err := moore.New(ctx, moore.WithDefaultGraph())
	if err != nil {
		log.Fatal(err)
	}

	res, err := engine.Process("101")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Output)

Definitions can be loaded from YAML or JSON with WithDefinition, and snapshots can be persisted
with any ports.SnapshotStore (memory, file or redis adapters).
*/
package moore
