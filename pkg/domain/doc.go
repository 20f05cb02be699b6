/*
Package domain contains the Moore automaton model and its execution rules.

It is kept pure: no I/O, no persistence, no logging. Everything that observes or
persists an automaton lives in other packages and talks to it through the methods here.

# Key Entities

  - Automaton: ordered state set, transition table, per-state outputs, initial marker and cursor.
  - Transition: a (from, input, to) triple addressed by its position in the table.
  - Step / Result: the trace produced by ProcessWord and by live stepping.
  - Snapshot: the transition list plus the initial marker, used for restore and persistence.
  - Event: the closed set of change notifications published after every mutation.
*/
package domain
