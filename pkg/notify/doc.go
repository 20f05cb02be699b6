/*
Package notify implements the change-notification bus.

Every mutation of an automaton session is published as one domain.Event after it has
taken effect. Listeners are isolated from each other: an error or panic in one listener
is logged and reported, and delivery continues with the next one.
*/
package notify
