// Package clock provides a tiny time abstraction.
//
// Every expiry and blocking decision in this service is a comparison between a
// stored timestamp and "now", so business code depends on the Clocker
// interface instead of calling time.Now() directly. Tests swap in a fake clock
// and drive the timers deterministically.
package clock
