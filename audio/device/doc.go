// Package device defines the period-at-a-time capture and playback contract
// the pipeline drives, plus simulated devices that satisfy it.
//
// Real hardware bindings live outside this module. The simulated devices
// run on a Pacer so that a source produces one period every period/rate
// seconds, which is how a hardware clock would deliver them.
package device
