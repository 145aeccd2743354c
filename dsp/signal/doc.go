// Package signal generates streaming test signals. An Oscillator keeps its
// phase across blocks so consecutive periods join without a click.
package signal
