// Package signal generates deterministic test material for the tape echo.
package signal
