// Package analysis summarises time series recorded from particle runs.
//
//   - [EnergySeries]: kinetic or total energy per snapshot
//   - [Summarize]: mean, spread and drift of a series
//   - [PowerSpectrum], [DominantFrequency]: oscillation content of a series
//
// Frequencies are in cycles per frame when the sample interval passed in is
// the snapshot interval in frames.
package analysis
