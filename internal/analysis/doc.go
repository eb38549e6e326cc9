// Package analysis looks at recorded runs after the fact.
//
//   - [PowerSpectrum] and [DominantPeriod]: how fast the free end sways
//   - [Crossings] and [CrossingPeriod]: the same, counted in the time domain
//   - [PathToASCII]: the path a particle traced, as a character plot
package analysis
