// Package kweighting implements the ITU-R BS.1770 K-weighting filter: a
// high-frequency shelving pre-filter modelling the acoustic effect of the head,
// cascaded with the revised low-frequency B-curve (RLB) high-pass.
//
// [Design] derives both stages from their analog prototypes for a given sample
// rate. [NewFilter] picks the fastest registered kernel for the running CPU
// once; the choice never changes per sample and every kernel yields the same
// output.
package kweighting
