// Package reputation turns a landlord's raw review stream into the
// signals shown next to it: a recency-weighted score, a tier, the "rated"
// credential and the star fill used by badges. It also decides whether a
// search query names exactly one landlord.
//
// Everything here is a pure function of its arguments. Callers pass the
// current time explicitly; nothing reads the wall clock or touches I/O.
package reputation
