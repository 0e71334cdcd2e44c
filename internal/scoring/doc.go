// Package scoring turns normalized quotes into dashboard cards: an activity
// score (1-10), a risk tier and a trend direction, and ranks them.
//
// Every function here is pure and safe for concurrent use. Missing or
// non-finite inputs never fail a call; they disable the rule that needs them.
package scoring
