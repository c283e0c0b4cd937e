// Package slip issues the claim tokens printed on borrow slips.
//
// A claim token is a PASETO v4.local token: encrypted and authenticated with a symmetric key,
// so only this service can read or mint it. Staff scan it at the desk to find the loan for a return.
// Rendering the slip as PDF or QR code happens elsewhere; Artifact provides the data for it.
package slip
