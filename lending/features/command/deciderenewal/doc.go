// Package deciderenewal implements the Decide Renewal use case: an administrator approves or declines
// a pending renewal request. Either way the loan goes back to Active.
package deciderenewal
