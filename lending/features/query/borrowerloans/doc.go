// Package borrowerloans implements the loan history query of one member.
package borrowerloans
