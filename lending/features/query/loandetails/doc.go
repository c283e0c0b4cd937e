// Package loandetails implements the single loan query.
package loandetails
