// Package donationdetails implements the single donation query.
package donationdetails
