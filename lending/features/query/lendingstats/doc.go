// Package lendingstats implements the admin dashboard figures: catalog size, open and overdue loans,
// and the most borrowed books.
package lendingstats
