// Package bookdetails implements the Catalog get(bookId) query.
package bookdetails
