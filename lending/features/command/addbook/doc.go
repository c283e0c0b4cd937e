// Package addbook implements seeding the catalog with a book and its copy count.
package addbook
