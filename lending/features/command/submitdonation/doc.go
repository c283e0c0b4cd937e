// Package submitdonation implements the Submit Donation use case.
//
// A member offers a book to the library. The donation stays pending until an administrator
// approves or declines it. Nothing is cataloged and no points are credited on submission.
package submitdonation
