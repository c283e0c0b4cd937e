// Package pendingrenewals implements the admin review list of renewal requests.
package pendingrenewals
